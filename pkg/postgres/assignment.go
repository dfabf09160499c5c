package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/derbyops/crewcall/pkg/core/model"
	"github.com/derbyops/crewcall/pkg/core/roster"
)

// WithAssignmentTx runs fn inside a single transaction, serializing
// concurrent attempts on the same (role, crew) slot. The slot's existing
// assignment rows are locked up front so two callers cannot both clear and
// refill the slot; the unique (role_id, crew_id) constraint backstops the
// invariant if they try. Any error from fn rolls the whole mutation back
func (s *Store) WithAssignmentTx(ctx context.Context, roleID, crewID string, fn func(roster.Mutator) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin assignment transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		SELECT id FROM crew_assignment
		WHERE role_id = $1 AND crew_id = $2
		FOR UPDATE
	`, roleID, crewID); err != nil {
		return fmt.Errorf("failed to lock assignment slot: %w", err)
	}

	if err := fn(&txMutator{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit assignment transaction: %w", err)
	}
	return nil
}

// txMutator implements roster.Mutator over one open transaction
type txMutator struct {
	tx pgx.Tx
}

func (m *txMutator) CreateAssignment(ctx context.Context, a *model.CrewAssignment) error {
	var officialID *string
	if a.OfficialID != "" {
		officialID = &a.OfficialID
	}
	_, err := m.tx.Exec(ctx, `
		INSERT INTO crew_assignment (id, role_id, crew_id, official_id)
		VALUES ($1, $2, $3, $4)
	`, a.ID, a.RoleID, a.CrewID, officialID)
	if err != nil {
		return fmt.Errorf("failed to insert crew assignment: %w", err)
	}
	return nil
}

func (m *txMutator) DeleteAssignment(ctx context.Context, id string) error {
	if _, err := m.tx.Exec(ctx, `DELETE FROM crew_assignment WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete crew assignment: %w", err)
	}
	return nil
}

func (m *txMutator) SetApplicationStatus(ctx context.Context, applicationID string, status model.ApplicationStatus) error {
	if _, err := m.tx.Exec(ctx, `
		UPDATE application SET status = $2 WHERE id = $1
	`, applicationID, status); err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	return nil
}
