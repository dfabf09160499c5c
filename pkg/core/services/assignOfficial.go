package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/derbyops/crewcall/pkg/core/model"
	"github.com/derbyops/crewcall/pkg/core/roster"
)

// AssignOfficialResult reports what the mutation did
type AssignOfficialResult struct {
	Role     *model.Role
	Crew     *model.Crew
	Official *model.Official // nil when the slot was blanked
	// Displaced counts the official's swappable commitments cleared or
	// blanked over by this assignment
	Displaced int
}

// AssignmentStore defines the database operations needed to commit an
// assignment
type AssignmentStore interface {
	FormSnapshotStore
	WithAssignmentTx(ctx context.Context, roleID, crewID string, fn func(roster.Mutator) error) error
}

// AssignOfficial assigns the official to (role, crew) on the form's event, or
// blanks the slot when officialID is empty. The whole mutation, including
// displacement bookkeeping and status transitions, commits atomically.
// Returns roster.ErrOfficialNotAvailable when the official has no live
// application
func AssignOfficial(ctx context.Context, store AssignmentStore, logger *zap.Logger, formID, roleID, crewID, officialID string) (*AssignOfficialResult, error) {
	logger.Debug("Loading form snapshot", zap.String("form_id", formID))
	snap, err := store.LoadFormSnapshot(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to load form snapshot: %w", err)
	}

	idx := roster.NewIndex(snap)

	role := idx.Role(roleID)
	if role == nil {
		return nil, fmt.Errorf("role %s not found on form's role groups", roleID)
	}
	crew := idx.Crew(crewID)
	if crew == nil {
		return nil, fmt.Errorf("crew %s not found on form's event", crewID)
	}

	var official *model.Official
	var displaced int
	if officialID != "" {
		official = idx.Official(officialID)
		if official == nil {
			// no application loaded for them, so no live application exists
			return nil, roster.ErrOfficialNotAvailable
		}
		var game *model.Game
		if crew.Kind == model.OverrideCrew {
			game = idx.Game(crew.GameID)
		}
		displaced = len(idx.SwappableAssignments(officialID, crew, game, role))
	}

	logger.Info("Committing assignment",
		zap.String("role", role.Name),
		zap.String("crew", crew.Name),
		zap.String("official_id", officialID),
		zap.Int("swappable_commitments", displaced))

	err = store.WithAssignmentTx(ctx, roleID, crewID, func(m roster.Mutator) error {
		return idx.SetAssignment(ctx, m, role, crew, official)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Assignment committed",
		zap.String("role", role.Name),
		zap.String("crew", crew.Name))

	return &AssignOfficialResult{
		Role:      role,
		Crew:      crew,
		Official:  official,
		Displaced: displaced,
	}, nil
}
