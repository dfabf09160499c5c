package postgres

import (
	"context"
	"fmt"

	"github.com/derbyops/crewcall/pkg/core/model"
)

// InsertEvent inserts a new event record
func (s *Store) InsertEvent(ctx context.Context, event *model.Event) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO event (id, league_id, name, timezone)
		VALUES ($1, $2, $3, $4)
	`, event.ID, event.LeagueID, event.Name, event.Timezone)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// InsertGames inserts the event's games in one transaction
func (s *Store) InsertGames(ctx context.Context, games []*model.Game) error {
	if len(games) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, g := range games {
		_, err := tx.Exec(ctx, `
			INSERT INTO game (id, event_id, name, start_time, end_time, ordering)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, g.ID, g.EventID, g.Name, g.Start, g.End, g.Order)
		if err != nil {
			return fmt.Errorf("failed to insert game: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
