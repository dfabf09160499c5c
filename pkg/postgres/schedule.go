package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/derbyops/crewcall/pkg/core/model"
	"github.com/derbyops/crewcall/pkg/core/roster"
)

// ErrEventNotFound is returned when no event matches the given ID
var ErrEventNotFound = errors.New("event not found")

// LoadEventSchedule loads the read-oriented schedule prefetch for an event,
// restricted to the given role groups when any are named
func (s *Store) LoadEventSchedule(ctx context.Context, eventID string, roleGroupIDs []string) (*roster.ScheduleSnapshot, error) {
	event := &model.Event{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, league_id, name, timezone FROM event WHERE id = $1
	`, eventID).Scan(&event.ID, &event.LeagueID, &event.Name, &event.Timezone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to query event: %w", err)
	}

	snap := &roster.ScheduleSnapshot{Event: event}

	groups, err := s.loadRoleGroups(ctx, event.LeagueID)
	if err != nil {
		return nil, err
	}
	if len(roleGroupIDs) == 0 {
		snap.RoleGroups = groups
	} else {
		wanted := make(map[string]bool, len(roleGroupIDs))
		for _, id := range roleGroupIDs {
			wanted[id] = true
		}
		for _, rg := range groups {
			if wanted[rg.ID] {
				snap.RoleGroups = append(snap.RoleGroups, rg)
			}
		}
	}

	if snap.Games, err = s.loadGames(ctx, eventID); err != nil {
		return nil, err
	}
	if snap.Crews, err = s.loadCrews(ctx, eventID); err != nil {
		return nil, err
	}
	if snap.CrewLinks, err = s.loadCrewLinks(ctx, eventID); err != nil {
		return nil, err
	}
	if snap.Assignments, err = s.loadAssignments(ctx, eventID); err != nil {
		return nil, err
	}

	return snap, nil
}
