package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/derbyops/crewcall/pkg/core/model"
	"github.com/derbyops/crewcall/pkg/core/roster"
)

// GameStaffingRow shows which crew staffs each role group for one game
type GameStaffingRow struct {
	Game *model.Game
	// CrewByRoleGroup maps role group ID to the effective crew, nil when the
	// game has no crew link for the group
	CrewByRoleGroup map[string]*model.Crew
}

// ViewScheduleResult is the read-oriented staffing view for an event
type ViewScheduleResult struct {
	Event       *model.Event
	RoleGroups  []*model.RoleGroup
	StaticCrews []*model.Crew
	EventCrews  []*model.Crew
	Games       []GameStaffingRow
}

// ScheduleStore defines the database operations needed for the schedule view
type ScheduleStore interface {
	LoadEventSchedule(ctx context.Context, eventID string, roleGroupIDs []string) (*roster.ScheduleSnapshot, error)
}

// ViewSchedule loads the event's games and crews and resolves each game's
// effective crew per role group
func ViewSchedule(ctx context.Context, store ScheduleStore, logger *zap.Logger, eventID string, roleGroupIDs []string) (*ViewScheduleResult, error) {
	snap, err := store.LoadEventSchedule(ctx, eventID, roleGroupIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load event schedule: %w", err)
	}

	schedule := roster.NewSchedule(snap)

	result := &ViewScheduleResult{
		Event:       snap.Event,
		RoleGroups:  snap.RoleGroups,
		StaticCrews: schedule.StaticCrews(),
		EventCrews:  schedule.EventCrews(),
	}

	for _, game := range schedule.Games() {
		row := GameStaffingRow{
			Game:            game,
			CrewByRoleGroup: make(map[string]*model.Crew, len(snap.RoleGroups)),
		}
		for _, rg := range snap.RoleGroups {
			row.CrewByRoleGroup[rg.ID] = schedule.EffectiveCrew(game.ID, rg.ID)
		}
		result.Games = append(result.Games, row)
	}

	logger.Info("Schedule loaded",
		zap.String("event_id", eventID),
		zap.Int("games", len(result.Games)),
		zap.Int("static_crews", len(result.StaticCrews)),
		zap.Int("event_crews", len(result.EventCrews)))

	return result, nil
}
