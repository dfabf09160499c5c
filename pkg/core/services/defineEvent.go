package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/derbyops/crewcall/internal/config"
	"github.com/derbyops/crewcall/pkg/core/model"
)

// DefineEventParams describes the event to create and its game schedule
type DefineEventParams struct {
	LeagueID string
	Name     string
	// RRule generates game start times, e.g. "FREQ=WEEKLY;BYDAY=SA;COUNT=6"
	RRule string
	// Start anchors the recurrence
	Start time.Time
	// GameCount caps the number of games generated from the rule
	GameCount int
	// GameLengthMinutes overrides the configured default when positive
	GameLengthMinutes int
}

// DefineEventResult contains the created event and its games
type DefineEventResult struct {
	Event *model.Event
	Games []*model.Game
}

// DefineEventStore defines the database operations needed to create an event
type DefineEventStore interface {
	InsertEvent(ctx context.Context, event *model.Event) error
	InsertGames(ctx context.Context, games []*model.Game) error
}

// DefineEvent creates an event and generates its game schedule from a
// recurrence rule
func DefineEvent(ctx context.Context, store DefineEventStore, cfg *config.Config, logger *zap.Logger, params DefineEventParams) (*DefineEventResult, error) {
	if params.GameCount <= 0 {
		return nil, fmt.Errorf("game count must be positive, got %d", params.GameCount)
	}

	gameLength := params.GameLengthMinutes
	if gameLength <= 0 {
		gameLength = cfg.DefaultGameLengthMinutes
	}

	logger.Info("Defining new event",
		zap.String("name", params.Name),
		zap.String("rrule", params.RRule),
		zap.Int("game_count", params.GameCount),
		zap.Int("game_length_minutes", gameLength))

	rule, err := rrule.StrToRRule(params.RRule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse game schedule rrule: %w", err)
	}
	rule.DTStart(params.Start)

	starts := rule.All()
	if len(starts) == 0 {
		return nil, fmt.Errorf("rrule %q yields no game dates", params.RRule)
	}
	if len(starts) > params.GameCount {
		starts = starts[:params.GameCount]
	}
	logger.Debug("Generated game start times", zap.Int("count", len(starts)))

	event := &model.Event{
		ID:       uuid.New().String(),
		LeagueID: params.LeagueID,
		Name:     params.Name,
		Timezone: cfg.Timezone,
	}
	if err := store.InsertEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	games := make([]*model.Game, len(starts))
	for i, start := range starts {
		games[i] = &model.Game{
			ID:      uuid.New().String(),
			EventID: event.ID,
			Name:    fmt.Sprintf("Game %d", i+1),
			Start:   start,
			End:     start.Add(time.Duration(gameLength) * time.Minute),
			Order:   i,
		}
	}
	if err := store.InsertGames(ctx, games); err != nil {
		return nil, fmt.Errorf("failed to insert games: %w", err)
	}

	logger.Info("Event created successfully",
		zap.String("event_id", event.ID),
		zap.Int("game_count", len(games)),
		zap.Time("first_game", games[0].Start),
		zap.Time("last_game", games[len(games)-1].Start))

	return &DefineEventResult{Event: event, Games: games}, nil
}
