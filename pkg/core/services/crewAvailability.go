package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/derbyops/crewcall/pkg/core/model"
	"github.com/derbyops/crewcall/pkg/core/roster"
)

// CandidateRow is one eligible application with its conflict classification
// against the prospective assignment
type CandidateRow struct {
	Entry        roster.ApplicationEntry
	OfficialName string
}

// CrewAvailabilityResult lists the candidates for one (crew, game, role) slot
type CrewAvailabilityResult struct {
	Crew       *model.Crew
	Game       *model.Game
	Role       *model.Role
	Candidates []CandidateRow
	Open       int
	Total      int
}

// CrewAvailability computes who can work the role on the crew, with conflict
// status and workload per candidate. gameID may be empty for untimed crews
func CrewAvailability(ctx context.Context, store FormSnapshotStore, logger *zap.Logger, formID, crewID, gameID, roleID string) (*CrewAvailabilityResult, error) {
	snap, err := store.LoadFormSnapshot(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to load form snapshot: %w", err)
	}

	idx := roster.NewIndex(snap)

	crew := idx.Crew(crewID)
	if crew == nil {
		return nil, fmt.Errorf("crew %s not found on form's event", crewID)
	}
	role := idx.Role(roleID)
	if role == nil {
		return nil, fmt.Errorf("role %s not found on form's role groups", roleID)
	}
	var game *model.Game
	if gameID != "" {
		if game = idx.Game(gameID); game == nil {
			return nil, fmt.Errorf("game %s not found on form's event", gameID)
		}
	} else if crew.Kind == model.OverrideCrew {
		game = idx.Game(crew.GameID)
	}

	entries := idx.ApplicationEntries(crew, game, role)
	open, total := idx.ApplicationCounts(crew, game, role)

	candidates := make([]CandidateRow, len(entries))
	for i, entry := range entries {
		name := ""
		if o := idx.Official(entry.Application.OfficialID); o != nil {
			name = o.Name
		}
		candidates[i] = CandidateRow{Entry: entry, OfficialName: name}
	}

	logger.Info("Crew availability computed",
		zap.String("crew_id", crewID),
		zap.String("role", role.Name),
		zap.Int("open", open),
		zap.Int("total", total))

	return &CrewAvailabilityResult{
		Crew:       crew,
		Game:       game,
		Role:       role,
		Candidates: candidates,
		Open:       open,
		Total:      total,
	}, nil
}
