package roster

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/derbyops/crewcall/pkg/core/model"
)

// ErrOfficialNotAvailable is returned when an assignment is attempted for an
// official with no live application on the form. It marks a caller-side
// mistake, not a transient condition
var ErrOfficialNotAvailable = errors.New("official has no live application for this form")

// Mutator is the transactional write surface SetAssignment runs against. The
// store wraps one Mutator per call in a single transaction that locks the
// target (role, crew) pair, so either every write lands or none does
type Mutator interface {
	CreateAssignment(ctx context.Context, a *model.CrewAssignment) error
	DeleteAssignment(ctx context.Context, id string) error
	SetApplicationStatus(ctx context.Context, applicationID string, status model.ApplicationStatus) error
}

// SetAssignment fills, replaces or blanks the (role, crew) slot.
//
// The existing assignment for the slot, if any, is removed first and its
// application stepped backwards. When an official is given, their application
// is stepped forwards and every existing commitment the new assignment is
// allowed to displace is cleared: displaced override-crew rows and rows on
// the target crew itself are deleted, and when the target is an override
// crew a blank row is written per displaced role so the static crew's
// default staffing cannot resurface in the vacated slot. Nonexclusive roles
// survive displacement when the displaced crew is the target itself or
// resolves to the same game context.
//
// A nil official clears the slot; on an override crew this also writes the
// explicit blank row that suppresses the static crew for that game.
//
// The index snapshot is not refreshed mid-call: rebuild the index before
// issuing further queries or assignments.
func (idx *Index) SetAssignment(ctx context.Context, m Mutator, role *model.Role, crew *model.Crew, official *model.Official) error {
	deleted := make(map[string]bool)

	existing := idx.Assignment(role, crew)
	if existing != nil {
		if app := idx.ApplicationForAssignment(existing); app != nil {
			app.Status = app.Status.BackwardsForUnassignment()
			if err := m.SetApplicationStatus(ctx, app.ID, app.Status); err != nil {
				return err
			}
		}
		if err := m.DeleteAssignment(ctx, existing.ID); err != nil {
			return err
		}
		deleted[existing.ID] = true
	}

	if official != nil {
		app := idx.ApplicationForOfficial(official.ID)
		if app == nil {
			return ErrOfficialNotAvailable
		}

		app.Status = app.Status.ForwardsForAssignment()
		if err := m.SetApplicationStatus(ctx, app.ID, app.Status); err != nil {
			return err
		}

		var game *model.Game
		if crew.Kind == model.OverrideCrew {
			game = idx.games[crew.GameID]
		}

		// every commitment the new assignment conflicts with but may displace.
		// This set is sometimes unexpectedly empty where a swap looks due; see
		// DESIGN.md before changing the selection here
		oldEntries := idx.SwappableAssignments(official.ID, crew, game, role)

		blanked := make(map[string]bool)
		for _, entry := range oldEntries {
			displaced := entry.Crew
			keepNonexclusive := idx.keepNonexclusive(displaced, crew)

			for _, a := range idx.displacedAssignments(official.ID, displaced) {
				if deleted[a.ID] {
					continue
				}
				if keepNonexclusive && idx.roleNonexclusive(a.RoleID) {
					continue
				}
				// rows on the target crew itself must go, whatever its kind:
				// leaving them would put two rows in one (role, crew) slot
				if displaced.Kind == model.OverrideCrew || displaced.ID == crew.ID {
					if err := m.DeleteAssignment(ctx, a.ID); err != nil {
						return err
					}
					deleted[a.ID] = true
				}
				// the target slot itself is filled below, not blanked
				if a.RoleID == role.ID || blanked[a.RoleID] {
					continue
				}
				// suppressing rows are meaningful only on override crews
				if crew.Kind != model.OverrideCrew {
					continue
				}
				blank := &model.CrewAssignment{
					ID:     uuid.New().String(),
					RoleID: a.RoleID,
					CrewID: crew.ID,
				}
				if err := m.CreateAssignment(ctx, blank); err != nil {
					return err
				}
				blanked[a.RoleID] = true
			}
		}

		return m.CreateAssignment(ctx, &model.CrewAssignment{
			ID:         uuid.New().String(),
			RoleID:     role.ID,
			CrewID:     crew.ID,
			OfficialID: official.ID,
		})
	}

	// blanking: only an override crew needs the explicit suppressing row
	if crew.Kind == model.OverrideCrew {
		return m.CreateAssignment(ctx, &model.CrewAssignment{
			ID:     uuid.New().String(),
			RoleID: role.ID,
			CrewID: crew.ID,
		})
	}
	return nil
}

// keepNonexclusive decides whether the official's nonexclusive roles on the
// displaced crew survive. Static and event crews keep them when displacing
// within the same crew or when the target is that crew's own override for the
// game; override crews only when displacing within the exact same crew
func (idx *Index) keepNonexclusive(displaced, target *model.Crew) bool {
	if displaced.ID == target.ID {
		return true
	}
	if displaced.Kind == model.OverrideCrew {
		return false
	}
	if target.Kind != model.OverrideCrew {
		return false
	}
	for _, link := range idx.snap.CrewLinks {
		if link.GameID == target.GameID && link.CrewID == displaced.ID && link.OverrideCrewID == target.ID {
			return true
		}
	}
	return false
}

// displacedAssignments collects the official's assignment rows on the
// displaced crew, deduplicated by row ID. Static crews are gathered through
// the games they actually cover: one static membership fans out to many games
// when resolved through the crew links, but remains a single row
func (idx *Index) displacedAssignments(officialID string, displaced *model.Crew) []*model.CrewAssignment {
	if displaced.Kind == model.GameCrew {
		covered := false
		for _, link := range idx.snap.CrewLinks {
			if link.EffectiveCrewID() == displaced.ID {
				covered = true
				break
			}
		}
		if !covered {
			return nil
		}
	}

	seen := make(map[string]bool)
	var out []*model.CrewAssignment
	for _, a := range idx.snap.Assignments {
		if a.CrewID != displaced.ID || a.OfficialID != officialID || seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	return out
}

func (idx *Index) roleNonexclusive(roleID string) bool {
	if role := idx.roles[roleID]; role != nil {
		return role.Nonexclusive
	}
	return false
}
