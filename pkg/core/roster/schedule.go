package roster

import (
	"sort"

	"github.com/derbyops/crewcall/pkg/core/model"
)

// ScheduleSnapshot is the read-oriented prefetch for an event and a role
// group subset: games, crews, crew links and assignments, loaded in one pass
// so rendering and the assignment path see a consistent shape
type ScheduleSnapshot struct {
	Event       *model.Event
	RoleGroups  []*model.RoleGroup
	Games       []*model.Game
	Crews       []*model.Crew
	CrewLinks   []*model.RoleGroupCrewAssignment
	Assignments []*model.CrewAssignment
}

// Schedule exposes filtered views over a schedule snapshot. No mutation
// surface
type Schedule struct {
	snap  *ScheduleSnapshot
	crews map[string]*model.Crew
}

// NewSchedule builds a schedule view over the snapshot
func NewSchedule(snap *ScheduleSnapshot) *Schedule {
	s := &Schedule{
		snap:  snap,
		crews: make(map[string]*model.Crew, len(snap.Crews)),
	}
	for _, c := range snap.Crews {
		s.crews[c.ID] = c
	}
	return s
}

// Games returns the event's games in schedule order
func (s *Schedule) Games() []*model.Game {
	games := make([]*model.Game, len(s.snap.Games))
	copy(games, s.snap.Games)
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Order < games[j].Order
	})
	return games
}

// StaticCrews returns the event's static crews
func (s *Schedule) StaticCrews() []*model.Crew {
	return s.crewsOfKind(model.GameCrew)
}

// EventCrews returns the event's event-wide crews
func (s *Schedule) EventCrews() []*model.Crew {
	return s.crewsOfKind(model.EventCrew)
}

func (s *Schedule) crewsOfKind(kind model.CrewKind) []*model.Crew {
	var crews []*model.Crew
	for _, c := range s.snap.Crews {
		if c.Kind == kind {
			crews = append(crews, c)
		}
	}
	return crews
}

// EffectiveCrew resolves which crew staffs the role group for the game,
// consulting the override layer before the static crew
func (s *Schedule) EffectiveCrew(gameID, roleGroupID string) *model.Crew {
	for _, link := range s.snap.CrewLinks {
		if link.GameID == gameID && link.RoleGroupID == roleGroupID {
			return s.crews[link.EffectiveCrewID()]
		}
	}
	return nil
}

// CrewAssignments returns the assignments on one crew
func (s *Schedule) CrewAssignments(crewID string) []*model.CrewAssignment {
	var out []*model.CrewAssignment
	for _, a := range s.snap.Assignments {
		if a.CrewID == crewID {
			out = append(out, a)
		}
	}
	return out
}
