// Package roster holds the availability index and the crew-assignment
// mutation logic for a single hiring round.
//
// An Index is built once from a Snapshot of everything loaded for one
// application form. Its derived views are memoized and must be treated as an
// immutable picture of the data at load time: after any mutation, rebuild the
// index from a fresh snapshot rather than reusing a stale one.
package roster

import (
	"sort"

	"github.com/derbyops/crewcall/pkg/core/conflict"
	"github.com/derbyops/crewcall/pkg/core/model"
)

// Snapshot is the data loaded for one application form: the form's role
// groups with their roles, the event's games, crews, crew links and
// assignments, the form's non-terminal applications, and the officials they
// belong to. Withdrawn, declined, rejected and rejection-pending applications
// are excluded at load time
type Snapshot struct {
	Form         *model.ApplicationForm
	Event        *model.Event
	RoleGroups   []*model.RoleGroup
	Games        []*model.Game
	Crews        []*model.Crew
	CrewLinks    []*model.RoleGroupCrewAssignment
	Assignments  []*model.CrewAssignment
	Applications []*model.Application
	Officials    []*model.Official
}

// ApplicationEntry pairs an application with its conflict status against a
// prospective assignment and the official's current game count
type ApplicationEntry struct {
	Application *model.Application
	GameCount   int
	Status      conflict.Status
}

// Index answers availability and eligibility queries for one form
type Index struct {
	snap *Snapshot

	games     map[string]*model.Game
	crews     map[string]*model.Crew
	roles     map[string]*model.Role
	groups    map[string]*model.RoleGroup
	officials map[string]*model.Official

	// role group IDs of the form, treated as interchangeable for swaps
	swappableGroups map[string]bool

	// memoized derived views, built on first use
	byStatus      map[model.ApplicationStatus][]*model.Application
	byRoleName    map[string]map[string][]*model.Application
	gameEntries   map[string][]conflict.Entry
	eventEntries  map[string][]conflict.Entry
	staticEntries map[string][]conflict.Entry
	gameCounts    map[string]int
}

// NewIndex builds an index over the snapshot
func NewIndex(snap *Snapshot) *Index {
	idx := &Index{
		snap:            snap,
		games:           make(map[string]*model.Game, len(snap.Games)),
		crews:           make(map[string]*model.Crew, len(snap.Crews)),
		roles:           make(map[string]*model.Role),
		groups:          make(map[string]*model.RoleGroup, len(snap.RoleGroups)),
		officials:       make(map[string]*model.Official, len(snap.Officials)),
		swappableGroups: make(map[string]bool),
	}

	for _, g := range snap.Games {
		idx.games[g.ID] = g
	}
	for _, c := range snap.Crews {
		idx.crews[c.ID] = c
	}
	for _, rg := range snap.RoleGroups {
		idx.groups[rg.ID] = rg
		for i := range rg.Roles {
			idx.roles[rg.Roles[i].ID] = &rg.Roles[i]
		}
	}
	for _, o := range snap.Officials {
		idx.officials[o.ID] = o
	}
	for _, id := range snap.Form.RoleGroupIDs {
		idx.swappableGroups[id] = true
	}

	return idx
}

// Snapshot returns the data the index was built from
func (idx *Index) Snapshot() *Snapshot { return idx.snap }

// Game looks up a game by ID
func (idx *Index) Game(id string) *model.Game { return idx.games[id] }

// Crew looks up a crew by ID
func (idx *Index) Crew(id string) *model.Crew { return idx.crews[id] }

// Role looks up a role by ID
func (idx *Index) Role(id string) *model.Role { return idx.roles[id] }

// Official looks up an official by ID
func (idx *Index) Official(id string) *model.Official { return idx.officials[id] }

// ApplicationsByStatus groups the form's applications by status
func (idx *Index) ApplicationsByStatus() map[model.ApplicationStatus][]*model.Application {
	if idx.byStatus == nil {
		idx.byStatus = make(map[model.ApplicationStatus][]*model.Application)
		for _, app := range idx.snap.Applications {
			idx.byStatus[app.Status] = append(idx.byStatus[app.Status], app)
		}
	}
	return idx.byStatus
}

// ApplicationsInStatuses returns applications in any of the given statuses,
// sorted by official name. Consumers rely on this ordering for deterministic
// rendering
func (idx *Index) ApplicationsInStatuses(statuses ...model.ApplicationStatus) []*model.Application {
	byStatus := idx.ApplicationsByStatus()
	var apps []*model.Application
	for _, s := range statuses {
		apps = append(apps, byStatus[s]...)
	}
	sort.SliceStable(apps, func(i, j int) bool {
		return idx.officialName(apps[i].OfficialID) < idx.officialName(apps[j].OfficialID)
	})
	return apps
}

func (idx *Index) officialName(officialID string) string {
	if o := idx.officials[officialID]; o != nil {
		return o.Name
	}
	return ""
}

// applicationsByRoleName keys applications by (role group ID, role name).
// Role name, not role ID: identical-named roles recur across role instances
// (two "PLT" slots, say) and applications for either must merge into one list
func (idx *Index) applicationsByRoleName() map[string]map[string][]*model.Application {
	if idx.byRoleName == nil {
		idx.byRoleName = make(map[string]map[string][]*model.Application)
		for _, app := range idx.snap.Applications {
			seen := make(map[string]bool)
			for _, roleID := range app.RoleIDs {
				role := idx.roles[roleID]
				if role == nil {
					continue
				}
				key := role.RoleGroupID + "\x00" + role.Name
				if seen[key] {
					continue
				}
				seen[key] = true
				byName := idx.byRoleName[role.RoleGroupID]
				if byName == nil {
					byName = make(map[string][]*model.Application)
					idx.byRoleName[role.RoleGroupID] = byName
				}
				byName[role.Name] = append(byName[role.Name], app)
			}
		}
	}
	return idx.byRoleName
}

// buildEntries derives the per-official commitment maps, split by crew kind:
// game-scoped entries carry the game's window and come from each game's
// effective crew; event and static entries are untimed
func (idx *Index) buildEntries() {
	if idx.gameEntries != nil {
		return
	}
	idx.gameEntries = make(map[string][]conflict.Entry)
	idx.eventEntries = make(map[string][]conflict.Entry)
	idx.staticEntries = make(map[string][]conflict.Entry)

	assignmentsByCrew := make(map[string][]*model.CrewAssignment)
	for _, a := range idx.snap.Assignments {
		assignmentsByCrew[a.CrewID] = append(assignmentsByCrew[a.CrewID], a)
	}

	// game-scoped: resolve each game's role groups through their crew links
	for _, link := range idx.snap.CrewLinks {
		game := idx.games[link.GameID]
		crew := idx.crews[link.EffectiveCrewID()]
		if game == nil || crew == nil {
			continue
		}
		start, end := game.Start, game.End
		for _, a := range assignmentsByCrew[crew.ID] {
			if a.Blank() {
				continue
			}
			idx.gameEntries[a.OfficialID] = append(idx.gameEntries[a.OfficialID], conflict.Entry{
				Crew:      crew,
				Game:      game,
				Start:     &start,
				End:       &end,
				Exclusive: idx.roleExclusive(a.RoleID),
			})
		}
	}

	// event-wide and static: untimed entries straight off the crew
	for _, crew := range idx.snap.Crews {
		if crew.Kind == model.OverrideCrew {
			continue
		}
		for _, a := range assignmentsByCrew[crew.ID] {
			if a.Blank() {
				continue
			}
			entry := conflict.Entry{
				Crew:      crew,
				Exclusive: idx.roleExclusive(a.RoleID),
			}
			if crew.Kind == model.EventCrew {
				idx.eventEntries[a.OfficialID] = append(idx.eventEntries[a.OfficialID], entry)
			} else {
				idx.staticEntries[a.OfficialID] = append(idx.staticEntries[a.OfficialID], entry)
			}
		}
	}
}

func (idx *Index) roleExclusive(roleID string) bool {
	if role := idx.roles[roleID]; role != nil {
		return !role.Nonexclusive
	}
	// roles outside the form's groups still block the official's time
	return true
}

// entriesForKind selects the commitment map matching the target crew's kind
func (idx *Index) entriesForKind(kind model.CrewKind, officialID string) []conflict.Entry {
	idx.buildEntries()
	switch kind {
	case model.OverrideCrew:
		return idx.gameEntries[officialID]
	case model.EventCrew:
		return idx.eventEntries[officialID]
	default:
		return idx.staticEntries[officialID]
	}
}

// GameCount is the number of distinct game windows the official currently
// works, coalescing multiple roles within one window. Used for workload
// display and ranking, never for conflict decisions
func (idx *Index) GameCount(officialID string) int {
	if idx.gameCounts == nil {
		idx.buildEntries()
		idx.gameCounts = make(map[string]int)
		for id, entries := range idx.gameEntries {
			windows := make(map[[2]int64]bool)
			for _, e := range entries {
				windows[[2]int64{e.Start.UnixNano(), e.End.UnixNano()}] = true
			}
			idx.gameCounts[id] = len(windows)
		}
	}
	return idx.gameCounts[officialID]
}

// prospectiveEntry is the hypothetical commitment created by assigning the
// role on the crew, windowed by the game when one is in play
func (idx *Index) prospectiveEntry(crew *model.Crew, game *model.Game, role *model.Role) conflict.Entry {
	entry := conflict.Entry{
		Crew:      crew,
		Game:      game,
		Exclusive: !role.Nonexclusive,
	}
	if game != nil {
		start, end := game.Start, game.End
		entry.Start, entry.End = &start, &end
	}
	return entry
}

// Applications returns the applications that applied for the role's
// (group, name), filtered by the form's availability mode when the target is
// an override crew for a specific game
func (idx *Index) Applications(crew *model.Crew, game *model.Game, role *model.Role) []*model.Application {
	byName := idx.applicationsByRoleName()[role.RoleGroupID]
	apps := byName[role.Name]
	if crew.Kind != model.OverrideCrew || game == nil {
		return apps
	}

	switch idx.snap.Form.AvailabilityKind {
	case model.ByDay:
		day := idx.gameDayKey(game)
		filtered := make([]*model.Application, 0, len(apps))
		for _, app := range apps {
			if app.AvailableOnDay(day) {
				filtered = append(filtered, app)
			}
		}
		return filtered
	case model.ByGame:
		filtered := make([]*model.Application, 0, len(apps))
		for _, app := range apps {
			if app.AvailableForGame(game.ID) {
				filtered = append(filtered, app)
			}
		}
		return filtered
	default:
		return apps
	}
}

// gameDayKey renders the game's start date in the event's timezone, matching
// the day strings stored on applications
func (idx *Index) gameDayKey(game *model.Game) string {
	return game.Start.In(idx.snap.Event.Location()).Format("2006-01-02")
}

// ApplicationEntries computes, for every eligible application, the dominant
// conflict status of the prospective assignment against the applicant's
// existing commitments of the matching kind
func (idx *Index) ApplicationEntries(crew *model.Crew, game *model.Game, role *model.Role) []ApplicationEntry {
	prospective := idx.prospectiveEntry(crew, game, role)
	apps := idx.Applications(crew, game, role)

	entries := make([]ApplicationEntry, 0, len(apps))
	for _, app := range apps {
		status := conflict.None
		for _, existing := range idx.entriesForKind(crew.Kind, app.OfficialID) {
			status = conflict.Worst(status, conflict.Classify(prospective, existing, idx.swappableGroups))
		}
		entries = append(entries, ApplicationEntry{
			Application: app,
			GameCount:   idx.GameCount(app.OfficialID),
			Status:      status,
		})
	}
	return entries
}

// ApplicationCounts returns how many eligible applications are conflict-free
// and how many there are in total, for "N open of M" indicators
func (idx *Index) ApplicationCounts(crew *model.Crew, game *model.Game, role *model.Role) (open, total int) {
	for _, entry := range idx.ApplicationEntries(crew, game, role) {
		if entry.Status == conflict.None {
			open++
		}
		total++
	}
	return open, total
}

// SwappableAssignments returns the official's existing commitments that the
// prospective assignment would conflict with but is allowed to displace
func (idx *Index) SwappableAssignments(officialID string, crew *model.Crew, game *model.Game, role *model.Role) []conflict.Entry {
	prospective := idx.prospectiveEntry(crew, game, role)
	var swappable []conflict.Entry
	for _, existing := range idx.entriesForKind(crew.Kind, officialID) {
		if conflict.Classify(prospective, existing, idx.swappableGroups) == conflict.Swappable {
			swappable = append(swappable, existing)
		}
	}
	return swappable
}

// ApplicationByID looks up a non-withdrawn application by ID
func (idx *Index) ApplicationByID(id string) *model.Application {
	for _, app := range idx.snap.Applications {
		if app.ID == id {
			return app
		}
	}
	return nil
}

// ApplicationForOfficial returns the official's live application, if any. The
// store guarantees at most one non-withdrawn application per official per form
func (idx *Index) ApplicationForOfficial(officialID string) *model.Application {
	for _, app := range idx.snap.Applications {
		if app.OfficialID == officialID {
			return app
		}
	}
	return nil
}

// ApplicationForAssignment resolves the application behind an assignment's
// official. Blank assignments have none
func (idx *Index) ApplicationForAssignment(a *model.CrewAssignment) *model.Application {
	if a == nil || a.Blank() {
		return nil
	}
	return idx.ApplicationForOfficial(a.OfficialID)
}

// Assignment returns the crew assignment currently filling (role, crew)
func (idx *Index) Assignment(role *model.Role, crew *model.Crew) *model.CrewAssignment {
	for _, a := range idx.snap.Assignments {
		if a.RoleID == role.ID && a.CrewID == crew.ID {
			return a
		}
	}
	return nil
}
