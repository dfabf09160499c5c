package model

import "time"

// CrewKind distinguishes the three staffing variants a crew can take
type CrewKind string

const (
	// GameCrew is a static crew: a standing team reused across many games
	GameCrew CrewKind = "GAME"
	// EventCrew covers event-wide roles and has no time window of its own
	EventCrew CrewKind = "EVENT"
	// OverrideCrew is scoped to a single game and shadows a static crew there
	OverrideCrew CrewKind = "OVERRIDE"
)

func (k CrewKind) IsValid() bool {
	return k == GameCrew || k == EventCrew || k == OverrideCrew
}

// AvailabilityKind is the granularity at which a form collects availability
type AvailabilityKind string

const (
	WholeEvent AvailabilityKind = "WHOLE_EVENT"
	ByDay      AvailabilityKind = "BY_DAY"
	ByGame     AvailabilityKind = "BY_GAME"
)

func (k AvailabilityKind) IsValid() bool {
	return k == WholeEvent || k == ByDay || k == ByGame
}

// Official is an applicant/official. Name is the stable ordering key for lists
type Official struct {
	ID       string
	Name     string
	Email    string
	Pronouns string
}

// Event owns games and crews and belongs to a league
type Event struct {
	ID       string
	LeagueID string
	Name     string
	Timezone string
}

// Location resolves the event's IANA timezone, falling back to UTC when the
// stored name is unknown to the host
func (e *Event) Location() *time.Location {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RoleGroup is a named grouping of roles (e.g. "NSO", "SO"), scoped to a league
type RoleGroup struct {
	ID       string
	LeagueID string
	Name     string
	Roles    []Role
}

// Role is a position within exactly one role group. A nonexclusive role does
// not occupy its holder's full attention, so it never blocks overlapping work
type Role struct {
	ID           string
	RoleGroupID  string
	Name         string
	Order        int
	Nonexclusive bool
}

// Game belongs to one event and carries a timezone-aware window
type Game struct {
	ID      string
	EventID string
	Name    string
	Start   time.Time
	End     time.Time
	Order   int
}

// Crew is a staffing unit. GameID is set only for override crews
type Crew struct {
	ID          string
	EventID     string
	RoleGroupID string
	Name        string
	Kind        CrewKind
	GameID      string
}

// RoleGroupCrewAssignment links a (game, role group) to the crew actually
// staffing it: the static crew by default, or an override crew layered on top
type RoleGroupCrewAssignment struct {
	ID             string
	GameID         string
	RoleGroupID    string
	CrewID         string // static crew, may be empty
	OverrideCrewID string // may be empty
}

// EffectiveCrewID resolves which crew staffs the game for this role group
func (r *RoleGroupCrewAssignment) EffectiveCrewID() string {
	if r.OverrideCrewID != "" {
		return r.OverrideCrewID
	}
	return r.CrewID
}

// CrewAssignment fills one crew's slot for one role. An empty OfficialID on an
// override crew is a deliberate blank that suppresses the static crew's
// staffing for that game
type CrewAssignment struct {
	ID         string
	RoleID     string
	CrewID     string
	OfficialID string
}

// Blank reports whether this assignment is a blanking record
func (a *CrewAssignment) Blank() bool {
	return a.OfficialID == ""
}

// ApplicationForm is the unit officials apply against for one hiring round
type ApplicationForm struct {
	ID               string
	EventID          string
	Slug             string
	RoleGroupIDs     []string
	AvailabilityKind AvailabilityKind
	CloseDate        time.Time
}

// Application is one official's application to one form. AvailableDays holds
// "2006-01-02" keys for ByDay forms; AvailableGameIDs holds game IDs for
// ByGame forms
type Application struct {
	ID               string
	FormID           string
	OfficialID       string
	Status           ApplicationStatus
	RoleIDs          []string
	AvailableDays    []string
	AvailableGameIDs []string
}

// AvailableOnDay reports whether the application's day list contains the key
func (a *Application) AvailableOnDay(day string) bool {
	for _, d := range a.AvailableDays {
		if d == day {
			return true
		}
	}
	return false
}

// AvailableForGame reports whether the application's game set contains the game
func (a *Application) AvailableForGame(gameID string) bool {
	for _, id := range a.AvailableGameIDs {
		if id == gameID {
			return true
		}
	}
	return false
}
