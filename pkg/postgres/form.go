package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/derbyops/crewcall/pkg/core/model"
	"github.com/derbyops/crewcall/pkg/core/roster"
)

// ErrFormNotFound is returned when no application form matches the given ID
var ErrFormNotFound = errors.New("application form not found")

// LoadFormSnapshot loads everything the availability index needs for one
// hiring round: the form with its role groups and roles, the event's games,
// crews, crew links and assignments, the form's non-terminal applications,
// and the officials involved
func (s *Store) LoadFormSnapshot(ctx context.Context, formID string) (*roster.Snapshot, error) {
	snap := &roster.Snapshot{}

	form := &model.ApplicationForm{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, event_id, slug, availability_kind, COALESCE(close_date, 'epoch'::timestamptz)
		FROM application_form
		WHERE id = $1
	`, formID).Scan(&form.ID, &form.EventID, &form.Slug, &form.AvailabilityKind, &form.CloseDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to query application form: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT role_group_id FROM application_form_role_group WHERE form_id = $1
	`, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to query form role groups: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan form role group: %w", err)
		}
		form.RoleGroupIDs = append(form.RoleGroupIDs, id)
	}
	rows.Close()
	snap.Form = form

	event := &model.Event{}
	err = s.pool.QueryRow(ctx, `
		SELECT id, league_id, name, timezone FROM event WHERE id = $1
	`, form.EventID).Scan(&event.ID, &event.LeagueID, &event.Name, &event.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to query event: %w", err)
	}
	snap.Event = event

	snap.RoleGroups, err = s.loadRoleGroups(ctx, event.LeagueID)
	if err != nil {
		return nil, err
	}

	snap.Games, err = s.loadGames(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	snap.Crews, err = s.loadCrews(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	snap.CrewLinks, err = s.loadCrewLinks(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	snap.Assignments, err = s.loadAssignments(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	snap.Applications, err = s.loadApplications(ctx, formID)
	if err != nil {
		return nil, err
	}

	snap.Officials, err = s.loadOfficials(ctx, event.ID, formID)
	if err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *Store) loadRoleGroups(ctx context.Context, leagueID string) ([]*model.RoleGroup, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, league_id, name FROM role_group WHERE league_id = $1
	`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query role groups: %w", err)
	}
	defer rows.Close()

	var groups []*model.RoleGroup
	byID := make(map[string]*model.RoleGroup)
	for rows.Next() {
		rg := &model.RoleGroup{}
		if err := rows.Scan(&rg.ID, &rg.LeagueID, &rg.Name); err != nil {
			return nil, fmt.Errorf("failed to scan role group: %w", err)
		}
		groups = append(groups, rg)
		byID[rg.ID] = rg
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role groups: %w", err)
	}
	rows.Close()

	roleRows, err := s.pool.Query(ctx, `
		SELECT r.id, r.role_group_id, r.name, r.ordering, r.nonexclusive
		FROM role r
		JOIN role_group rg ON rg.id = r.role_group_id
		WHERE rg.league_id = $1
		ORDER BY r.ordering
	`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer roleRows.Close()

	for roleRows.Next() {
		var role model.Role
		if err := roleRows.Scan(&role.ID, &role.RoleGroupID, &role.Name, &role.Order, &role.Nonexclusive); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		if rg := byID[role.RoleGroupID]; rg != nil {
			rg.Roles = append(rg.Roles, role)
		}
	}
	if err := roleRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roles: %w", err)
	}

	return groups, nil
}

func (s *Store) loadGames(ctx context.Context, eventID string) ([]*model.Game, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, event_id, name, start_time, end_time, ordering
		FROM game
		WHERE event_id = $1
		ORDER BY ordering
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []*model.Game
	for rows.Next() {
		g := &model.Game{}
		if err := rows.Scan(&g.ID, &g.EventID, &g.Name, &g.Start, &g.End, &g.Order); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}
	return games, nil
}

func (s *Store) loadCrews(ctx context.Context, eventID string) ([]*model.Crew, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, event_id, role_group_id, name, kind, game_id
		FROM crew
		WHERE event_id = $1
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query crews: %w", err)
	}
	defer rows.Close()

	var crews []*model.Crew
	for rows.Next() {
		c := &model.Crew{}
		var gameID *string
		if err := rows.Scan(&c.ID, &c.EventID, &c.RoleGroupID, &c.Name, &c.Kind, &gameID); err != nil {
			return nil, fmt.Errorf("failed to scan crew: %w", err)
		}
		if gameID != nil {
			c.GameID = *gameID
		}
		crews = append(crews, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating crews: %w", err)
	}
	return crews, nil
}

func (s *Store) loadCrewLinks(ctx context.Context, eventID string) ([]*model.RoleGroupCrewAssignment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT l.id, l.game_id, l.role_group_id, l.crew_id, l.override_crew_id
		FROM role_group_crew_assignment l
		JOIN game g ON g.id = l.game_id
		WHERE g.event_id = $1
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query crew links: %w", err)
	}
	defer rows.Close()

	var links []*model.RoleGroupCrewAssignment
	for rows.Next() {
		l := &model.RoleGroupCrewAssignment{}
		var crewID, overrideID *string
		if err := rows.Scan(&l.ID, &l.GameID, &l.RoleGroupID, &crewID, &overrideID); err != nil {
			return nil, fmt.Errorf("failed to scan crew link: %w", err)
		}
		if crewID != nil {
			l.CrewID = *crewID
		}
		if overrideID != nil {
			l.OverrideCrewID = *overrideID
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating crew links: %w", err)
	}
	return links, nil
}

func (s *Store) loadAssignments(ctx context.Context, eventID string) ([]*model.CrewAssignment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.id, a.role_id, a.crew_id, a.official_id
		FROM crew_assignment a
		JOIN crew c ON c.id = a.crew_id
		WHERE c.event_id = $1
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query crew assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*model.CrewAssignment
	for rows.Next() {
		a := &model.CrewAssignment{}
		var officialID *string
		if err := rows.Scan(&a.ID, &a.RoleID, &a.CrewID, &officialID); err != nil {
			return nil, fmt.Errorf("failed to scan crew assignment: %w", err)
		}
		if officialID != nil {
			a.OfficialID = *officialID
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating crew assignments: %w", err)
	}
	return assignments, nil
}

// loadApplications loads the form's non-terminal applications with their
// applied-for roles and availability data
func (s *Store) loadApplications(ctx context.Context, formID string) ([]*model.Application, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, form_id, official_id, status, available_days
		FROM application
		WHERE form_id = $1
		  AND status NOT IN ('WITHDRAWN', 'DECLINED', 'REJECTED', 'REJECTION_PENDING')
	`, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}

	var apps []*model.Application
	byID := make(map[string]*model.Application)
	for rows.Next() {
		app := &model.Application{}
		if err := rows.Scan(&app.ID, &app.FormID, &app.OfficialID, &app.Status, &app.AvailableDays); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
		byID[app.ID] = app
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating applications: %w", err)
	}
	rows.Close()

	roleRows, err := s.pool.Query(ctx, `
		SELECT ar.application_id, ar.role_id
		FROM application_role ar
		JOIN application a ON a.id = ar.application_id
		WHERE a.form_id = $1
	`, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to query application roles: %w", err)
	}
	for roleRows.Next() {
		var appID, roleID string
		if err := roleRows.Scan(&appID, &roleID); err != nil {
			roleRows.Close()
			return nil, fmt.Errorf("failed to scan application role: %w", err)
		}
		if app := byID[appID]; app != nil {
			app.RoleIDs = append(app.RoleIDs, roleID)
		}
	}
	roleRows.Close()

	gameRows, err := s.pool.Query(ctx, `
		SELECT ag.application_id, ag.game_id
		FROM application_game ag
		JOIN application a ON a.id = ag.application_id
		WHERE a.form_id = $1
	`, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to query application games: %w", err)
	}
	for gameRows.Next() {
		var appID, gameID string
		if err := gameRows.Scan(&appID, &gameID); err != nil {
			gameRows.Close()
			return nil, fmt.Errorf("failed to scan application game: %w", err)
		}
		if app := byID[appID]; app != nil {
			app.AvailableGameIDs = append(app.AvailableGameIDs, gameID)
		}
	}
	gameRows.Close()

	return apps, nil
}

// loadOfficials loads everyone referenced by the event's assignments or the
// form's applications
func (s *Store) loadOfficials(ctx context.Context, eventID, formID string) ([]*model.Official, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT o.id, o.name, o.email, o.pronouns
		FROM official o
		WHERE o.id IN (
			SELECT official_id FROM application WHERE form_id = $2
			UNION
			SELECT a.official_id
			FROM crew_assignment a
			JOIN crew c ON c.id = a.crew_id
			WHERE c.event_id = $1 AND a.official_id IS NOT NULL
		)
	`, eventID, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to query officials: %w", err)
	}
	defer rows.Close()

	var officials []*model.Official
	for rows.Next() {
		o := &model.Official{}
		if err := rows.Scan(&o.ID, &o.Name, &o.Email, &o.Pronouns); err != nil {
			return nil, fmt.Errorf("failed to scan official: %w", err)
		}
		officials = append(officials, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating officials: %w", err)
	}
	return officials, nil
}
