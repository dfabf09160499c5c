package roster

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derbyops/crewcall/pkg/core/model"
)

// fakeMutator records every write SetAssignment issues
type fakeMutator struct {
	created  []*model.CrewAssignment
	deleted  []string
	statuses map[string]model.ApplicationStatus

	createErr error
}

func newFakeMutator() *fakeMutator {
	return &fakeMutator{statuses: make(map[string]model.ApplicationStatus)}
}

func (m *fakeMutator) CreateAssignment(ctx context.Context, a *model.CrewAssignment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, a)
	return nil
}

func (m *fakeMutator) DeleteAssignment(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *fakeMutator) SetApplicationStatus(ctx context.Context, applicationID string, status model.ApplicationStatus) error {
	m.statuses[applicationID] = status
	return nil
}

func (m *fakeMutator) wasDeleted(id string) bool {
	for _, d := range m.deleted {
		if d == id {
			return true
		}
	}
	return false
}

func TestSetAssignment_FillsOpenSlot(t *testing.T) {
	snap := newFixture()
	idx := NewIndex(snap)
	m := newFakeMutator()

	err := idx.SetAssignment(context.Background(), m, role(t, idx, "jt"), idx.Crew("ovr1"), idx.Official("o-ada"))
	require.NoError(t, err)

	assert.Empty(t, m.deleted)
	assert.Equal(t, model.AssignmentPending, m.statuses["app-ada"])

	require.Len(t, m.created, 1)
	created := m.created[0]
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "jt", created.RoleID)
	assert.Equal(t, "ovr1", created.CrewID)
	assert.Equal(t, "o-ada", created.OfficialID)
}

func TestSetAssignment_ReplacesExistingOfficial(t *testing.T) {
	snap := newFixture()
	snap.Assignments = []*model.CrewAssignment{
		{ID: "a1", RoleID: "jt", CrewID: "ovr1", OfficialID: "o-bix"},
	}
	snap.Applications[1].Status = model.Assigned
	idx := NewIndex(snap)
	m := newFakeMutator()

	err := idx.SetAssignment(context.Background(), m, role(t, idx, "jt"), idx.Crew("ovr1"), idx.Official("o-ada"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a1"}, m.deleted)
	assert.Equal(t, model.AssignmentPending, m.statuses["app-bix"])
	assert.Equal(t, model.AssignmentPending, m.statuses["app-ada"])

	require.Len(t, m.created, 1)
	assert.Equal(t, "o-ada", m.created[0].OfficialID)
}

func TestSetAssignment_UnknownOfficialRejected(t *testing.T) {
	idx := NewIndex(newFixture())
	m := newFakeMutator()

	err := idx.SetAssignment(context.Background(), m, role(t, idx, "jt"), idx.Crew("ovr1"), &model.Official{ID: "o-zed", Name: "Zed"})
	require.ErrorIs(t, err, ErrOfficialNotAvailable)

	assert.Empty(t, m.created)
	assert.Empty(t, m.deleted)
	assert.Empty(t, m.statuses)
}

func TestSetAssignment_BlankOnStaticCrewIsIdempotent(t *testing.T) {
	idx := NewIndex(newFixture())
	m := newFakeMutator()

	for i := 0; i < 2; i++ {
		err := idx.SetAssignment(context.Background(), m, role(t, idx, "jt"), idx.Crew("crewA"), nil)
		require.NoError(t, err)
	}

	assert.Empty(t, m.created, "static crews need no suppressing row")
	assert.Empty(t, m.deleted)
	assert.Empty(t, m.statuses)
}

func TestSetAssignment_BlankOnOverrideCrewWritesSuppressingRow(t *testing.T) {
	idx := NewIndex(newFixture())
	m := newFakeMutator()

	err := idx.SetAssignment(context.Background(), m, role(t, idx, "jt"), idx.Crew("ovr1"), nil)
	require.NoError(t, err)

	require.Len(t, m.created, 1)
	assert.True(t, m.created[0].Blank())
	assert.Equal(t, "jt", m.created[0].RoleID)
	assert.Equal(t, "ovr1", m.created[0].CrewID)
	assert.Empty(t, m.deleted)
	assert.Empty(t, m.statuses)
}

func TestSetAssignment_AssignThenClearRoundTripsStatus(t *testing.T) {
	snap := newFixture()
	idx := NewIndex(snap)
	m := newFakeMutator()

	jt := role(t, idx, "jt")
	crewA := idx.Crew("crewA")

	require.NoError(t, idx.SetAssignment(context.Background(), m, jt, crewA, idx.Official("o-ada")))
	require.Len(t, m.created, 1)
	assert.Equal(t, model.AssignmentPending, m.statuses["app-ada"])

	// fresh snapshot with the committed row, as a caller would reload it
	snap2 := newFixture()
	snap2.Assignments = []*model.CrewAssignment{m.created[0]}
	snap2.Applications[0].Status = model.AssignmentPending
	idx2 := NewIndex(snap2)
	m2 := newFakeMutator()

	require.NoError(t, idx2.SetAssignment(context.Background(), m2, role(t, idx2, "jt"), idx2.Crew("crewA"), nil))

	assert.Equal(t, []string{m.created[0].ID}, m2.deleted)
	assert.Equal(t, model.Applied, m2.statuses["app-ada"])
	assert.Empty(t, m2.created)
}

func TestSetAssignment_DisplacesStaticCommitmentWithBlank(t *testing.T) {
	snap := newFixture()
	// game one still resolves to crew A, where Bix works Jam Timer
	snap.CrewLinks[0].OverrideCrewID = ""
	snap.Assignments = []*model.CrewAssignment{
		{ID: "a1", RoleID: "jt", CrewID: "crewA", OfficialID: "o-bix"},
	}
	idx := NewIndex(snap)
	m := newFakeMutator()

	err := idx.SetAssignment(context.Background(), m, role(t, idx, "plt1"), idx.Crew("ovr1"), idx.Official("o-bix"))
	require.NoError(t, err)

	// the static row survives: it still staffs the other games. The override
	// carries a blank so Bix's vacated role cannot resurface in game one
	assert.Empty(t, m.deleted)
	assert.Equal(t, model.AssignmentPending, m.statuses["app-bix"])

	require.Len(t, m.created, 2)
	blank, final := m.created[0], m.created[1]
	assert.True(t, blank.Blank())
	assert.Equal(t, "jt", blank.RoleID)
	assert.Equal(t, "ovr1", blank.CrewID)
	assert.Equal(t, "o-bix", final.OfficialID)
	assert.Equal(t, "plt1", final.RoleID)
	assert.Equal(t, "ovr1", final.CrewID)
}

func TestSetAssignment_KeepsNonexclusiveOnSameCrew(t *testing.T) {
	snap := newFixture()
	snap.Assignments = []*model.CrewAssignment{
		{ID: "a-jt", RoleID: "jt", CrewID: "ovr1", OfficialID: "o-bix"},
		{ID: "a-alt", RoleID: "alt", CrewID: "ovr1", OfficialID: "o-bix"},
	}
	idx := NewIndex(snap)
	m := newFakeMutator()

	err := idx.SetAssignment(context.Background(), m, role(t, idx, "plt1"), idx.Crew("ovr1"), idx.Official("o-bix"))
	require.NoError(t, err)

	// the exclusive role is displaced, the nonexclusive one survives
	assert.Equal(t, []string{"a-jt"}, m.deleted)

	require.Len(t, m.created, 2)
	assert.True(t, m.created[0].Blank())
	assert.Equal(t, "jt", m.created[0].RoleID)
	assert.Equal(t, "o-bix", m.created[1].OfficialID)
	assert.Equal(t, "plt1", m.created[1].RoleID)

	for _, c := range m.created {
		assert.NotEqual(t, "alt", c.RoleID, "nonexclusive role must not be blanked over")
	}
}

func TestSetAssignment_DisplacesNonexclusiveAcrossCrews(t *testing.T) {
	snap := newFixture()
	snap.RoleGroups[1].Roles = append(snap.RoleGroups[1].Roles,
		model.Role{ID: "halt", RoleGroupID: "heads", Name: "Heads Alternate", Order: 2, Nonexclusive: true})
	snap.Crews = append(snap.Crews,
		&model.Crew{ID: "ovrH", EventID: "ev1", RoleGroupID: "heads", Name: "Game 1 Heads", Kind: model.OverrideCrew, GameID: "g1"})
	snap.CrewLinks = append(snap.CrewLinks,
		&model.RoleGroupCrewAssignment{ID: "l4", GameID: "g1", RoleGroupID: "heads", OverrideCrewID: "ovrH"})
	snap.Assignments = []*model.CrewAssignment{
		{ID: "a-h", RoleID: "hnso", CrewID: "ovrH", OfficialID: "o-bix"},
		{ID: "a-ha", RoleID: "halt", CrewID: "ovrH", OfficialID: "o-bix"},
	}
	idx := NewIndex(snap)
	m := newFakeMutator()

	err := idx.SetAssignment(context.Background(), m, role(t, idx, "plt1"), idx.Crew("ovr1"), idx.Official("o-bix"))
	require.NoError(t, err)

	// a different crew is displaced wholesale: nonexclusive roles go too
	assert.ElementsMatch(t, []string{"a-h", "a-ha"}, m.deleted)

	require.Len(t, m.created, 3)
	var blankRoles []string
	for _, c := range m.created[:2] {
		assert.True(t, c.Blank())
		assert.Equal(t, "ovr1", c.CrewID)
		blankRoles = append(blankRoles, c.RoleID)
	}
	assert.ElementsMatch(t, []string{"hnso", "halt"}, blankRoles)
	assert.Equal(t, "o-bix", m.created[2].OfficialID)
}

func TestSetAssignment_SecondExclusiveRoleOnSameStaticCrew(t *testing.T) {
	snap := newFixture()
	snap.Assignments = []*model.CrewAssignment{
		{ID: "a1", RoleID: "jt", CrewID: "crewA", OfficialID: "o-bix"},
	}
	idx := NewIndex(snap)
	m := newFakeMutator()

	err := idx.SetAssignment(context.Background(), m, role(t, idx, "plt1"), idx.Crew("crewA"), idx.Official("o-bix"))
	require.NoError(t, err)

	// moving within the same static crew deletes the old row; no suppressing
	// row is written because the crew has no override layer
	assert.Equal(t, []string{"a1"}, m.deleted)
	assert.Equal(t, model.AssignmentPending, m.statuses["app-bix"])

	require.Len(t, m.created, 1)
	assert.Equal(t, "plt1", m.created[0].RoleID)
	assert.Equal(t, "o-bix", m.created[0].OfficialID)

	// at most one row remains per (role, crew) once the writes land
	rows := make(map[[2]string]int)
	for _, a := range snap.Assignments {
		if !m.wasDeleted(a.ID) {
			rows[[2]string{a.RoleID, a.CrewID}]++
		}
	}
	for _, a := range m.created {
		rows[[2]string{a.RoleID, a.CrewID}]++
	}
	for slot, n := range rows {
		assert.LessOrEqual(t, n, 1, "slot %v", slot)
	}
}

// addParallelGame gives the fixture a second game sharing game one's window,
// staffed by crew A through its own link
func addParallelGame(snap *Snapshot) {
	g1 := snap.Games[0]
	snap.Games = append(snap.Games, &model.Game{
		ID: "gp", EventID: "ev1", Name: "Game 1B", Start: g1.Start, End: g1.End, Order: 4,
	})
	snap.CrewLinks = append(snap.CrewLinks, &model.RoleGroupCrewAssignment{
		ID: "lp", GameID: "gp", RoleGroupID: "nso", CrewID: "crewA",
	})
}

func TestSetAssignment_KeepsNonexclusiveWhenTargetIsCrewsOwnOverride(t *testing.T) {
	snap := newFixture()
	addParallelGame(snap)
	snap.Assignments = []*model.CrewAssignment{
		{ID: "a-jt", RoleID: "jt", CrewID: "crewA", OfficialID: "o-bix"},
		{ID: "a-alt", RoleID: "alt", CrewID: "crewA", OfficialID: "o-bix"},
	}
	idx := NewIndex(snap)
	m := newFakeMutator()

	// the target override shadows crew A for game one, so crew A's
	// nonexclusive roles ride along
	err := idx.SetAssignment(context.Background(), m, role(t, idx, "plt1"), idx.Crew("ovr1"), idx.Official("o-bix"))
	require.NoError(t, err)

	assert.Empty(t, m.deleted)

	require.Len(t, m.created, 2)
	assert.True(t, m.created[0].Blank())
	assert.Equal(t, "jt", m.created[0].RoleID)
	assert.Equal(t, "ovr1", m.created[0].CrewID)
	assert.Equal(t, "o-bix", m.created[1].OfficialID)

	for _, c := range m.created {
		assert.NotEqual(t, "alt", c.RoleID, "nonexclusive role must not be blanked over")
	}
}

func TestSetAssignment_DisplacesNonexclusiveWhenOverrideNotLinked(t *testing.T) {
	snap := newFixture()
	addParallelGame(snap)
	// the override crew exists but no link names it, so crew A is not being
	// shadowed and its nonexclusive roles do not ride along
	snap.CrewLinks[0].OverrideCrewID = ""
	snap.Assignments = []*model.CrewAssignment{
		{ID: "a-jt", RoleID: "jt", CrewID: "crewA", OfficialID: "o-bix"},
		{ID: "a-alt", RoleID: "alt", CrewID: "crewA", OfficialID: "o-bix"},
	}
	idx := NewIndex(snap)
	m := newFakeMutator()

	err := idx.SetAssignment(context.Background(), m, role(t, idx, "plt1"), idx.Crew("ovr1"), idx.Official("o-bix"))
	require.NoError(t, err)

	assert.Empty(t, m.deleted)

	require.Len(t, m.created, 3)
	var blankRoles []string
	for _, c := range m.created[:2] {
		assert.True(t, c.Blank())
		assert.Equal(t, "ovr1", c.CrewID)
		blankRoles = append(blankRoles, c.RoleID)
	}
	assert.ElementsMatch(t, []string{"jt", "alt"}, blankRoles)
	assert.Equal(t, "o-bix", m.created[2].OfficialID)
}

func TestSetAssignment_OverrideBlankKeepsStaticEntryVisible(t *testing.T) {
	// Blanking an override crew whose link still resolves to the static crew
	// does not hide the static commitment: suppression flows through the crew
	// link, not the blank row alone. Current contract, see DESIGN.md
	snap := newFixture()
	snap.CrewLinks[0].OverrideCrewID = ""
	snap.Assignments = []*model.CrewAssignment{
		{ID: "a1", RoleID: "jt", CrewID: "crewA", OfficialID: "o-bix"},
	}
	require.Equal(t, 3, NewIndex(snap).GameCount("o-bix"))

	m := newFakeMutator()
	idx := NewIndex(snap)
	require.NoError(t, idx.SetAssignment(context.Background(), m, role(t, idx, "jt"), idx.Crew("ovr1"), nil))
	require.Len(t, m.created, 1)

	snap.Assignments = append(snap.Assignments, m.created[0])
	assert.Equal(t, 3, NewIndex(snap).GameCount("o-bix"))
}

func TestSetAssignment_PropagatesWriteErrors(t *testing.T) {
	idx := NewIndex(newFixture())
	m := newFakeMutator()
	m.createErr = errors.New("boom")

	err := idx.SetAssignment(context.Background(), m, role(t, idx, "jt"), idx.Crew("ovr1"), idx.Official("o-ada"))
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
}
