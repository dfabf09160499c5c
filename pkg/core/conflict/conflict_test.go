package conflict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/derbyops/crewcall/pkg/core/model"
)

func tp(t time.Time) *time.Time { return &t }

var (
	day   = time.Date(2218, 5, 25, 0, 0, 0, 0, time.UTC)
	nine  = day.Add(9 * time.Hour)
	ten   = day.Add(10 * time.Hour)
	noon  = day.Add(12 * time.Hour)
	one   = day.Add(13 * time.Hour)
	three = day.Add(15 * time.Hour)
)

func overrideCrew(id, roleGroupID string) *model.Crew {
	return &model.Crew{ID: id, RoleGroupID: roleGroupID, Kind: model.OverrideCrew}
}

func staticCrew(id, roleGroupID string) *model.Crew {
	return &model.Crew{ID: id, RoleGroupID: roleGroupID, Kind: model.GameCrew}
}

func TestClassify_SameSlotBothExclusive(t *testing.T) {
	a := Entry{Crew: overrideCrew("c1", "nso"), Start: tp(nine), End: tp(noon), Exclusive: true}
	b := Entry{Crew: overrideCrew("c1", "nso"), Start: tp(nine), End: tp(noon), Exclusive: true}

	assert.Equal(t, Swappable, Classify(a, b, nil))
}

func TestClassify_SameSlotNonexclusiveNeverConflicts(t *testing.T) {
	exclusive := Entry{Crew: overrideCrew("c1", "nso"), Start: tp(nine), End: tp(noon), Exclusive: true}
	relaxed := Entry{Crew: overrideCrew("c1", "nso"), Start: tp(nine), End: tp(noon), Exclusive: false}

	assert.Equal(t, None, Classify(exclusive, relaxed, nil))
	assert.Equal(t, None, Classify(relaxed, exclusive, nil))
	assert.Equal(t, None, Classify(relaxed, relaxed, nil))
}

func TestClassify_SameWindowDifferentGroupFallsThroughToOverlap(t *testing.T) {
	// identical windows but different role groups is not the same slot, so
	// plain interval overlap applies
	a := Entry{Crew: overrideCrew("c1", "nso"), Start: tp(nine), End: tp(noon), Exclusive: true}
	b := Entry{Crew: overrideCrew("c2", "so"), Start: tp(nine), End: tp(noon), Exclusive: true}

	assert.Equal(t, NonSwappable, Classify(a, b, nil))
	assert.Equal(t, Swappable, Classify(a, b, map[string]bool{"so": true}))
}

func TestClassify_OverlapSwappableWhenGroupInterchangeable(t *testing.T) {
	groups := map[string]bool{"nso": true}

	a := Entry{Crew: overrideCrew("c1", "nso"), Start: tp(nine), End: tp(noon), Exclusive: true}
	b := Entry{Crew: overrideCrew("c2", "nso"), Start: tp(ten), End: tp(one), Exclusive: true}

	assert.Equal(t, Swappable, Classify(a, b, groups))
}

func TestClassify_OverlapOutsideGroupsIsHard(t *testing.T) {
	groups := map[string]bool{"nso": true}

	a := Entry{Crew: overrideCrew("c1", "nso"), Start: tp(nine), End: tp(noon), Exclusive: true}
	b := Entry{Crew: overrideCrew("c2", "announcers"), Start: tp(ten), End: tp(one), Exclusive: true}

	assert.Equal(t, NonSwappable, Classify(a, b, groups))
}

func TestClassify_AbuttingWindowsNeverConflict(t *testing.T) {
	a := Entry{Crew: overrideCrew("c1", "nso"), Start: tp(nine), End: tp(noon), Exclusive: true}
	b := Entry{Crew: overrideCrew("c2", "nso"), Start: tp(noon), End: tp(three), Exclusive: true}

	assert.Equal(t, None, Classify(a, b, map[string]bool{"nso": true}))
	assert.Equal(t, None, Classify(b, a, map[string]bool{"nso": true}))
}

func TestClassify_DisjointWindows(t *testing.T) {
	a := Entry{Crew: overrideCrew("c1", "nso"), Start: tp(nine), End: tp(ten), Exclusive: true}
	b := Entry{Crew: overrideCrew("c2", "nso"), Start: tp(one), End: tp(three), Exclusive: true}

	assert.Equal(t, None, Classify(a, b, map[string]bool{"nso": true}))
}

func TestClassify_UntimedSameKindAlwaysOverlap(t *testing.T) {
	a := Entry{Crew: staticCrew("c1", "nso"), Exclusive: true}
	b := Entry{Crew: staticCrew("c2", "so"), Exclusive: true}

	assert.Equal(t, NonSwappable, Classify(a, b, nil))
	assert.Equal(t, Swappable, Classify(a, b, map[string]bool{"so": true}))
}

func TestClassify_UntimedDifferentKindNoComparison(t *testing.T) {
	a := Entry{Crew: staticCrew("c1", "nso"), Exclusive: true}
	b := Entry{Crew: &model.Crew{ID: "c2", RoleGroupID: "so", Kind: model.EventCrew}, Exclusive: true}

	assert.Equal(t, None, Classify(a, b, map[string]bool{"so": true}))
}

func TestClassify_TimedAgainstUntimedNoComparison(t *testing.T) {
	timed := Entry{Crew: overrideCrew("c1", "nso"), Start: tp(nine), End: tp(noon), Exclusive: true}
	untimed := Entry{Crew: overrideCrew("c2", "so"), Exclusive: true}

	assert.Equal(t, None, Classify(timed, untimed, map[string]bool{"so": true}))
	assert.Equal(t, None, Classify(untimed, timed, map[string]bool{"so": true}))
}

func TestClassify_PartialWindowIsNotUntimed(t *testing.T) {
	// a lone start with no end must not be treated as an untimed entry
	a := Entry{Crew: staticCrew("c1", "nso"), Start: tp(nine), Exclusive: true}
	b := Entry{Crew: staticCrew("c2", "so"), Exclusive: true}

	assert.Equal(t, None, Classify(a, b, map[string]bool{"so": true}))
}

func TestClassify_Deterministic(t *testing.T) {
	groups := map[string]bool{"nso": true, "so": true}
	a := Entry{Crew: overrideCrew("c1", "nso"), Start: tp(nine), End: tp(noon), Exclusive: true}
	b := Entry{Crew: overrideCrew("c2", "so"), Start: tp(ten), End: tp(one), Exclusive: true}

	first := Classify(a, b, groups)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Classify(a, b, groups))
	}
}

func TestWorst_Ordering(t *testing.T) {
	assert.Equal(t, Swappable, Worst(None, Swappable))
	assert.Equal(t, Swappable, Worst(Swappable, None))
	assert.Equal(t, NonSwappable, Worst(Swappable, NonSwappable))
	assert.Equal(t, NonSwappable, Worst(NonSwappable, None))
	assert.Equal(t, None, Worst(None, None))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "swappable", Swappable.String())
	assert.Equal(t, "non-swappable", NonSwappable.String())
}
