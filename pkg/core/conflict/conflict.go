// Package conflict classifies whether two officiating commitments collide.
//
// A commitment is reduced to an Entry: the crew it belongs to, an optional
// time window, and whether the role occupies the official fully. Classify
// compares a prospective entry against an existing one and reports whether
// they can coexist, conflict but may be swapped within the hiring round's
// interchangeable role groups, or hard-conflict.
package conflict

import (
	"time"

	"github.com/derbyops/crewcall/pkg/core/model"
)

// Status is the outcome of comparing two entries. Higher values dominate
type Status int

const (
	None Status = iota
	Swappable
	NonSwappable
)

func (s Status) String() string {
	switch s {
	case Swappable:
		return "swappable"
	case NonSwappable:
		return "non-swappable"
	default:
		return "none"
	}
}

// Worst returns the dominant of two statuses
func Worst(a, b Status) Status {
	if b > a {
		return b
	}
	return a
}

// Entry is one commitment of an official: the crew holding it, the time
// window it occupies (nil for event-wide and static duties), and whether the
// role is exclusive. Game is set when the entry was derived through a game's
// crew resolution and is used to match override contexts during reassignment
type Entry struct {
	Crew      *model.Crew
	Game      *model.Game
	Start     *time.Time
	End       *time.Time
	Exclusive bool
}

// Timed reports whether the entry has a full time window
func (e Entry) Timed() bool {
	return e.Start != nil && e.End != nil
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// Classify compares entry a (the prospective commitment) against entry b (an
// existing one). swappableGroups is the set of role group IDs considered
// interchangeable for the hiring round in play.
//
// The cases are checked in order:
//
//  1. Identical windows (including both absent) on crews of the same role
//     group: the same physical slot, or a static slot against its own
//     per-game override. Conflicts only if both entries are exclusive, and
//     that conflict is always swappable.
//  2. Both windows present: half-open interval overlap. Abutting windows do
//     not overlap. An overlap is swappable when b's role group is in
//     swappableGroups or matches a's.
//  3. Both windows absent on crews of the same kind: there is no time axis to
//     separate them, so they always overlap, split as in case 2.
//  4. Anything else is not a meaningful comparison.
func Classify(a, b Entry, swappableGroups map[string]bool) Status {
	if sameTime(a.Start, b.Start) && sameTime(a.End, b.End) &&
		a.Crew.RoleGroupID == b.Crew.RoleGroupID {
		if a.Exclusive && b.Exclusive {
			return Swappable
		}
		return None
	}

	if a.Timed() && b.Timed() {
		if !a.Start.Before(*b.End) || !b.Start.Before(*a.End) {
			return None
		}
		return overlapStatus(a, b, swappableGroups)
	}

	if a.Start == nil && a.End == nil && b.Start == nil && b.End == nil &&
		a.Crew.Kind == b.Crew.Kind {
		return overlapStatus(a, b, swappableGroups)
	}

	return None
}

func overlapStatus(a, b Entry, swappableGroups map[string]bool) Status {
	if swappableGroups[b.Crew.RoleGroupID] || b.Crew.RoleGroupID == a.Crew.RoleGroupID {
		return Swappable
	}
	return NonSwappable
}
