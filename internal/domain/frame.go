// Package domain contains pure, dependency-free domain models for the
// evidence-fusion engine: the frame of discernment, focal sets, basic
// probability assignments, and the final ranked result.
package domain

import (
	"fmt"
	"sort"
	"strings"
)

// keySeparator joins member identifiers into the canonical map key for a
// focal set. The unit separator cannot appear in validated identifiers.
const keySeparator = "\x1f"

// Frame is the frame of discernment Θ: the finite, non-empty set of
// mutually exclusive decision alternatives under consideration.
// A Frame is immutable and fixed for the duration of one analysis.
type Frame struct {
	ids   []string
	index map[string]int
}

// NewFrame creates a frame from the given alternative identifiers.
// Identifiers must be non-blank and unique; input order is preserved and
// becomes the presentation order for results.
func NewFrame(alternatives []string) (Frame, error) {
	if len(alternatives) == 0 {
		return Frame{}, ErrEmptyFrame
	}

	ids := make([]string, 0, len(alternatives))
	index := make(map[string]int, len(alternatives))
	for _, id := range alternatives {
		id = strings.TrimSpace(id)
		if id == "" {
			return Frame{}, fmt.Errorf("%w: blank alternative identifier", ErrEmptyFrame)
		}
		if strings.Contains(id, keySeparator) {
			return Frame{}, fmt.Errorf("invalid alternative identifier %q: contains control character", id)
		}
		if _, exists := index[id]; exists {
			return Frame{}, fmt.Errorf("duplicate alternative identifier %q", id)
		}
		index[id] = len(ids)
		ids = append(ids, id)
	}

	return Frame{ids: ids, index: index}, nil
}

// Size returns the number of alternatives in the frame.
func (f Frame) Size() int { return len(f.ids) }

// Alternatives returns the alternative identifiers in presentation order.
// The returned slice is a copy.
func (f Frame) Alternatives() []string {
	out := make([]string, len(f.ids))
	copy(out, f.ids)
	return out
}

// Contains reports whether the identifier is an alternative of this frame.
func (f Frame) Contains(id string) bool {
	_, ok := f.index[id]
	return ok
}

// Universal returns Θ as a focal set containing every alternative.
func (f Frame) Universal() FocalSet { return NewFocalSet(f.ids...) }

// Singleton returns the focal set {id}, or an error if the identifier is
// not an alternative of this frame.
func (f Frame) Singleton(id string) (FocalSet, error) {
	if !f.Contains(id) {
		return FocalSet{}, fmt.Errorf("%w: %q", ErrUnknownAlternative, id)
	}
	return NewFocalSet(id), nil
}

// FocalSet is a canonical, immutable subset of a frame's alternatives.
// Members are deduplicated and sorted, so two sets with the same members
// always share the same Key regardless of construction order.
type FocalSet struct {
	key     string
	members []string
}

// NewFocalSet builds the canonical focal set for the given members.
func NewFocalSet(members ...string) FocalSet {
	if len(members) == 0 {
		return FocalSet{}
	}

	uniq := make([]string, 0, len(members))
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		uniq = append(uniq, m)
	}
	sort.Strings(uniq)

	return FocalSet{key: strings.Join(uniq, keySeparator), members: uniq}
}

// Key returns the canonical map key for this set. Sets are equal exactly
// when their keys are equal.
func (s FocalSet) Key() string { return s.key }

// Members returns the set's members in canonical (sorted) order.
// The returned slice is a copy.
func (s FocalSet) Members() []string {
	out := make([]string, len(s.members))
	copy(out, s.members)
	return out
}

// Size returns the number of members.
func (s FocalSet) Size() int { return len(s.members) }

// IsEmpty reports whether the set has no members.
func (s FocalSet) IsEmpty() bool { return len(s.members) == 0 }

// Contains reports whether id is a member of the set.
func (s FocalSet) Contains(id string) bool {
	i := sort.SearchStrings(s.members, id)
	return i < len(s.members) && s.members[i] == id
}

// Equal reports whether both sets have exactly the same members.
func (s FocalSet) Equal(other FocalSet) bool { return s.key == other.key }

// Intersect returns the intersection of the two sets.
func (s FocalSet) Intersect(other FocalSet) FocalSet {
	if s.IsEmpty() || other.IsEmpty() {
		return FocalSet{}
	}

	// Both member slices are sorted; walk them in lockstep.
	common := make([]string, 0, min(len(s.members), len(other.members)))
	i, j := 0, 0
	for i < len(s.members) && j < len(other.members) {
		switch {
		case s.members[i] == other.members[j]:
			common = append(common, s.members[i])
			i++
			j++
		case s.members[i] < other.members[j]:
			i++
		default:
			j++
		}
	}
	if len(common) == 0 {
		return FocalSet{}
	}
	return FocalSet{key: strings.Join(common, keySeparator), members: common}
}

// Intersects reports whether the two sets share at least one member.
func (s FocalSet) Intersects(other FocalSet) bool {
	i, j := 0, 0
	for i < len(s.members) && j < len(other.members) {
		switch {
		case s.members[i] == other.members[j]:
			return true
		case s.members[i] < other.members[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// SubsetOf reports whether every member of s is also a member of other.
// The empty set is a subset of every set.
func (s FocalSet) SubsetOf(other FocalSet) bool {
	if len(s.members) > len(other.members) {
		return false
	}
	for _, m := range s.members {
		if !other.Contains(m) {
			return false
		}
	}
	return true
}

// String renders the set in mathematical notation, e.g. "{a, b}".
func (s FocalSet) String() string {
	if s.IsEmpty() {
		return "∅"
	}
	return "{" + strings.Join(s.members, ", ") + "}"
}
