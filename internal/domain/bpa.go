package domain

import (
	"fmt"
	"math"
	"sort"
)

// MassEpsilon is the floating tolerance used when validating that the
// masses of an assignment sum to one and when pruning negligible focal
// elements produced by combination.
const MassEpsilon = 1e-9

// BPA is a basic probability assignment: a mass distribution over
// non-empty subsets (focal elements) of a frame, summing to one.
// A BPA is immutable once built; combination and discounting always
// produce a new assignment rather than mutating an operand.
type BPA struct {
	frame   Frame
	entries map[string]massEntry
}

type massEntry struct {
	set  FocalSet
	mass float64
}

// TotalIgnorance returns the vacuous assignment m(Θ) = 1, representing a
// source that commits to nothing.
func TotalIgnorance(frame Frame) BPA {
	theta := frame.Universal()
	return BPA{
		frame:   frame,
		entries: map[string]massEntry{theta.Key(): {set: theta, mass: 1}},
	}
}

// Frame returns the frame of discernment this assignment is defined over.
func (b BPA) Frame() Frame { return b.frame }

// Len returns the number of focal elements carrying mass.
func (b BPA) Len() int { return len(b.entries) }

// Mass returns the mass assigned to the exact focal element, or zero when
// the set carries no mass.
func (b BPA) Mass(set FocalSet) float64 { return b.entries[set.Key()].mass }

// Focal returns the focal elements in canonical key order, so iteration
// over an assignment is deterministic.
func (b BPA) Focal() []FocalSet {
	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]FocalSet, len(keys))
	for i, k := range keys {
		sets[i] = b.entries[k].set
	}
	return sets
}

// Belief returns Bel(query) = Σ m(A) over focal elements A ⊆ query:
// the total mass that directly supports the proposition.
func (b BPA) Belief(query FocalSet) float64 {
	var total float64
	for _, e := range b.entries {
		if e.set.SubsetOf(query) {
			total += e.mass
		}
	}
	return total
}

// Plausibility returns Pl(query) = Σ m(A) over focal elements A with
// A ∩ query ≠ ∅: the total mass that does not contradict the proposition.
func (b BPA) Plausibility(query FocalSet) float64 {
	var total float64
	for _, e := range b.entries {
		if e.set.Intersects(query) {
			total += e.mass
		}
	}
	return total
}

// Interval returns the belief-plausibility interval for a single
// alternative of the frame.
func (b BPA) Interval(id string) (Interval, error) {
	singleton, err := b.frame.Singleton(id)
	if err != nil {
		return Interval{}, err
	}
	return Interval{
		Belief:       b.Belief(singleton),
		Plausibility: b.Plausibility(singleton),
	}, nil
}

// Equal reports whether both assignments carry the same focal elements
// with masses equal within eps.
func (b BPA) Equal(other BPA, eps float64) bool {
	if len(b.entries) != len(other.entries) {
		return false
	}
	for k, e := range b.entries {
		o, ok := other.entries[k]
		if !ok || math.Abs(e.mass-o.mass) > eps {
			return false
		}
	}
	return true
}

// BPABuilder accumulates mass over focal elements and validates the
// result into an immutable BPA. Adding mass to the same set twice sums
// the contributions, which is what the combination rules need when
// several intersection pairs land on the same focal element.
type BPABuilder struct {
	frame   Frame
	entries map[string]massEntry
	err     error
}

// NewBPABuilder creates an empty builder over the given frame.
func NewBPABuilder(frame Frame) *BPABuilder {
	return &BPABuilder{frame: frame, entries: make(map[string]massEntry)}
}

// Add accumulates mass on the focal element. The set must be a non-empty
// subset of the frame; violations are reported by Build.
func (bb *BPABuilder) Add(set FocalSet, mass float64) *BPABuilder {
	if bb.err != nil {
		return bb
	}
	if set.IsEmpty() {
		bb.err = fmt.Errorf("%w: mass assigned to the empty set", ErrInvalidBPA)
		return bb
	}
	for _, m := range set.Members() {
		if !bb.frame.Contains(m) {
			bb.err = fmt.Errorf("%w: focal element %s references %w %q", ErrInvalidBPA, set, ErrUnknownAlternative, m)
			return bb
		}
	}

	e := bb.entries[set.Key()]
	e.set = set
	e.mass += mass
	bb.entries[set.Key()] = e
	return bb
}

// Build validates the accumulated masses and returns the assignment.
// Masses must be non-negative and sum to one within MassEpsilon;
// violations return ErrInvalidBPA. Negligible masses below MassEpsilon
// are pruned so combination does not accumulate float dust.
func (bb *BPABuilder) Build() (BPA, error) {
	return bb.build(false)
}

// BuildNormalized divides every mass by the current total before
// validating, for construction schemes that produce proportional masses.
// The total must be positive.
func (bb *BPABuilder) BuildNormalized() (BPA, error) {
	return bb.build(true)
}

func (bb *BPABuilder) build(normalize bool) (BPA, error) {
	if bb.err != nil {
		return BPA{}, bb.err
	}

	var sum float64
	for _, e := range bb.entries {
		if e.mass < -MassEpsilon {
			return BPA{}, fmt.Errorf("%w: negative mass %g on %s", ErrInvalidBPA, e.mass, e.set)
		}
		sum += e.mass
	}

	if normalize {
		if sum <= 0 {
			return BPA{}, fmt.Errorf("%w: total mass %g is not normalizable", ErrInvalidBPA, sum)
		}
	} else if math.Abs(sum-1) > MassEpsilon {
		return BPA{}, fmt.Errorf("%w: masses sum to %.12f, want 1", ErrInvalidBPA, sum)
	}

	entries := make(map[string]massEntry, len(bb.entries))
	for k, e := range bb.entries {
		mass := e.mass
		if normalize {
			mass /= sum
		}
		if mass < MassEpsilon {
			continue
		}
		if mass > 1+MassEpsilon {
			return BPA{}, fmt.Errorf("%w: mass %g on %s exceeds 1", ErrInvalidBPA, mass, e.set)
		}
		entries[k] = massEntry{set: e.set, mass: mass}
	}

	if len(entries) == 0 {
		return BPA{}, fmt.Errorf("%w: no focal elements carry mass", ErrInvalidBPA)
	}

	return BPA{frame: bb.frame, entries: entries}, nil
}
