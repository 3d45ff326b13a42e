package mapping

import (
	"fmt"
	"slices"
)

// Pair is one resolved hypothesis → reference assignment.
type Pair struct {
	Hypothesis string  `json:"hypothesis"`
	Reference  string  `json:"reference"`
	Overlap    float64 `json:"overlap"`
}

// Mapping is a partial injective function from hypothesis labels to reference
// labels. The zero value maps nothing. None returns the sentinel that
// disables identity accounting entirely.
type Mapping struct {
	pairs map[string]Pair
	none  bool
}

// None returns the "no mapping" sentinel used for voice-activity scoring.
func None() Mapping { return Mapping{none: true} }

// FromPairs builds a mapping, rejecting hypothesis labels mapped twice and
// reference labels claimed by more than one hypothesis label.
func FromPairs(pairs ...Pair) (Mapping, error) {
	m := Mapping{pairs: make(map[string]Pair, len(pairs))}
	claimed := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if _, dup := m.pairs[p.Hypothesis]; dup {
			return Mapping{}, fmt.Errorf("hypothesis label %q mapped twice", p.Hypothesis)
		}
		if other, dup := claimed[p.Reference]; dup {
			return Mapping{}, fmt.Errorf("reference label %q claimed by %q and %q", p.Reference, other, p.Hypothesis)
		}
		m.pairs[p.Hypothesis] = p
		claimed[p.Reference] = p.Hypothesis
	}
	return m, nil
}

// IsNone reports whether m is the voice-activity sentinel.
func (m Mapping) IsNone() bool { return m.none }

// Reference returns the reference label hyp maps to.
func (m Mapping) Reference(hyp string) (string, bool) {
	if m.none {
		return "", false
	}
	p, ok := m.pairs[hyp]
	return p.Reference, ok
}

// Maps reports whether hyp is mapped to ref.
func (m Mapping) Maps(hyp, ref string) bool {
	got, ok := m.Reference(hyp)
	return ok && got == ref
}

// Len returns the number of mapped pairs.
func (m Mapping) Len() int { return len(m.pairs) }

// Pairs returns the mapped pairs ordered by hypothesis label.
func (m Mapping) Pairs() []Pair {
	out := make([]Pair, 0, len(m.pairs))
	for _, p := range m.pairs {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Pair) int {
		switch {
		case a.Hypothesis < b.Hypothesis:
			return -1
		case a.Hypothesis > b.Hypothesis:
			return 1
		}
		return 0
	})
	return out
}

// Equal reports whether two mappings hold the same pairs and sentinel state.
func (m Mapping) Equal(o Mapping) bool {
	if m.none != o.none || len(m.pairs) != len(o.pairs) {
		return false
	}
	for hyp, p := range m.pairs {
		if q, ok := o.pairs[hyp]; !ok || q != p {
			return false
		}
	}
	return true
}
