package interval

import "testing"

func TestUnionDuration(t *testing.T) {
	cases := []struct {
		name  string
		spans []Span
		want  float64
	}{
		{"empty", nil, 0},
		{"single", []Span{{Onset: 1, Offset: 3}}, 2},
		{"overlap across speakers", []Span{{Onset: 0, Offset: 5}, {Onset: 4, Offset: 8}}, 8},
		{"touching extends", []Span{{Onset: 0, Offset: 2}, {Onset: 2, Offset: 3}}, 3},
		{"gap", []Span{{Onset: 0, Offset: 1}, {Onset: 2, Offset: 3}}, 2},
		{"nested", []Span{{Onset: 0, Offset: 10}, {Onset: 2, Offset: 3}, {Onset: 11, Offset: 12}}, 11},
		{"unsorted", []Span{{Onset: 6, Offset: 7}, {Onset: 0, Offset: 1}, {Onset: 0.5, Offset: 2}}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := UnionDuration(tc.spans); got != tc.want {
				t.Fatalf("UnionDuration = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestUnionDurationMatchesMerge(t *testing.T) {
	tl := Timeline{MustNew(0, 5, "A"), MustNew(4, 8, "B"), MustNew(9, 9.5, "A")}
	if got, want := UnionDuration(tl), Total(Merge(tl)); got != want {
		t.Fatalf("UnionDuration = %v, merged total = %v", got, want)
	}
}
