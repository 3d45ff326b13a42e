package interval

import (
	"math"
	"reflect"
	"slices"
	"testing"
)

func timeline(spans ...[3]any) Timeline {
	out := make(Timeline, 0, len(spans))
	for _, s := range spans {
		out = append(out, MustNew(s[0].(float64), s[1].(float64), s[2].(string)))
	}
	return out
}

func TestMergeFoldsOverlapsAndTouches(t *testing.T) {
	tl := timeline(
		[3]any{4.0, 8.0, "B"},
		[3]any{0.0, 5.0, "A"},
		[3]any{8.0, 9.0, "C"},
		[3]any{12.0, 13.0, "A"},
	)
	got := Merge(tl)
	want := []Run{
		{Span: Span{Onset: 0, Offset: 9}, Labels: []string{"A", "B", "C"}},
		{Span: Span{Onset: 12, Offset: 13}, Labels: []string{"A"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Merge = %+v, want %+v", got, want)
	}
}

func TestMergeFlushesLastElement(t *testing.T) {
	got := Merge(timeline([3]any{0.0, 1.0, "A"}, [3]any{2.0, 3.0, "A"}, [3]any{5.0, 6.0, "B"}))
	if len(got) != 3 || got[2].Span != (Span{Onset: 5, Offset: 6}) {
		t.Fatalf("last run missing: %+v", got)
	}
}

func TestMergeEmpty(t *testing.T) {
	if got := Merge(Timeline{}); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestMergeIdempotent(t *testing.T) {
	inputs := []Timeline{
		timeline([3]any{0.0, 5.0, "A"}, [3]any{4.0, 8.0, "B"}),
		timeline([3]any{3.0, 4.0, "A"}, [3]any{1.0, 2.0, "B"}, [3]any{2.0, 3.0, "A"}, [3]any{7.5, 9.0, "C"}),
		timeline([3]any{0.0, 10.0, "A"}, [3]any{1.0, 2.0, "B"}, [3]any{3.0, 4.0, "C"}),
		{},
	}
	for i, tl := range inputs {
		once := Merge(tl)
		twice := Merge(once)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("case %d: merge not idempotent: %+v vs %+v", i, once, twice)
		}
	}
}

func TestComplementDuality(t *testing.T) {
	bound := Bound{Start: 0, End: 10}
	inputs := []Timeline{
		timeline([3]any{0.0, 5.0, "A"}, [3]any{4.0, 8.0, "B"}),
		timeline([3]any{1.0, 2.0, "A"}, [3]any{2.5, 3.0, "B"}, [3]any{9.0, 10.0, "A"}),
		timeline([3]any{0.0, 10.0, "A"}),
		{},
	}
	for i, tl := range inputs {
		merged := Merge(tl)
		silence := Complement(tl, bound)
		l := Total(merged)
		if got := Total(silence); math.Abs(got-(10-l)) > 1e-9 {
			t.Fatalf("case %d: complement length %v, want %v", i, got, 10-l)
		}
		if overlap := OverlapTotal(Spans(merged), silence); overlap != 0 {
			t.Fatalf("case %d: speech and silence overlap by %v", i, overlap)
		}
	}
}

func TestComplementEmptyCoversBound(t *testing.T) {
	got := Complement([]Span{}, Bound{Start: 2, End: 7})
	if !slices.Equal(got, []Span{{Onset: 2, Offset: 7}}) {
		t.Fatalf("Complement(empty) = %+v", got)
	}
}

func TestComplementClipsToBound(t *testing.T) {
	tl := timeline([3]any{0.0, 3.0, "A"}, [3]any{6.0, 20.0, "B"})
	got := Complement(tl, Bound{Start: 1, End: 10})
	want := []Span{{Onset: 3, Offset: 6}}
	if !slices.Equal(got, want) {
		t.Fatalf("Complement = %+v, want %+v", got, want)
	}
}

func TestIntersect(t *testing.T) {
	a := []Span{{Onset: 0, Offset: 4}, {Onset: 6, Offset: 10}}
	b := []Span{{Onset: 3, Offset: 7}, {Onset: 9, Offset: 12}}
	got := Intersect(a, b)
	want := []Span{{Onset: 3, Offset: 4}, {Onset: 6, Offset: 7}, {Onset: 9, Offset: 10}}
	if !slices.Equal(got, want) {
		t.Fatalf("Intersect = %+v, want %+v", got, want)
	}
	if OverlapTotal(a, b) != 3 {
		t.Fatalf("OverlapTotal = %v, want 3", OverlapTotal(a, b))
	}
}

func TestClipDropsOutside(t *testing.T) {
	runs := []Run{{Span: Span{Onset: 0, Offset: 1}}, {Span: Span{Onset: 2, Offset: 6}, Labels: []string{"A"}}}
	got := Clip(runs, Bound{Start: 3, End: 5})
	if len(got) != 1 || got[0].Span != (Span{Onset: 3, Offset: 5}) || got[0].Labels[0] != "A" {
		t.Fatalf("Clip = %+v", got)
	}
}
