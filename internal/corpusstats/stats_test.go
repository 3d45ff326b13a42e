package corpusstats

import (
	"math"
	"testing"

	"diareval/internal/interval"
	"diareval/internal/roles"
)

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestComputeOverlap(t *testing.T) {
	rec := interval.Recording{
		"CHI": {interval.MustNew(0, 4, "CHI"), interval.MustNew(3, 5, "CHI")},
		"FEM": {interval.MustNew(4, 8, "FEM")},
		"MAL": {interval.MustNew(6, 7, "MAL"), interval.MustNew(8, 9, "MAL")},
	}
	stats := Compute("rec", rec, interval.Bound{Start: 0, End: 20}, roles.Default())

	approx(t, "clip", stats.ClipLength, 20)
	approx(t, "speech", stats.Speech, 9)
	// CHI/FEM share [4,5), FEM/MAL share [6,7); FEM and MAL only touch at 8.
	approx(t, "overlap", stats.Overlap, 2)
	approx(t, "prop overlap", stats.PropOverlap, 2.0/9)
	approx(t, "prop non overlap", stats.PropNonOverlap, 7.0/9)
	approx(t, "mean vocalization", stats.MeanVocalization, (4+2+4+1+1)/5.0)
	if stats.Speakers != 3 || stats.Segments != 5 {
		t.Fatalf("unexpected counts %+v", stats)
	}
	if stats.RoleCounts[roles.Child] != 1 || stats.RoleCounts[roles.MaleAdult] != 1 {
		t.Fatalf("unexpected role counts %v", stats.RoleCounts)
	}

	want := map[string][3]float64{
		"CHI": {5, 1, 4},
		"FEM": {4, 2, 2},
		"MAL": {2, 1, 1},
	}
	for _, spk := range stats.PerSpeaker {
		w := want[spk.Label]
		approx(t, spk.Label+" total", spk.Total, w[0])
		approx(t, spk.Label+" overlapped", spk.Overlapped, w[1])
		approx(t, spk.Label+" non overlapped", spk.NonOverlapped, w[2])
	}
	if stats.PerSpeaker[1].Role != roles.FemaleAdult {
		t.Fatalf("unexpected role %q", stats.PerSpeaker[1].Role)
	}
}

func TestComputeThreeWayOverlapCountsOnce(t *testing.T) {
	rec := interval.Recording{
		"A": {interval.MustNew(0, 10, "A")},
		"B": {interval.MustNew(2, 6, "B")},
		"C": {interval.MustNew(4, 8, "C")},
	}
	stats := Compute("rec", rec, interval.Bound{Start: 0, End: 10}, roles.Default())
	approx(t, "overlap", stats.Overlap, 6)
	approx(t, "A overlapped", stats.PerSpeaker[0].Overlapped, 6)
}

func TestComputeEmptyRecording(t *testing.T) {
	stats := Compute("rec", interval.Recording{}, interval.Bound{Start: 0, End: 3}, nil)
	if !math.IsNaN(stats.PropOverlap) || !math.IsNaN(stats.MeanVocalization) {
		t.Fatalf("expected NaN proportions, got %+v", stats)
	}
	if stats.Speakers != 0 || len(stats.PerSpeaker) != 0 {
		t.Fatalf("unexpected speakers %+v", stats)
	}
}

func TestComputeClipsToBound(t *testing.T) {
	rec := interval.Recording{"CHI": {interval.MustNew(0, 10, "CHI")}}
	stats := Compute("rec", rec, interval.Bound{Start: 5, End: 7}, roles.Default())
	approx(t, "speech", stats.Speech, 2)
	approx(t, "mean vocalization", stats.MeanVocalization, 2)
}
