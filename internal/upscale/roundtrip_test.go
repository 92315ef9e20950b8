package upscale

import (
	"testing"

	"gonum.org/v1/gonum/floats"
)

// TestUpscaleNearestTwicePreservesMeanEnergy is the round-trip law from
// spec.md §8 restated in the continuous domain: applying the nearest
// kernel's sample-replication twice should leave the per-sample mean
// unchanged, which gonum's approximate float comparison is a natural fit
// for (the replicated sequence is only approximately comparable once
// converted from fixed-point back to float for the average).
func TestUpscaleNearestTwicePreservesMeanEnergy(t *testing.T) {
	in := []int32{10, 200, -50, 4000, 77}
	first := make([]int32, 2*len(in))
	ConvolvePhases(in, NearestKernel(), first)
	second := make([]int32, 2*len(first))
	ConvolvePhases(first, NearestKernel(), second)

	want := meanOf(in)
	got := meanOf(second)
	if !floats.EqualWithinAbsOrRel(want, got, 1e-9, 1e-9) {
		t.Fatalf("mean drifted across double nearest-replication: got %v, want %v", got, want)
	}

	// Every sample should appear exactly 4 times (replication 4x).
	wantFloats := make([]float64, len(in))
	gotFloats := make([]float64, len(in))
	for i, v := range in {
		wantFloats[i] = float64(v)
		gotFloats[i] = float64(second[4*i])
	}
	if !floats.EqualApprox(wantFloats, gotFloats, 0) {
		t.Fatalf("double-replicated samples do not match originals exactly: got %v, want %v", gotFloats, wantFloats)
	}
}

func meanOf(vs []int32) float64 {
	sum := 0.0
	for _, v := range vs {
		sum += float64(v)
	}
	return sum / float64(len(vs))
}
