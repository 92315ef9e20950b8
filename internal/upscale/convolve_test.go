package upscale

import "testing"

func TestNearestKernelReplicatesSamples(t *testing.T) {
	in := []int32{10, -20, 300, -4000}
	out := make([]int32, 2*len(in))
	ConvolvePhases(in, NearestKernel(), out)

	for i, v := range in {
		if out[2*i] != v {
			t.Errorf("forward phase at %d: got %d, want %d", i, out[2*i], v)
		}
		if out[2*i+1] != v {
			t.Errorf("reverse phase at %d: got %d, want %d", i, out[2*i+1], v)
		}
	}
}

func TestRoundShift14Rounding(t *testing.T) {
	tests := []struct {
		sum  int64
		want int32
	}{
		{0, 0},
		{1 << 14, 1},
		{(1 << 14) - 1, 1}, // just under one unit, past the halfway point: rounds up
		{-(1 << 14), -1},
	}
	for _, tt := range tests {
		if got := roundShift14(tt.sum); got != tt.want {
			t.Errorf("roundShift14(%d) = %d, want %d", tt.sum, got, tt.want)
		}
	}
}

func TestSaturate15Clamps(t *testing.T) {
	if got := saturate15(1 << 20); got != intermediateMax {
		t.Errorf("saturate15 overflow = %d, want %d", got, intermediateMax)
	}
	if got := saturate15(-(1 << 20)); got != intermediateMin {
		t.Errorf("saturate15 underflow = %d, want %d", got, intermediateMin)
	}
}

func TestConvolvePhasesEdgeClamp(t *testing.T) {
	in := []int32{5, 5, 5}
	k := Kernel{Fwd: []int16{1 << 14, 0, 0, 0}, Rev: []int16{0, 0, 0, 1 << 14}}
	out := make([]int32, 2*len(in))
	ConvolvePhases(in, k, out)
	// Reverse phase at x=0 taps idx=0+3-2=1 clamped... verify no panic and
	// a sane constant value given a uniform input.
	for i, v := range out {
		if v != 5 {
			t.Errorf("out[%d] = %d, want 5 (uniform input)", i, v)
		}
	}
}
