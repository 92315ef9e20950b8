package upscale

// intermediateMin/Max bound the 15-bit signed intermediate domain the
// convolution result is saturated to before any predicted-average
// correction or fixed-point conversion (spec.md §4.6 "saturated to 15
// bits (the intermediate domain)").
const (
	intermediateMax = 1<<14 - 1
	intermediateMin = -(1 << 14)
)

func saturate15(v int64) int32 {
	switch {
	case v < intermediateMin:
		return intermediateMin
	case v > intermediateMax:
		return intermediateMax
	default:
		return int32(v)
	}
}

// roundShift14 divides by 2^14 with rounding, then saturates to the
// 15-bit intermediate domain (spec.md §4.6: "Output is right-shifted by
// 14 with rounding and saturated to 15 bits").
func roundShift14(sum int64) int32 {
	return saturate15((sum + (1 << 13)) >> 14)
}

// ConvolvePhases runs the shared one-dimensional two-phase convolution
// core spec.md §4.6 describes for both the horizontal and vertical
// passes: each input sample produces a (forward, reverse) output pair,
// out-of-range taps clamped to the nearest edge sample. The reverse phase
// reads taps in[x+i-L/2] and the forward phase in[x+i-L/2+1], so a
// {2^14, 0} / {0, 2^14} kernel pair reproduces in[x] in both phases.
// in has length n; out must have length 2*n, with out[2*x] the
// forward-phase sample and out[2*x+1] the reverse-phase sample for input
// position x.
func ConvolvePhases(in []int32, k Kernel, out []int32) {
	l := k.Len()
	half := l / 2
	n := len(in)
	clamp := func(idx int) int {
		switch {
		case idx < 0:
			return 0
		case idx >= n:
			return n - 1
		}
		return idx
	}
	for x := 0; x < n; x++ {
		var sumF, sumR int64
		for i := 0; i < l; i++ {
			idx := x + i - half
			sumF += int64(k.Fwd[i]) * int64(in[clamp(idx+1)])
			sumR += int64(k.Rev[i]) * int64(in[clamp(idx)])
		}
		out[2*x] = roundShift14(sumF)
		out[2*x+1] = roundShift14(sumR)
	}
}
