package upscale

import "github.com/lcevc/enhancement-core/internal/surface"

// applyPA1D applies the one-dimensional predicted-average correction
// (spec.md §4.6 "Predicted Average"): for each input sample, the forward
// and reverse output pair is nudged so their average matches the original
// input sample exactly, preserving low-frequency energy across the
// upscale.
func applyPA1D(in []int32, out []int32) {
	for i, base := range in {
		a, b := out[2*i], out[2*i+1]
		avg := base - (a+b+1)/2
		out[2*i] = a + avg
		out[2*i+1] = b + avg
	}
}

// applyPA2D applies the two-dimensional predicted-average correction
// (spec.md §4.6 "Scaling2D"): after both horizontal and vertical
// convolution, the 2x2 output block derived from one input sample is
// corrected so its average matches the original sample, spreading the
// single horizontal correction across both output rows.
func applyPA2D(base int32, block *[4]int32) {
	sum := block[0] + block[1] + block[2] + block[3]
	avg := base - (sum+2)/4
	for i := range block {
		block[i] += avg
	}
}

// ApplyPA2DPlane runs the 2D predicted-average correction over every
// source sample after both the vertical and horizontal convolution passes
// have filled dst (spec.md §4.6 "2D: avg = base - (a+b+c+d+2)/4; then all
// four += avg"). dst must already hold the uncorrected 2x-by-2x upscale of
// base; each input sample's four output descendants are re-saturated in
// place after correction.
func ApplyPA2DPlane(base surface.Plane, baseFP surface.FixedPoint, dst surface.Plane, dstFP surface.FixedPoint, inWidth, inHeight int) {
	for y0 := 0; y0 < inHeight; y0++ {
		for x0 := 0; x0 < inWidth; x0++ {
			b := int32(base.ReadSigned(baseFP, x0, y0))
			var block [4]int32
			block[0] = int32(dst.ReadSigned(dstFP, 2*x0, 2*y0))
			block[1] = int32(dst.ReadSigned(dstFP, 2*x0+1, 2*y0))
			block[2] = int32(dst.ReadSigned(dstFP, 2*x0, 2*y0+1))
			block[3] = int32(dst.ReadSigned(dstFP, 2*x0+1, 2*y0+1))
			applyPA2D(b, &block)
			dst.WriteSigned(dstFP, 2*x0, 2*y0, surface.Sat16(block[0]))
			dst.WriteSigned(dstFP, 2*x0+1, 2*y0, surface.Sat16(block[1]))
			dst.WriteSigned(dstFP, 2*x0, 2*y0+1, surface.Sat16(block[2]))
			dst.WriteSigned(dstFP, 2*x0+1, 2*y0+1, surface.Sat16(block[3]))
		}
	}
}
