package upscale

import "github.com/lcevc/enhancement-core/internal/surface"

// HorizontalRow upscales the n = ch.SamplesInRow(inWidth) samples of one
// row (read from an interleaved channel, spec.md §4.6's "channel skip and
// channel-map tables") into 2*n output samples written as a plain planar
// row in dst. De-interleaving at the horizontal pass is the normal place this
// happens in practice: chroma read from an NV12/YUYV source is expanded to
// its own planar upscaled surface, so the destination is always Planar
// addressing here regardless of ch.
//
// When pa is true, the 1D predicted-average correction (spec.md §4.6) is
// applied to each (forward, reverse) pair using the original input sample
// as its base. dither, if non-nil, perturbs each output sample before
// saturation (spec.md §4.6 "Dithering").
func HorizontalRow(src surface.Plane, srcFP surface.FixedPoint, dst surface.Plane, dstFP surface.FixedPoint, y, inWidth int, ch Channel, k Kernel, pa bool, dither *Dither) {
	n := ch.SamplesInRow(inWidth)
	in := make([]int32, n)
	for i := 0; i < n; i++ {
		in[i] = int32(src.ReadSigned(srcFP, ch.Offset+i*ch.Stride, y))
	}

	out := make([]int32, 2*n)
	ConvolvePhases(in, k, out)

	if pa {
		applyPA1D(in, out)
	}

	for i := 0; i < 2*n; i++ {
		v := dither.Add(out[i])
		dst.WriteSigned(dstFP, i, y, surface.Sat16(v))
	}
}

// UpscaleHorizontalPlane runs HorizontalRow over every row of a plane,
// sequentially on the calling goroutine; the rows are not split across the
// task pool (internal/taskpool) or run in parallel.
func UpscaleHorizontalPlane(src surface.Plane, srcFP surface.FixedPoint, dst surface.Plane, dstFP surface.FixedPoint, inWidth, height int, ch Channel, k Kernel, pa bool, dither *Dither) {
	for y := 0; y < height; y++ {
		HorizontalRow(src, srcFP, dst, dstFP, y, inWidth, ch, k, pa, dither)
	}
}
