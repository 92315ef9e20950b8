package upscale

import "github.com/lcevc/enhancement-core/internal/surface"

// VerticalColumn upscales one column of inHeight input samples into
// 2*inHeight output samples, both read and written as plain planar data.
// In 2D mode the vertical pass runs first, producing the planar
// intermediate the horizontal pass then upscales; PA and dithering are not
// applied here in that mode since the 2D correction needs both passes'
// output (see ApplyPA2DPlane, DitherPlane) — pa/dither are only meaningful
// when VerticalColumn is used on its own (a hypothetical vertical-only
// mode), which spec.md's ScalingMode set does not currently define.
func VerticalColumn(src surface.Plane, srcFP surface.FixedPoint, dst surface.Plane, dstFP surface.FixedPoint, x, inHeight int, k Kernel, pa bool, dither *Dither) {
	in := make([]int32, inHeight)
	for i := 0; i < inHeight; i++ {
		in[i] = int32(src.ReadSigned(srcFP, x, i))
	}

	out := make([]int32, 2*inHeight)
	ConvolvePhases(in, k, out)

	if pa {
		applyPA1D(in, out)
	}

	for i := 0; i < 2*inHeight; i++ {
		v := dither.Add(out[i])
		dst.WriteSigned(dstFP, x, i, surface.Sat16(v))
	}
}

// UpscaleVerticalPlane runs VerticalColumn over each of the width columns
// of a plane. In 2D mode it runs before the horizontal pass, so width is
// the input width.
func UpscaleVerticalPlane(src surface.Plane, srcFP surface.FixedPoint, dst surface.Plane, dstFP surface.FixedPoint, width, inHeight int, k Kernel, pa bool, dither *Dither) {
	for x := 0; x < width; x++ {
		VerticalColumn(src, srcFP, dst, dstFP, x, inHeight, k, pa, dither)
	}
}
