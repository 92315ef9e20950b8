package upscale

import "github.com/lcevc/enhancement-core/internal/surface"

// ditherAmplitude maps a per-frame strength 0..15 to a dither amplitude in
// the 15-bit intermediate domain (SPEC_FULL.md §4 item 3: a per-frame
// dither amplitude derived from a strength value 0-15 via a small lookup,
// not a flat toggle). The table grows roughly geometrically, capping well
// inside the intermediate domain so a max-strength dither never dominates
// a real residual.
var ditherAmplitude = [16]int32{
	0, 1, 1, 2, 2, 3, 4, 5, 6, 8, 10, 12, 16, 20, 24, 32,
}

// Dither adds a shared pseudo-random offset to each output sample before
// saturation (spec.md §4.6 "Dithering"). It is consumed in stream order:
// one call to Next per output sample, matching "a shared pseudo-random
// dither buffer is consumed in stream order".
type Dither struct {
	amplitude int32
	state     uint32
}

// NewDither seeds a per-frame dither generator. seed should vary per
// frame (e.g. derived from the frame index) since the xorshift state is
// otherwise deterministic across frames.
func NewDither(strength uint8, seed uint32) *Dither {
	if strength > 15 {
		strength = 15
	}
	if seed == 0 {
		seed = 0x9e3779b9
	}
	return &Dither{amplitude: ditherAmplitude[strength], state: seed}
}

// next returns the next pseudo-random value in [-amplitude, amplitude]
// using a 32-bit xorshift generator.
func (d *Dither) next() int32 {
	x := d.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	d.state = x
	if d.amplitude == 0 {
		return 0
	}
	span := 2*d.amplitude + 1
	return int32(x%uint32(span)) - d.amplitude
}

// Add adds the next dither value to v.
func (d *Dither) Add(v int32) int32 {
	if d == nil {
		return v
	}
	return v + d.next()
}

// DitherPlane perturbs every sample of dst in raster order (spec.md §4.6
// "a shared pseudo-random dither buffer is consumed in stream order and
// added to each output sample before saturation"). Used by the 2D upscale
// path, where the dither pass runs after the combined PA correction rather
// than inline per convolution row.
func DitherPlane(dst surface.Plane, dstFP surface.FixedPoint, width, height int, dither *Dither) {
	if dither == nil {
		return
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := dither.Add(int32(dst.ReadSigned(dstFP, x, y)))
			dst.WriteSigned(dstFP, x, y, surface.Sat16(v))
		}
	}
}
