// Package upscale implements the LCEVC convolution upscaler: horizontal
// and vertical two-phase convolution, predicted-average correction, and
// dithering (spec.md §4.6). It operates on internal/surface's FixedPoint
// and Plane types directly rather than duplicating them, since surface
// does not depend back on upscale (no import cycle).
package upscale

import "github.com/pkg/errors"

// Kernel holds the forward- and reverse-phase coefficients for one
// upscale filter (spec.md §3, §4.6). Length is 2, 4, 6 or 8; coefficients
// are Q14 fixed-point (divided by 2^14 with rounding after convolution).
type Kernel struct {
	Fwd []int16
	Rev []int16
}

// Len returns the kernel tap count.
func (k Kernel) Len() int { return len(k.Fwd) }

// Validate checks the tap-count and forward/reverse length-match
// invariants (spec.md §4.6 "Length L ∈ {2, 4, 6, 8}").
func (k Kernel) Validate() error {
	switch len(k.Fwd) {
	case 2, 4, 6, 8:
	default:
		return errors.Errorf("upscale: unsupported kernel length %d", len(k.Fwd))
	}
	if len(k.Rev) != len(k.Fwd) {
		return errors.Errorf("upscale: forward/reverse kernel length mismatch (%d vs %d)", len(k.Fwd), len(k.Rev))
	}
	return nil
}

// NearestKernel is the identity-replication kernel used by the round-trip
// law in spec.md §8: {2^14, 0} forward and {0, 2^14} reverse.
func NearestKernel() Kernel {
	return Kernel{Fwd: []int16{1 << 14, 0}, Rev: []int16{0, 1 << 14}}
}
