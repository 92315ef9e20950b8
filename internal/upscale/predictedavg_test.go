package upscale

import (
	"testing"

	"github.com/lcevc/enhancement-core/internal/surface"
)

func TestApplyPA1DAveragesToBase(t *testing.T) {
	in := []int32{100}
	out := []int32{90, 80}
	applyPA1D(in, out)
	if avg := (out[0] + out[1] + 1) / 2; avg != in[0] {
		t.Fatalf("pair average = %d, want %d", avg, in[0])
	}
}

func TestApplyPA2DAveragesToBase(t *testing.T) {
	block := [4]int32{10, 20, 30, 40}
	applyPA2D(100, &block)
	sum := block[0] + block[1] + block[2] + block[3]
	if avg := (sum + 2) / 4; avg != 100 {
		t.Fatalf("block average = %d, want 100", avg)
	}
}

// TestApplyPA2DPlanePreservesAverage exercises the full vertical-then-
// horizontal 2D upscale path followed by ApplyPA2DPlane, checking that
// every source sample's four descendants average back to it exactly
// (spec.md §4.6 "2D: avg = base - (a+b+c+d+2)/4; then all four += avg"),
// which two independently-applied 1D corrections cannot guarantee.
func TestApplyPA2DPlanePreservesAverage(t *testing.T) {
	src := newSignedPlane(3, 2)
	vals := [2][3]int16{{100, -40, 8000}, {5, 300, -900}}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			src.WriteSigned(surface.FPS14, x, y, vals[y][x])
		}
	}

	k := Kernel{Fwd: []int16{6000, 11000}, Rev: []int16{11000, 6000}}
	vertMid := newSignedPlane(3, 4)
	UpscaleVerticalPlane(src, surface.FPS14, vertMid, surface.FPS14, 3, 2, k, false, nil)
	dst := newSignedPlane(6, 4)
	UpscaleHorizontalPlane(vertMid, surface.FPS14, dst, surface.FPS14, 3, 4, Channel{Stride: 1, Offset: 0}, k, false, nil)

	ApplyPA2DPlane(src, surface.FPS14, dst, surface.FPS14, 3, 2)

	for y0 := 0; y0 < 2; y0++ {
		for x0 := 0; x0 < 3; x0++ {
			base := int32(src.ReadSigned(surface.FPS14, x0, y0))
			sum := int32(dst.ReadSigned(surface.FPS14, 2*x0, 2*y0)) +
				int32(dst.ReadSigned(surface.FPS14, 2*x0+1, 2*y0)) +
				int32(dst.ReadSigned(surface.FPS14, 2*x0, 2*y0+1)) +
				int32(dst.ReadSigned(surface.FPS14, 2*x0+1, 2*y0+1))
			if avg := (sum + 2) / 4; avg != base {
				t.Errorf("block average at (%d,%d) = %d, want %d", x0, y0, avg, base)
			}
		}
	}
}
