package upscale

import (
	"testing"

	"github.com/lcevc/enhancement-core/internal/surface"
)

func TestVerticalColumnNearestReplicates(t *testing.T) {
	src := newSignedPlane(1, 4)
	for y := 0; y < 4; y++ {
		src.WriteSigned(surface.FPS12, 0, y, int16(y*5))
	}
	dst := newSignedPlane(1, 8)

	VerticalColumn(src, surface.FPS12, dst, surface.FPS12, 0, 4, NearestKernel(), false, nil)

	for y := 0; y < 4; y++ {
		want := int16(y * 5)
		if got := dst.ReadSigned(surface.FPS12, 0, 2*y); got != want {
			t.Errorf("forward sample at %d = %d, want %d", y, got, want)
		}
		if got := dst.ReadSigned(surface.FPS12, 0, 2*y+1); got != want {
			t.Errorf("reverse sample at %d = %d, want %d", y, got, want)
		}
	}
}

func TestVerticalColumnDitherPerturbsOutput(t *testing.T) {
	src := newSignedPlane(1, 2)
	src.WriteSigned(surface.FPS14, 0, 0, 1000)
	src.WriteSigned(surface.FPS14, 0, 1, 1000)
	dstA := newSignedPlane(1, 4)
	dstB := newSignedPlane(1, 4)

	VerticalColumn(src, surface.FPS14, dstA, surface.FPS14, 0, 2, NearestKernel(), false, nil)
	VerticalColumn(src, surface.FPS14, dstB, surface.FPS14, 0, 2, NearestKernel(), false, NewDither(15, 7))

	same := true
	for y := 0; y < 4; y++ {
		if dstA.ReadSigned(surface.FPS14, 0, y) != dstB.ReadSigned(surface.FPS14, 0, y) {
			same = false
		}
	}
	if same {
		t.Fatal("expected dithered output to differ from undithered output")
	}
}
