package lcevc

import (
	"testing"

	"github.com/lcevc/enhancement-core/internal/surface"
)

func newPicture(width, height int, fp FixedPoint) Picture {
	size := surface.SampleSize(surface.FixedPoint(fp))
	return Picture{
		Plane:      surface.Plane{Data: make([]byte, height*width*size), RowStride: width * size},
		FixedPoint: fp,
	}
}

func fillU8(p Picture, width, height int, v byte) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p.Plane.Data[y*p.Plane.RowStride+x] = v
		}
	}
}

// TestDecodeFrameIdentityNoEnhancement implements spec.md §8 Scenario A: a
// constant base plane with every chunk disabled must upscale to a constant
// plane of the same value at double resolution, with no residual energy
// introduced anywhere.
func TestDecodeFrameIdentityNoEnhancement(t *testing.T) {
	cfg := &GlobalConfig{
		BaseBitDepth:      8,
		EnhancedBitDepth:  8,
		ChromaSubsampling: Subsampling420,
		PlaneWidth:        [MaxPlanes]int{180},
		PlaneHeight:       [MaxPlanes]int{100},
		NumPlanes:         1,
		UpscaleType:       UpscaleNearest,
		PerLOQ:            [2]PerLOQConfig{{Scaling: Scaling2D}, {Scaling: Scaling0D}},
		Transform:         TransformDD,
		ForwardKernel:     Kernel{Fwd: []int16{1 << 14, 0}, Rev: []int16{0, 1 << 14}},
	}
	d, err := NewDecoder(cfg)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	base := newPicture(180, 100, FPU8)
	fillU8(base, 180, 100, 128)
	output := newPicture(360, 200, FPU8)

	fc := &FrameConfig{
		IsIDR:          true,
		TemporalRefresh: true,
		LOQEnabled:     [2]bool{false, false},
	}

	if err := d.DecodeFrame(fc, []Picture{base}, []Picture{output}); err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}

	for y := 0; y < 200; y++ {
		for x := 0; x < 360; x++ {
			if got := output.Plane.Data[y*output.Plane.RowStride+x]; got != 128 {
				t.Fatalf("output(%d,%d) = %d, want 128", x, y, got)
			}
		}
	}
}

func TestNewDecoderRejectsInvalidConfig(t *testing.T) {
	cfg := &GlobalConfig{
		NumPlanes:   1,
		PlaneWidth:  [MaxPlanes]int{7}, // not a multiple of the TU size
		PlaneHeight: [MaxPlanes]int{7},
		Transform:   TransformDD,
	}
	if _, err := NewDecoder(cfg); err == nil {
		t.Fatal("expected an error for non-TU-aligned plane dimensions")
	}
}

func TestDecodeFrameRejectsPlaneCountMismatch(t *testing.T) {
	cfg := &GlobalConfig{
		BaseBitDepth: 8, EnhancedBitDepth: 8,
		PlaneWidth: [MaxPlanes]int{32}, PlaneHeight: [MaxPlanes]int{32},
		NumPlanes: 2, Transform: TransformDD,
		PerLOQ: [2]PerLOQConfig{{Scaling: Scaling0D}, {Scaling: Scaling0D}},
	}
	d, err := NewDecoder(cfg)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	base := newPicture(32, 32, FPU8)
	fc := &FrameConfig{LOQEnabled: [2]bool{false, false}}
	if err := d.DecodeFrame(fc, []Picture{base}, []Picture{base}); err == nil {
		t.Fatal("expected an error for insufficient plane count")
	}
}
