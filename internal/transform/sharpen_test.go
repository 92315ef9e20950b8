package transform

import "testing"

func TestApplySharpen_ZeroStrengthIsNoOp(t *testing.T) {
	residual := []int32{1, 2, 3, 4}
	orig := append([]int32(nil), residual...)
	ApplySharpen(residual, 1, 0)
	for i := range residual {
		if residual[i] != orig[i] {
			t.Fatalf("pos %d changed at strength 0: got %d, want %d", i, residual[i], orig[i])
		}
	}
}

func TestApplySharpen_FlatFieldUnchanged(t *testing.T) {
	// A flat field has zero second derivative everywhere, so unsharp
	// masking should leave it untouched regardless of strength.
	residual := []int32{50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50}
	ApplySharpen(residual, 2, 15)
	for i, v := range residual {
		if v != 50 {
			t.Fatalf("pos %d: got %d, want 50 (flat field)", i, v)
		}
	}
}
