package transform

import "testing"

func TestInverseDD_Known(t *testing.T) {
	var out [4]int32
	InverseDD([4]int32{4, 2, 1, 0}, &out)
	// e0=6 e1=2 e2=1 e3=1 -> r0=7 r1=3 r2=5 r3=1
	want := [4]int32{7, 3, 5, 1}
	if out != want {
		t.Fatalf("got %v, want %v", out, want)
	}
}

func TestInverseDD_ZeroIsZero(t *testing.T) {
	var out [4]int32
	InverseDD([4]int32{0, 0, 0, 0}, &out)
	if out != ([4]int32{0, 0, 0, 0}) {
		t.Fatalf("got %v, want zeros", out)
	}
}

func TestInverseDDS_DistinguishesWithinQuadrantOrder(t *testing.T) {
	// Quadrant 0 has a non-DC coefficient so its four DD outputs differ;
	// this distinguishes an implementation that forgets the ddsSpatialOrder
	// permutation within a quadrant (it would still pass the all-DC test).
	coeffs := [16]int32{
		10, 2, 0, 0, // quadrant 0: DD(10,2,0,0) -> (12,8,12,8)
	}
	var out [16]int32
	InverseDDS(coeffs, &out)

	var quad0 [4]int32
	InverseDD([4]int32{10, 2, 0, 0}, &quad0)
	// natural[0..3] = quad0 = {12,8,12,8}; per ddsSpatialOrder, spatial
	// positions 0,1 (first row) and 4,5 (second row) pull from natural
	// indices 0,1 and 2,3, i.e. all four of quadrant 0's outputs.
	if out[0] != quad0[0] || out[1] != quad0[1] {
		t.Fatalf("top-left 2x2 corner mismatch: got (%d,%d), want (%d,%d)", out[0], out[1], quad0[0], quad0[1])
	}
	if out[4] != quad0[2] || out[5] != quad0[3] {
		t.Fatalf("second row of quadrant 0 mismatch: got (%d,%d), want (%d,%d)", out[4], out[5], quad0[2], quad0[3])
	}
}

func TestInverseDDS_LayoutPlacement(t *testing.T) {
	// Give each quadrant a distinctive DC-only coefficient so we can
	// verify quadrant placement directly: DD of (c,0,0,0) is (c,c,c,c).
	coeffs := [16]int32{
		1, 0, 0, 0, // quadrant 0 (top-left) -> all 1s
		2, 0, 0, 0, // quadrant 1 (top-right) -> all 2s
		3, 0, 0, 0, // quadrant 2 (bottom-left) -> all 3s
		4, 0, 0, 0, // quadrant 3 (bottom-right) -> all 4s
	}
	var out [16]int32
	InverseDDS(coeffs, &out)

	want := [16]int32{
		1, 1, 2, 2,
		1, 1, 2, 2,
		3, 3, 4, 4,
		3, 3, 4, 4,
	}
	if out != want {
		t.Fatalf("got %v, want %v", out, want)
	}
}
