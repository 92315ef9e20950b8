// Package transform implements dequantization and the inverse Hadamard
// transform that turns per-TU coefficients into spatial residuals (spec.md
// §4.3), plus the LOQ1 deblocking and sharpening passes that refine DDS
// residuals before they reach the command buffer (SPEC_FULL.md §4).
package transform

// InverseDD applies the 2x2 inverse Hadamard transform: two cascaded
// butterfly stages of (a+b, a-b) pairs, exactly as spec.md §4.3 describes.
// coeffs is read in row-major order [c0 c1; c2 c3]; the result is written
// to out in the same row-major layout.
func InverseDD(coeffs [4]int32, out *[4]int32) {
	e0 := coeffs[0] + coeffs[1]
	e1 := coeffs[0] - coeffs[1]
	e2 := coeffs[2] + coeffs[3]
	e3 := coeffs[2] - coeffs[3]

	out[0] = e0 + e2
	out[1] = e1 + e3
	out[2] = e0 - e2
	out[3] = e1 - e3
}

// ddsSpatialOrder gives, for each spatial (row-major) position in the 4x4
// output, the index into the "natural" decoder output order — the flat
// concatenation of the four quadrant InverseDD results — that belongs
// there. It is exactly the residual layout spec.md §4.3 documents:
//
//	[ 0  1  4  5 ]
//	[ 2  3  6  7 ]
//	[ 8  9 12 13 ]
//	[10 11 14 15 ]
//
// The "Field ordering sensitivity" design note warns against smearing this
// reorder into the per-quadrant butterfly math itself (InverseDD never
// reorders anything); it is applied once, as a single explicit step, after
// all four quadrants have run.
var ddsSpatialOrder = [16]int{
	0, 1, 4, 5,
	2, 3, 6, 7,
	8, 9, 12, 13,
	10, 11, 14, 15,
}

// InverseDDS applies the 4x4 inverse Hadamard transform as a tensor product
// of two DD transforms: the 16 input coefficients are split into four
// groups of four (coeffs[4*q : 4*q+4]), each group run through InverseDD
// to produce the decoder's natural output order, which is then permuted
// into spatial row-major order per ddsSpatialOrder.
func InverseDDS(coeffs [16]int32, out *[16]int32) {
	var natural [16]int32
	for q := 0; q < 4; q++ {
		var group [4]int32
		copy(group[:], coeffs[q*4:q*4+4])
		var result [4]int32
		InverseDD(group, &result)
		copy(natural[q*4:q*4+4], result[:])
	}
	for spatial, naturalIdx := range ddsSpatialOrder {
		out[spatial] = natural[naturalIdx]
	}
}
