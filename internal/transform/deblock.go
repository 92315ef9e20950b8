package transform

// deblockCorners and deblockSides are the flat 4x4 residual positions that
// sit on the TU's boundary: the four corners and the remaining eight
// edge positions. Deblocking smooths exactly these boundary-facing
// samples; the interior 2x2 is untouched.
//
// Position layout (row-major, spatial — not the coefficient layout):
//
//	[ 0  1  2  3 ]
//	[ 4  5  6  7 ]
//	[ 8  9 10 11 ]
//	[12 13 14 15 ]
var (
	deblockCorners = [4]int{0, 5, 10, 15}
	deblockSides   = [8]int{1, 2, 4, 7, 8, 11, 13, 14}
)

// ApplyDeblock multiplies the TU's boundary-facing residual positions by
// the frame's corner/side strengths (each in 0..16, a Q4 fixed-point
// scale) and right-shifts by 4, per spec.md §4.3: "Deblocking ... multiplies
// specific residual positions by a corner or side factor ... then
// right-shifts by 4." Strengths are frame-supplied (SPEC_FULL.md §4 item
// 2) rather than hardcoded: the affected positions are fixed, but the
// corner/side strength pair varies per frame. Only meaningful for DDS
// (16-element) residuals at LOQ1; callers gate on that.
func ApplyDeblock(residual *[16]int32, corner, side uint8) {
	for _, pos := range deblockCorners {
		residual[pos] = (residual[pos] * int32(corner)) >> 4
	}
	for _, pos := range deblockSides {
		residual[pos] = (residual[pos] * int32(side)) >> 4
	}
}
