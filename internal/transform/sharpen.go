package transform

// sharpenMaxStrength is the top of the 0..15 strength range FrameConfig
// carries (spec.md §3).
const sharpenMaxStrength = 15

// ApplySharpen runs a fixed 3-tap unsharp-mask pass over a TU's residuals,
// scaled by strength/sharpenMaxStrength (SPEC_FULL.md §4 item 4: spec.md
// names a per-frame sharpen toggle and strength that §4's component design
// never defines an operation for; this pass runs after deblock and before
// the residual is handed to the command stream, LOQ1 only — the same stage
// gate as deblock). The kernel is applied along each row of the TU
// independently, replicating the row's edge sample at the boundary.
func ApplySharpen(residual []int32, tuShift uint, strength uint8) {
	if strength == 0 {
		return
	}
	side := 1 << tuShift
	k := int32(strength)

	row := make([]int32, side)
	for y := 0; y < side; y++ {
		copy(row, residual[y*side:y*side+side])
		for x := 0; x < side; x++ {
			left := row[0]
			if x > 0 {
				left = row[x-1]
			}
			right := row[side-1]
			if x < side-1 {
				right = row[x+1]
			}
			// unsharp: center + k/max * (2*center - left - right)
			delta := (2*row[x] - left - right) * k / sharpenMaxStrength
			residual[y*side+x] = row[x] + delta
		}
	}
}
