package transform

// Sat16 saturates a wide sum to the int16 range, the saturation contract
// spec.md §7 calls out as defined behavior rather than an error.
func Sat16(v int32) int16 {
	const (
		min = -32768
		max = 32767
	)
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return int16(v)
}

// sign returns -1, 0 or 1.
func sign(v int32) int32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// DequantParams holds the per-(temporal,layer) step width and dead-zone
// offset (spec.md §4.3 "Dequantization"), already combined with the
// per-LOQ quantization matrix entry and, for chroma planes, the chroma
// step-width multiplier (SPEC_FULL.md §4 items 5-6).
type DequantParams struct {
	StepWidth int32
	Offset    int32
}

// Dequantize applies out = in*stepWidth + sign(in)*offset, saturating to
// int16 (spec.md §4.3).
func Dequantize(raw int16, p DequantParams) int16 {
	wide := int32(raw)*p.StepWidth + sign(int32(raw))*p.Offset
	return Sat16(wide)
}

// ResolveDequantParams combines the raw per-layer step width/offset with
// the quantization matrix entry for that layer and, for chroma planes, the
// global chroma step-width multiplier (SPEC_FULL.md §4 items 5 and 6):
// matrix first, then the step-width scale.
func ResolveDequantParams(stepWidth, offset, matrixEntry int32, isChroma bool, chromaMultiplier float64) DequantParams {
	sw := stepWidth * matrixEntry
	if isChroma {
		sw = int32(float64(sw) * chromaMultiplier)
	}
	return DequantParams{StepWidth: sw, Offset: offset}
}

// DequantizeLayers dequantizes the raw coefficients using per-layer
// parameters, writing them into out ready for InverseDD/InverseDDS.
func DequantizeLayers(raw []int16, params []DequantParams, out []int32) {
	for i := range raw {
		out[i] = int32(Dequantize(raw[i], params[i]))
	}
}
