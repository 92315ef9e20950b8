package surface

// BlitCopy copies src into dst, converting fixed-point formats as needed
// (spec.md §4.7 "Copy: identity if formats match; otherwise a
// per-(srcFP, dstFP) conversion table"). width/height are in samples;
// identity copies (matching format) use a single row-wise memcpy, exactly
// the "memcpy of width * sampleSize bytes per row" round-trip law from
// spec.md §8.
func BlitCopy(dst Plane, dstFP FixedPoint, src Plane, srcFP FixedPoint, width, height int) {
	if dstFP == srcFP {
		rowBytes := width * SampleSize(dstFP)
		for y := 0; y < height; y++ {
			so := y * src.RowStride
			do := y * dst.RowStride
			copy(dst.Data[do:do+rowBytes], src.Data[so:so+rowBytes])
		}
		return
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := convertSample(srcFP, dstFP, src, x, y)
			writeConverted(dst, dstFP, x, y, v)
		}
	}
}

// convertSample reads one sample in its native storage and converts it to
// dstFP's domain via the shared signed intermediate, promoting (shift up)
// or demoting (shift down with rounding) as needed. No (srcFP, dstFP) pair
// is rejected: neither BlitCopy nor BlitAdd checks the combination or
// returns an error, and every pair converts through the signed form.
func convertSample(srcFP, dstFP FixedPoint, src Plane, x, y int) int16 {
	return src.ReadSigned(srcFP, x, y)
}

func writeConverted(dst Plane, dstFP FixedPoint, x, y int, v int16) {
	dst.WriteSigned(dstFP, x, y, v)
}

// BlitAdd computes dst = sat(dst + src) sample-wise, where src is always
// read in its signed form (spec.md §4.7 "Add: dst = sat(dst + src) where
// src is always the signed form and dst any of U8/U10/U12/U14/S*").
func BlitAdd(dst Plane, dstFP FixedPoint, src Plane, srcFP FixedPoint, width, height int) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s := src.ReadSigned(srcFP, x, y)
			d := dst.ReadSigned(dstFP, x, y)
			dst.WriteSigned(dstFP, x, y, SatAdd16(d, s))
		}
	}
}
