// Package testutil holds small fixture helpers shared by this module's
// test files: deterministic plane construction and content hashing for
// the golden-output comparisons spec.md §8's scenarios describe.
package testutil

import (
	"crypto/md5"
	"encoding/hex"
)

// HashBytes returns the hex-encoded MD5 digest of data, matching the
// digest form spec.md §8's scenarios quote for golden output comparison.
func HashBytes(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// FillPlane returns a height*stride byte buffer where every row is
// identical to pattern (cycled if shorter than stride), useful for
// constructing small deterministic planes in table-driven tests.
func FillPlane(stride, height int, pattern []byte) []byte {
	buf := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		row := buf[y*stride : (y+1)*stride]
		for x := range row {
			row[x] = pattern[x%len(pattern)]
		}
	}
	return buf
}
