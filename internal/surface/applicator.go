package surface

import (
	"github.com/pkg/errors"

	"github.com/lcevc/enhancement-core/internal/cmdbuffer"
	"github.com/lcevc/enhancement-core/internal/tu"
)

// Target is the write surface a command buffer is applied to: either a
// Plane (picture samples, converted through the fixed-point domain) or a
// Temporal surface (already signed, no conversion). Factoring both behind
// one interface lets Apply implement the per-TU opcodes once instead of
// duplicating them per surface kind (design note "Function-pointer
// dispatch tables" — here expressed as two small concrete types behind an
// interface rather than a table of function pointers).
type Target interface {
	// ReadTU loads a size x size block's samples in the signed domain,
	// row-major.
	ReadTU(x, y, size int) []int32
	// WriteTU stores a size x size block of signed-domain samples,
	// row-major, saturating on store.
	WriteTU(x, y, size int, vals []int32)
	// ClearBlock zeroes a (possibly edge-clipped) 32x32 region.
	ClearBlock(x, y, w, h int)
	// Highlight overwrites a size x size block with the format's maximum
	// representable value, ignoring residual content.
	Highlight(x, y, size int)
}

// PlaneTarget adapts a Plane to Target, converting through the fixed-point
// domain on every access (spec.md §4.5 "ADD: load TU pixels, convert to
// S-form if unsigned, add signed residuals with saturation, convert back
// and store").
type PlaneTarget struct {
	Plane Plane
	FP    FixedPoint
}

func (p PlaneTarget) ReadTU(x, y, size int) []int32 {
	out := make([]int32, size*size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			out[row*size+col] = int32(p.Plane.ReadSigned(p.FP, x+col, y+row))
		}
	}
	return out
}

func (p PlaneTarget) WriteTU(x, y, size int, vals []int32) {
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			p.Plane.WriteSigned(p.FP, x+col, y+row, Sat16(vals[row*size+col]))
		}
	}
}

func (p PlaneTarget) ClearBlock(x, y, w, h int) {
	zero := int16(0)
	if !p.FP.Signed() {
		// The unsigned domain's "zero" signed-equivalent converts back to
		// the format's midpoint sample (e.g. 128 for U8), not byte 0.
		zero = 0
	}
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			p.Plane.WriteSigned(p.FP, x+col, y+row, zero)
		}
	}
}

func (p PlaneTarget) Highlight(x, y, size int) {
	maxV := MaxValue(p.FP)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if p.FP.Signed() {
				p.Plane.writeSigned(x+col, y+row, int16(maxV))
			} else {
				p.Plane.writeUnsigned(p.FP, x+col, y+row, maxV)
			}
		}
	}
}

// TemporalTarget adapts a Temporal surface to Target. Samples are already
// signed, so ADD/SET/SETZERO need no fixed-point conversion.
type TemporalTarget struct {
	Surface *Temporal
}

func (t TemporalTarget) ReadTU(x, y, size int) []int32 {
	out := make([]int32, size*size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			out[row*size+col] = int32(t.Surface.Get(x+col, y+row))
		}
	}
	return out
}

func (t TemporalTarget) WriteTU(x, y, size int, vals []int32) {
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			t.Surface.Set(x+col, y+row, Sat16(vals[row*size+col]))
		}
	}
}

func (t TemporalTarget) ClearBlock(x, y, w, h int) {
	t.Surface.ClearRegion(x, y, w, h)
}

func (t TemporalTarget) Highlight(x, y, size int) {
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			t.Surface.Set(x+col, y+row, 32767)
		}
	}
}

// Sat16 saturates a wide sum to the int16 range (mirrors
// internal/transform.Sat16 without importing it — see design note on
// mutually-recursive modules: transform is itself a leaf, so importing it
// here would be fine, but the duplication is one line and keeps this
// package independently testable without pulling in the Hadamard/dequant
// machinery).
func Sat16(v int32) int16 {
	switch {
	case v < -32768:
		return -32768
	case v > 32767:
		return 32767
	default:
		return int16(v)
	}
}

const blockEdge = 32

// Apply replays cb against target. blockRaster selects coordsBlockAligned
// addressing (temporal enabled) versus plain surface-raster addressing
// (spec.md §4.5): block mode supports all four opcodes, surface mode only
// ADD is meaningful per spec (SET/SETZERO/CLEAR never appear in a
// surface-order stream since the decode loop only emits them when
// temporal is active). highlight, when set, replaces every ADD and SET TU
// with the format's maximum value regardless of residual content — a
// debug visualization aid; SETZERO and CLEAR are applied as usual.
func Apply(st *tu.State, cb *cmdbuffer.Buffer, ep *cmdbuffer.EntryPoint, target Target, size int, blockRaster, highlight bool) error {
	var it *cmdbuffer.Iterator
	if ep != nil {
		it = cmdbuffer.NewIteratorAt(cb, *ep)
	} else {
		it = cmdbuffer.NewIterator(cb)
	}

	for {
		e, ok, err := it.Next()
		if err != nil {
			return errors.Wrap(err, "applying command buffer")
		}
		if !ok {
			return nil
		}

		var x, y int
		if blockRaster {
			x, y, err = st.CoordsBlockAlignedRaster(e.TUIndex)
		} else {
			x, y, err = st.CoordsSurfaceRaster(e.TUIndex)
		}
		if err != nil {
			return errors.Wrapf(err, "resolving coordinates for tu %d", e.TUIndex)
		}

		if highlight && (e.Command == cmdbuffer.CmdADD || e.Command == cmdbuffer.CmdSET) {
			target.Highlight(x, y, size)
			continue
		}

		switch e.Command {
		case cmdbuffer.CmdADD:
			base := target.ReadTU(x, y, size)
			vals := make([]int32, len(base))
			for i, r := range e.Residual {
				vals[i] = base[i] + int32(r)
			}
			target.WriteTU(x, y, size, vals)
		case cmdbuffer.CmdSET:
			vals := make([]int32, len(e.Residual))
			for i, r := range e.Residual {
				vals[i] = int32(r)
			}
			target.WriteTU(x, y, size, vals)
		case cmdbuffer.CmdSETZERO:
			target.WriteTU(x, y, size, make([]int32, size*size))
		case cmdbuffer.CmdCLEAR:
			w, h := blockEdge, blockEdge
			if cw := st.Width() - x; cw < w {
				w = cw
			}
			if ch := st.Height() - y; ch < h {
				h = ch
			}
			target.ClearBlock(x, y, w, h)
		default:
			return errors.Errorf("unknown command opcode %v", e.Command)
		}
	}
}
