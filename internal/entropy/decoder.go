// Package entropy implements the LCEVC residual and temporal entropy
// decoders: Huffman-over-RLE decoding of (coefficient, zero-run) and
// (temporal signal, run) pairs (spec.md §4.1).
//
// The coefficient/run magnitudes are Huffman-coded using a JPEG-style
// category ("size class") + extra-bits scheme: a Huffman symbol selects a
// (run category, value category) pair, and the category's bit width of
// extra bits follows immediately, exactly as classic JPEG AC coefficient
// coding represents (run, size) pairs. rleOnly chunks skip the Huffman
// stage entirely and are a flat byte-pair stream.
package entropy

import (
	"errors"
	"math/bits"
	"sync"
)

// Kind selects which symbol alphabet a Decoder interprets.
type Kind int

const (
	// KindDefault decodes (coefficient, zero-run) pairs.
	KindDefault Kind = iota
	// KindTemporal decodes (signal, run) pairs.
	KindTemporal
)

// Signal is the temporal decoder's per-TU mode (mirrors lcevc.TemporalSignal
// without importing the root package, keeping this package a dependency
// leaf).
type Signal int

const (
	SignalInter Signal = iota
	SignalIntra
)

// Sentinel errors (spec.md §4.1, §7).
var (
	// ErrNoData signals "no more coefficients in this layer" for a Default
	// decoder, or "rest of plane is Inter" for a Temporal decoder. It is
	// not a failure: callers fast-forward the layer with an implicit run
	// to the end of the plane.
	ErrNoData = errors.New("entropy: no more data")

	// ErrTruncated means the bitstream ended mid-symbol; fatal to the
	// enclosing frame (spec.md §7 "Bitstream corruption").
	ErrTruncated = errors.New("entropy: truncated bitstream")

	// ErrInvalidCode means a Huffman walk reached a nil child; fatal to
	// the enclosing frame.
	ErrInvalidCode = errors.New("entropy: invalid huffman code")

	// ErrInvalidRun means a decoded run length came out negative, which
	// cannot happen through the category scheme but is guarded against
	// defensively for the rleOnly raw path.
	ErrInvalidRun = errors.New("entropy: invalid run length")
)

// maxCoeffCategory covers the full int16 magnitude range (up to 1<<15).
const maxCoeffCategory = 16

// maxRunCategory covers plane sizes up to roughly 16 million TUs, more than
// enough for any supported resolution.
const maxRunCategory = 24

// category returns the JPEG-style size class of a non-negative magnitude:
// 0 for 0, otherwise the number of bits needed to represent it.
func category(mag uint32) uint8 {
	return uint8(bits.Len32(mag))
}

// decodeSignedCategoryValue reconstructs a signed value from its category and
// extra bits using the classic JPEG ReceiveExtend convention: values in the
// lower half of the extra-bits range are negative.
func decodeSignedCategoryValue(cat uint8, extra uint32) int32 {
	if cat == 0 {
		return 0
	}
	half := uint32(1) << (cat - 1)
	if extra < half {
		return int32(extra) - int32((uint32(1)<<cat)-1)
	}
	return int32(extra)
}

func encodeSignedCategoryValue(v int32) (cat uint8, extra uint32) {
	if v == 0 {
		return 0, 0
	}
	mag := uint32(v)
	if v < 0 {
		mag = uint32(-v)
	}
	cat = category(mag)
	if v > 0 {
		extra = uint32(v)
	} else {
		extra = uint32(v) + (uint32(1) << cat) - 1
	}
	return cat, extra
}

// decodeUnsignedCategoryValue reconstructs a non-negative run length: the
// category's extra bits are the value directly (no sign half-split).
func decodeUnsignedCategoryValue(cat uint8, extra uint32) int32 {
	if cat == 0 {
		return 0
	}
	return int32(extra)
}

func encodeUnsignedCategoryValue(v int32) (cat uint8, extra uint32) {
	if v <= 0 {
		return 0, 0
	}
	cat = category(uint32(v))
	return cat, uint32(v)
}

// Huffman trees are built once per kind (default, temporal) and reused by every
// Decoder: the symbol alphabet and frequency model are fixed properties of
// the bitstream dialect, not of any particular chunk.
var (
	treeOnce    sync.Once
	defaultTree *huffNode
	temporalTree *huffNode
)

func buildTrees() {
	// Default alphabet: symbol = runCategory*(maxCoeffCategory+1) + coeffCategory.
	var syms []uint16
	var freqs []float64
	for rc := 0; rc <= maxRunCategory; rc++ {
		for cc := 0; cc <= maxCoeffCategory; cc++ {
			syms = append(syms, uint16(rc*(maxCoeffCategory+1)+cc))
			// Smaller runs and smaller coefficients are far more likely in
			// practice (temporal prediction leaves most TUs unchanged).
			freqs = append(freqs, 1.0/float64(1+rc*rc+cc*cc))
		}
	}
	defaultTree = buildHuffmanTree(syms, freqs)

	// Temporal alphabet: symbol = signal*(maxRunCategory+1) + runCategory.
	syms = syms[:0]
	freqs = freqs[:0]
	for sig := 0; sig < 2; sig++ {
		for rc := 0; rc <= maxRunCategory; rc++ {
			syms = append(syms, uint16(sig*(maxRunCategory+1)+rc))
			freqs = append(freqs, 1.0/float64(1+rc*rc))
		}
	}
	temporalTree = buildHuffmanTree(syms, freqs)
}

func trees() (def, temp *huffNode) {
	treeOnce.Do(buildTrees)
	return defaultTree, temporalTree
}

// Decoder decodes one Chunk's worth of entropy-coded data. It holds no
// reference to the chunk beyond its byte slice and is not safe for
// concurrent use; per spec.md §4.3 per-tile decode is strictly sequential.
type Decoder struct {
	br      *bitReader
	kind    Kind
	version int
	rleOnly bool
}

// Initialize constructs a Decoder over data. rleOnly chunks skip the
// Huffman stage (spec.md §4.1). version selects minor bitstream dialect
// differences; only version 0 and 1 are defined, version 1 swaps the order
// in which an rleOnly record's run and value fields appear.
func Initialize(data []byte, rleOnly bool, kind Kind, version int) *Decoder {
	return &Decoder{br: newBitReader(data), kind: kind, version: version, rleOnly: rleOnly}
}

// Release drops the Decoder's reference to its backing buffer. The command
// buffer and the chunk data outlive this per spec.md's lifecycle notes, so
// there's no pool to return to here — this exists for symmetry with the
// decoder's C-API ancestor and so callers have one consistent
// initialize/use/release pattern across both Decoder kinds.
func (d *Decoder) Release() {
	d.br = nil
}

// Decode returns the next (coefficient, trailing zero-run) pair for a
// Default decoder. err is ErrNoData when the layer has no more
// coefficients (the caller should treat the rest of the plane as a zero
// run), or ErrTruncated/ErrInvalidCode for a corrupt bitstream.
func (d *Decoder) Decode() (coeff int16, run int32, err error) {
	if d.kind != KindDefault {
		return 0, 0, errors.New("entropy: Decode called on a non-Default decoder")
	}
	if d.rleOnly {
		return d.decodeDefaultRaw()
	}
	return d.decodeDefaultHuffman()
}

func (d *Decoder) decodeDefaultHuffman() (int16, int32, error) {
	if d.br.exhausted() {
		return 0, 0, ErrNoData
	}
	def, _ := trees()
	sym, err := decodeSymbol(d.br, def)
	if err != nil {
		return 0, 0, err
	}
	runCat := uint8(int(sym) / (maxCoeffCategory + 1))
	coeffCat := uint8(int(sym) % (maxCoeffCategory + 1))

	var runExtra, coeffExtra uint32
	if coeffCat > 0 {
		coeffExtra, err = d.br.readBits(uint(coeffCat))
		if err != nil {
			return 0, 0, err
		}
	}
	if runCat > 0 {
		runExtra, err = d.br.readBits(uint(runCat))
		if err != nil {
			return 0, 0, err
		}
	}
	coeff := decodeSignedCategoryValue(coeffCat, coeffExtra)
	run := decodeUnsignedCategoryValue(runCat, runExtra)
	if run < 0 {
		return 0, 0, ErrInvalidRun
	}
	return int16(coeff), run, nil
}

func (d *Decoder) decodeDefaultRaw() (int16, int32, error) {
	if d.br.pos >= len(d.br.data) {
		return 0, 0, ErrNoData
	}
	var coeff int16
	var run int32
	var err error
	if d.version == 0 {
		coeff, err = d.br.readInt16LE()
		if err != nil {
			return 0, 0, err
		}
		run, err = d.readRawRun()
		if err != nil {
			return 0, 0, err
		}
	} else {
		run, err = d.readRawRun()
		if err != nil {
			return 0, 0, err
		}
		coeff, err = d.br.readInt16LE()
		if err != nil {
			return 0, 0, err
		}
	}
	return coeff, run, nil
}

// readRawRun reads the rleOnly run-length encoding: one byte if < 0xFF,
// otherwise the escape byte followed by a little-endian uint32.
func (d *Decoder) readRawRun() (int32, error) {
	b, err := d.br.readByte()
	if err != nil {
		return 0, err
	}
	if b != 0xFF {
		return int32(b), nil
	}
	v, err := d.br.readUint32LE()
	if err != nil {
		return 0, err
	}
	if v > 1<<30 {
		return 0, ErrInvalidRun
	}
	return int32(v), nil
}

// DecodeTemporal returns the next (signal, run) pair for a Temporal
// decoder. The run is inclusive of the current symbol: it holds for the
// returned run additional TUs beyond (and including) the current one, per
// spec.md §4.1. err is ErrNoData when the rest of the plane is Inter.
func (d *Decoder) DecodeTemporal() (Signal, int32, error) {
	if d.kind != KindTemporal {
		return 0, 0, errors.New("entropy: DecodeTemporal called on a non-Temporal decoder")
	}
	if d.rleOnly {
		return d.decodeTemporalRaw()
	}
	return d.decodeTemporalHuffman()
}

func (d *Decoder) decodeTemporalHuffman() (Signal, int32, error) {
	if d.br.exhausted() {
		return SignalInter, 0, ErrNoData
	}
	_, temp := trees()
	sym, err := decodeSymbol(d.br, temp)
	if err != nil {
		return 0, 0, err
	}
	signal := Signal(int(sym) / (maxRunCategory + 1))
	runCat := uint8(int(sym) % (maxRunCategory + 1))
	var runExtra uint32
	if runCat > 0 {
		runExtra, err = d.br.readBits(uint(runCat))
		if err != nil {
			return 0, 0, err
		}
	}
	run := decodeUnsignedCategoryValue(runCat, runExtra)
	if run < 0 {
		return 0, 0, ErrInvalidRun
	}
	return signal, run, nil
}

func (d *Decoder) decodeTemporalRaw() (Signal, int32, error) {
	if d.br.pos >= len(d.br.data) {
		return SignalInter, 0, ErrNoData
	}
	sb, err := d.br.readByte()
	if err != nil {
		return 0, 0, err
	}
	signal := SignalInter
	if sb != 0 {
		signal = SignalIntra
	}
	run, err := d.readRawRun()
	if err != nil {
		return 0, 0, err
	}
	return signal, run, nil
}
