// Package cmdbuffer implements the growable command-buffer encoding that
// decouples entropy decode from pixel application (spec.md §4.4). The
// decode loop (internal/decode) appends ADD/SET/SETZERO/CLEAR commands as
// it walks the TU stream; the applicator (internal/surface) later replays
// them against a picture plane, potentially split across several
// parallelizable entry points (spec.md §5 "Apply: one slice per
// command-buffer entry point").
package cmdbuffer

import "github.com/pkg/errors"

// Command is the 2-bit opcode that precedes every jump in the stream
// (spec.md §3 "Command buffer").
type Command uint8

const (
	CmdADD Command = iota
	CmdSET
	CmdSETZERO
	CmdCLEAR
)

func (c Command) String() string {
	switch c {
	case CmdADD:
		return "ADD"
	case CmdSET:
		return "SET"
	case CmdSETZERO:
		return "SETZERO"
	case CmdCLEAR:
		return "CLEAR"
	default:
		return "?"
	}
}

// Jump encoding thresholds (spec.md §4.4 "Jump encoding (6 bits)"):
// 0..61 is a literal jump; 62 escapes to a 2-byte little-endian jump
// ("mid-jump"); 63 escapes to a 3-byte little-endian jump ("big-jump").
const (
	maxLiteralJump = 61
	midJumpCode    = 62
	bigJumpCode    = 63
	maxMidJump     = 1<<16 - 1
	maxBigJump     = 1<<24 - 1
)

// EntryPoint is a resumption record allowing a suffix of the command
// stream to be applied independently of what precedes it (spec.md §3
// "Optional entry points").
type EntryPoint struct {
	InitialJump   int // jump accumulator in effect when this segment starts
	CommandOffset int // byte offset into Commands()
	DataOffset    int // byte offset into Residuals(), counted from the start
	CommandCount  int // number of commands in this segment
}

// Buffer is the growable command/payload pair for one enhancement tile's
// LOQ decode (spec.md §3 "Command buffer", §4.4). It is reset at the start
// of each LOQ decode, built by a single writer during entropy decode, and
// read by possibly many goroutines during apply — but only after the
// writer has finished, so no internal locking is required (spec.md §5
// "Shared resources").
type Buffer struct {
	transformSize int // 4 (DD) or 16 (DDS) int16 residuals per ADD/SET

	cmds []byte // jump+command bytes, in append order
	data []byte // residual payload, in append order

	entryPoints       []EntryPoint
	segStartCmdOffset int
	segStartDataOffset int
	segStartJump       int
	segCmdCount        int
}

// New allocates a Buffer sized for numEntryPoints parallel segments
// (spec.md §4.4 "initialize(allocator, numEntryPoints) — sized by
// numEntryPoints * 2 suggested capacity").
func New(numEntryPoints int) *Buffer {
	capHint := numEntryPoints * 2
	if capHint < 16 {
		capHint = 16
	}
	return &Buffer{
		cmds: make([]byte, 0, capHint),
		data: make([]byte, 0, capHint*8),
	}
}

// Reset clears both regions and records the transform size (4 or 16) for
// this LOQ's residual payloads (spec.md §4.4 "reset(transformSize)").
func (b *Buffer) Reset(transformSize int) {
	b.transformSize = transformSize
	b.cmds = b.cmds[:0]
	b.data = b.data[:0]
	b.entryPoints = b.entryPoints[:0]
	b.segStartCmdOffset = 0
	b.segStartDataOffset = 0
	b.segStartJump = 0
	b.segCmdCount = 0
}

// IsEmpty reports whether any command has been appended since Reset.
func (b *Buffer) IsEmpty() bool { return len(b.cmds) == 0 }

// ResidualSize returns the total bytes of residual payload appended so far.
func (b *Buffer) ResidualSize() int { return len(b.data) }

// TransformSize returns the configured residual length (4 or 16 int16s).
func (b *Buffer) TransformSize() int { return b.transformSize }

func encodeJump(jump int) (code byte, extra []byte, err error) {
	switch {
	case jump < 0:
		return 0, nil, errors.Errorf("cmdbuffer: negative jump %d", jump)
	case jump <= maxLiteralJump:
		return byte(jump), nil, nil
	case jump <= maxMidJump:
		return midJumpCode, []byte{byte(jump), byte(jump >> 8)}, nil
	case jump <= maxBigJump:
		return bigJumpCode, []byte{byte(jump), byte(jump >> 8), byte(jump >> 16)}, nil
	default:
		return 0, nil, errors.Errorf("cmdbuffer: jump %d exceeds 24-bit range", jump)
	}
}

// Append encodes one command with its jump distance from the previous
// command, plus (for ADD/SET) a transformSize-length residual payload
// (spec.md §4.4 "append(cmd, residualsOrNull, jump)"). residual must be
// exactly TransformSize() long for ADD/SET and is ignored otherwise.
func (b *Buffer) Append(cmd Command, residual []int16, jump int) error {
	code, extra, err := encodeJump(jump)
	if err != nil {
		return err
	}
	// Pack the 6-bit jump code in the high bits and the 2-bit command in
	// the low bits of one byte; escape bytes (mid/big jump) follow
	// immediately, then the command stream continues.
	b.cmds = append(b.cmds, (code<<2)|byte(cmd))
	b.cmds = append(b.cmds, extra...)
	b.segCmdCount++

	switch cmd {
	case CmdADD, CmdSET:
		if len(residual) != b.transformSize {
			return errors.Errorf("cmdbuffer: residual length %d != transform size %d", len(residual), b.transformSize)
		}
		for _, v := range residual {
			b.data = append(b.data, byte(v), byte(uint16(v)>>8))
		}
	}
	return nil
}

// Split finalizes the current entry point, recording the jump accumulator,
// command/data offsets and command count observed since the previous split
// (spec.md §4.4 "split()"). Subsequent appends begin the next entry point.
func (b *Buffer) Split(jumpAccumAtStart int) {
	b.entryPoints = append(b.entryPoints, EntryPoint{
		InitialJump:   b.segStartJump,
		CommandOffset: b.segStartCmdOffset,
		DataOffset:    b.segStartDataOffset,
		CommandCount:  b.segCmdCount,
	})
	b.segStartCmdOffset = len(b.cmds)
	b.segStartDataOffset = len(b.data)
	b.segStartJump = jumpAccumAtStart
	b.segCmdCount = 0
}

// EntryPoints returns the finalized entry points. If none were created via
// Split, callers should treat the whole buffer as a single synthetic
// segment (spec.md §4.5 "if the buffer has no entry points, one synthetic
// segment covers the whole buffer").
func (b *Buffer) EntryPoints() []EntryPoint {
	return b.entryPoints
}

// Commands returns the raw command-stream bytes.
func (b *Buffer) Commands() []byte { return b.cmds }

// Residuals returns the raw residual payload bytes, in append order.
func (b *Buffer) Residuals() []byte { return b.data }
