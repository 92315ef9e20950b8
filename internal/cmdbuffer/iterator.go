package cmdbuffer

import "github.com/pkg/errors"

// Iterator replays a Buffer's command stream from a starting entry point,
// decoding jumps and handing back absolute block-aligned TU indices
// (spec.md §4.5 "Command-buffer applicator"). It holds no reference back
// to the Buffer beyond the byte slices it was built from, so an
// applicator can run one Iterator per entry point concurrently while the
// Buffer itself is never mutated during apply.
type Iterator struct {
	cmds []byte
	data []byte

	transformSize int
	cmdPos        int
	dataPos       int

	tuIndex  int // absolute jump accumulator
	remain   int // commands left in this segment (-1 = unbounded, whole buffer)
}

// NewIterator builds an Iterator over the whole buffer (no entry points).
func NewIterator(b *Buffer) *Iterator {
	return &Iterator{
		cmds:          b.cmds,
		data:          b.data,
		transformSize: b.transformSize,
		remain:        -1,
	}
}

// NewIteratorAt builds an Iterator starting at a specific entry point.
func NewIteratorAt(b *Buffer, ep EntryPoint) *Iterator {
	return &Iterator{
		cmds:          b.cmds,
		data:          b.data,
		transformSize: b.transformSize,
		cmdPos:        ep.CommandOffset,
		dataPos:       ep.DataOffset,
		tuIndex:       ep.InitialJump,
		remain:        ep.CommandCount,
	}
}

// Entry is one decoded command: its absolute TU index, opcode, and (for
// ADD/SET) residual payload.
type Entry struct {
	TUIndex  int
	Command  Command
	Residual []int16
}

func (it *Iterator) readJump() (int, error) {
	if it.cmdPos >= len(it.cmds) {
		return 0, errors.New("cmdbuffer: truncated command stream")
	}
	b := it.cmds[it.cmdPos]
	it.cmdPos++
	code := b >> 2
	cmd := Command(b & 0x3)
	_ = cmd
	switch code {
	case midJumpCode:
		if it.cmdPos+2 > len(it.cmds) {
			return 0, errors.New("cmdbuffer: truncated mid-jump")
		}
		v := int(it.cmds[it.cmdPos]) | int(it.cmds[it.cmdPos+1])<<8
		it.cmdPos += 2
		return v, nil
	case bigJumpCode:
		if it.cmdPos+3 > len(it.cmds) {
			return 0, errors.New("cmdbuffer: truncated big-jump")
		}
		v := int(it.cmds[it.cmdPos]) | int(it.cmds[it.cmdPos+1])<<8 | int(it.cmds[it.cmdPos+2])<<16
		it.cmdPos += 3
		return v, nil
	default:
		return int(code), nil
	}
}

// Next decodes the next command. ok is false once the segment (or, for a
// whole-buffer iterator, the buffer) is exhausted.
func (it *Iterator) Next() (Entry, bool, error) {
	if it.remain == 0 {
		return Entry{}, false, nil
	}
	if it.remain < 0 && it.cmdPos >= len(it.cmds) {
		return Entry{}, false, nil
	}
	startPos := it.cmdPos
	if startPos >= len(it.cmds) {
		return Entry{}, false, nil
	}
	cmdByte := it.cmds[startPos]
	cmd := Command(cmdByte & 0x3)

	jump, err := it.readJump()
	if err != nil {
		return Entry{}, false, err
	}
	it.tuIndex += jump
	if it.remain > 0 {
		it.remain--
	}

	e := Entry{TUIndex: it.tuIndex, Command: cmd}
	if cmd == CmdADD || cmd == CmdSET {
		if it.dataPos+it.transformSize*2 > len(it.data) {
			return Entry{}, false, errors.New("cmdbuffer: truncated residual payload")
		}
		res := make([]int16, it.transformSize)
		for i := range res {
			lo := it.data[it.dataPos+i*2]
			hi := it.data[it.dataPos+i*2+1]
			res[i] = int16(uint16(lo) | uint16(hi)<<8)
		}
		it.dataPos += it.transformSize * 2
		e.Residual = res
	}
	return e, true, nil
}
