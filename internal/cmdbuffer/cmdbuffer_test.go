package cmdbuffer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAppendNextRoundTrip(t *testing.T) {
	b := New(1)
	b.Reset(4)

	residualA := []int16{1, -2, 3, -4}
	residualB := []int16{100, 200, -300, 400}

	if err := b.Append(CmdADD, residualA, 2); err != nil {
		t.Fatalf("append add: %v", err)
	}
	if err := b.Append(CmdCLEAR, nil, 61); err != nil {
		t.Fatalf("append clear: %v", err)
	}
	if err := b.Append(CmdSET, residualB, 0); err != nil {
		t.Fatalf("append set: %v", err)
	}
	if err := b.Append(CmdSETZERO, nil, 5); err != nil {
		t.Fatalf("append setzero: %v", err)
	}

	it := NewIterator(b)

	want := []Entry{
		{TUIndex: 2, Command: CmdADD, Residual: residualA},
		{TUIndex: 63, Command: CmdCLEAR},
		{TUIndex: 63, Command: CmdSET, Residual: residualB},
		{TUIndex: 68, Command: CmdSETZERO},
	}
	for i, w := range want {
		got, ok, err := it.Next()
		if err != nil {
			t.Fatalf("entry %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("entry %d: iterator exhausted early", i)
		}
		if diff := cmp.Diff(w, got); diff != "" {
			t.Errorf("entry %d mismatch (-want +got):\n%s", i, diff)
		}
	}
	if _, ok, err := it.Next(); ok || err != nil {
		t.Fatalf("expected exhausted iterator, got ok=%v err=%v", ok, err)
	}
}

// TestJumpBoundaries checks the literal/mid/big jump encoding boundaries
// named in spec.md §8 "Boundary behaviors": 62 and 63 and 62+256 and
// 65535 and 65536 and 16777215 all round-trip.
func TestJumpBoundaries(t *testing.T) {
	jumps := []int{0, 61, 62, 63, 62 + 256, 65535, 65536, 16777215}

	b := New(1)
	b.Reset(0)
	for _, j := range jumps {
		if err := b.Append(CmdCLEAR, nil, j); err != nil {
			t.Fatalf("append jump %d: %v", j, err)
		}
	}

	it := NewIterator(b)
	accum := 0
	for _, j := range jumps {
		accum += j
		e, ok, err := it.Next()
		if err != nil || !ok {
			t.Fatalf("next: ok=%v err=%v", ok, err)
		}
		if e.TUIndex != accum {
			t.Errorf("jump %d: got TU %d want %d", j, e.TUIndex, accum)
		}
	}
}

func TestAppendResidualLengthMismatch(t *testing.T) {
	b := New(1)
	b.Reset(4)
	if err := b.Append(CmdADD, []int16{1, 2}, 0); err == nil {
		t.Fatal("expected error for mismatched residual length")
	}
}

func TestEntryPointsSplit(t *testing.T) {
	b := New(2)
	b.Reset(4)
	res := []int16{1, 2, 3, 4}
	_ = b.Append(CmdADD, res, 5)  // tuIndex 5
	_ = b.Append(CmdADD, res, 10) // tuIndex 15
	b.Split(15)
	_ = b.Append(CmdADD, res, 3) // tuIndex 18
	b.Split(18)

	eps := b.EntryPoints()
	if len(eps) != 2 {
		t.Fatalf("expected 2 entry points, got %d", len(eps))
	}
	if eps[0].CommandCount != 2 || eps[0].InitialJump != 0 {
		t.Errorf("entry 0 = %+v, want CommandCount=2 InitialJump=0", eps[0])
	}
	if eps[1].CommandCount != 1 || eps[1].InitialJump != 15 {
		t.Errorf("entry 1 = %+v, want CommandCount=1 InitialJump=15", eps[1])
	}

	it := NewIteratorAt(b, eps[1])
	e, ok, err := it.Next()
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if e.TUIndex != 18 {
		t.Errorf("TUIndex = %d, want 18", e.TUIndex)
	}
	if _, ok, _ := it.Next(); ok {
		t.Error("expected segment to be exhausted after 1 command")
	}
}
