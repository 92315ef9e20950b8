package taskpool

import (
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
)

func TestRunCallsEveryIndex(t *testing.T) {
	const n = 100
	var seen [n]int32
	p := New(8)

	if err := p.Run(n, func(i int) error {
		atomic.AddInt32(&seen[i], 1)
		return nil
	}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	for i, v := range seen {
		if v != 1 {
			t.Errorf("index %d ran %d times, want 1", i, v)
		}
	}
}

func TestRunSingleWorkerIsSequential(t *testing.T) {
	p := New(1)
	var order []int
	err := p.Run(5, func(i int) error {
		order = append(order, i)
		return nil
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("single-worker pool did not run in order: %v", order)
		}
	}
}

func TestRunCollectsFirstError(t *testing.T) {
	p := New(4)
	wantErr := errors.New("tile decode failed")
	var ran int32

	err := p.Run(10, func(i int) error {
		atomic.AddInt32(&ran, 1)
		if i == 3 {
			return wantErr
		}
		return nil
	})

	if err == nil {
		t.Fatal("expected an error from Run")
	}
	if int(ran) != 10 {
		t.Fatalf("expected all 10 indices to run despite one failing, got %d", ran)
	}
}

func TestRunZeroIsNoop(t *testing.T) {
	p := New(4)
	called := false
	if err := p.Run(0, func(i int) error { called = true; return nil }); err != nil {
		t.Fatalf("Run(0) returned error: %v", err)
	}
	if called {
		t.Fatal("Run(0) should not invoke fn")
	}
}
