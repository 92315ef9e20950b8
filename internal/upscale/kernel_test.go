package upscale

import "testing"

func TestKernelValidate(t *testing.T) {
	valid := Kernel{Fwd: []int16{1, 2, 3, 4}, Rev: []int16{4, 3, 2, 1}}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid kernel rejected: %v", err)
	}

	badLen := Kernel{Fwd: []int16{1, 2, 3}, Rev: []int16{3, 2, 1}}
	if err := badLen.Validate(); err == nil {
		t.Fatal("expected error for odd tap count")
	}

	mismatched := Kernel{Fwd: []int16{1, 2}, Rev: []int16{1, 2, 3, 4}}
	if err := mismatched.Validate(); err == nil {
		t.Fatal("expected error for forward/reverse length mismatch")
	}
}

func TestNearestKernelValid(t *testing.T) {
	k := NearestKernel()
	if err := k.Validate(); err != nil {
		t.Fatalf("nearest kernel should validate: %v", err)
	}
	if k.Len() != 2 {
		t.Fatalf("nearest kernel length = %d, want 2", k.Len())
	}
}
