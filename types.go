package lcevc

import "fmt"

// Status is the error-code set surfaced to callers (spec.md §6).
type Status int

const (
	Success Status = iota
	Again
	NotFound
	Error
	Uninitialized
	Initialized
	InvalidParam
	NotSupported
	Flushed
	Timeout
)

func (s Status) String() string {
	switch s {
	case Success:
		return "Success"
	case Again:
		return "Again"
	case NotFound:
		return "NotFound"
	case Error:
		return "Error"
	case Uninitialized:
		return "Uninitialized"
	case Initialized:
		return "Initialized"
	case InvalidParam:
		return "InvalidParam"
	case NotSupported:
		return "NotSupported"
	case Flushed:
		return "Flushed"
	case Timeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// StatusError wraps a Status so it can be returned as an error while still
// being recoverable with errors.As/errors.Is by callers that care about the
// specific code rather than the message.
type StatusError struct {
	Status Status
	Msg    string
}

func (e *StatusError) Error() string {
	if e.Msg == "" {
		return e.Status.String()
	}
	return fmt.Sprintf("%s: %s", e.Status, e.Msg)
}

// NewStatusError builds a StatusError with a formatted message.
func NewStatusError(status Status, format string, args ...interface{}) *StatusError {
	return &StatusError{Status: status, Msg: fmt.Sprintf(format, args...)}
}

// FixedPoint identifies one of the eight pixel storage variants (spec.md
// §3 "Fixed-point type"). U_n is unsigned integer storage at n bits; S_n is
// signed 16-bit storage with a virtual radix point (S8 is S8.7, and so on).
type FixedPoint int

const (
	FPU8 FixedPoint = iota
	FPU10
	FPU12
	FPU14
	FPS8
	FPS10
	FPS12
	FPS14
)

func (f FixedPoint) String() string {
	switch f {
	case FPU8:
		return "U8"
	case FPU10:
		return "U10"
	case FPU12:
		return "U12"
	case FPU14:
		return "U14"
	case FPS8:
		return "S8"
	case FPS10:
		return "S10"
	case FPS12:
		return "S12"
	case FPS14:
		return "S14"
	default:
		return "Unknown"
	}
}

// Signed reports whether fp is one of the S* variants.
func (f FixedPoint) Signed() bool {
	return f >= FPS8
}

// BitDepth returns the nominal bit depth of the format (8, 10, 12 or 14).
func (f FixedPoint) BitDepth() int {
	switch f {
	case FPU8, FPS8:
		return 8
	case FPU10, FPS10:
		return 10
	case FPU12, FPS12:
		return 12
	case FPU14, FPS14:
		return 14
	default:
		return 0
	}
}

// RadixBits returns the number of fractional bits in the signed
// representation: S8 is S8.7 (7 fractional bits), S10 is S10.5, S12 is
// S12.3, S14 is S14.1. Meaningless for unsigned formats.
func (f FixedPoint) RadixBits() int {
	return 15 - f.BitDepth()
}

// UnsignedCounterpart returns the U_n format with the same bit depth as an
// S_n format (and is the identity for U_n formats).
func (f FixedPoint) UnsignedCounterpart() FixedPoint {
	if !f.Signed() {
		return f
	}
	return f - FPS8
}

// TransformType distinguishes the two inverse-Hadamard variants (spec.md §3
// "Global configuration").
type TransformType int

const (
	TransformDD  TransformType = iota // 2x2, 4 coefficients
	TransformDDS                      // 4x4, 16 coefficients
)

// NumCoefficients returns 4 for DD, 16 for DDS.
func (t TransformType) NumCoefficients() int {
	if t == TransformDDS {
		return 16
	}
	return 4
}

// TUShift returns 1 for DD (2x2 TUs), 2 for DDS (4x4 TUs).
func (t TransformType) TUShift() uint {
	if t == TransformDDS {
		return 2
	}
	return 1
}

// NumLayers returns the number of entropy layers: 4 for DD, 16 for DDS.
func (t TransformType) NumLayers() int {
	return t.NumCoefficients()
}

// LOQ identifies a Level of Quality (spec.md §3). LOQ1 is applied at base
// resolution; LOQ0 is applied after upscaling, at final resolution.
type LOQ int

const (
	LOQ1 LOQ = iota
	LOQ0
)

// ScalingMode is the per-LOQ upscale dimensionality (spec.md §3).
type ScalingMode int

const (
	Scaling0D ScalingMode = iota // no upscale
	Scaling1D                    // horizontal only
	Scaling2D                    // vertical then horizontal
)

// UpscaleType names the convolution kernel shape (spec.md §3). The
// decoder does not read it: the upscaler takes its taps from
// GlobalConfig.ForwardKernel.
type UpscaleType int

const (
	UpscaleNearest UpscaleType = iota
	UpscaleLinear
	UpscaleCubic
	UpscaleModifiedCubic
)

// TemporalSignal is the per-TU temporal mode (spec.md §3, §4.3).
type TemporalSignal int

const (
	Inter TemporalSignal = iota // additive
	Intra                       // overwrite
)

func (s TemporalSignal) String() string {
	if s == Intra {
		return "Intra"
	}
	return "Inter"
}

// ChromaSubsampling enumerates the three supported subsampling modes.
type ChromaSubsampling int

const (
	Subsampling420 ChromaSubsampling = iota
	Subsampling422
	Subsampling444
)

// DequantOffsetMode selects how the dead-zone offset is derived for
// dequantization (spec.md §3 "Frame configuration").
type DequantOffsetMode int

const (
	DequantOffsetDefault DequantOffsetMode = iota
	DequantOffsetConstOverride
)
