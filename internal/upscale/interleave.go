package upscale

// Interleave selects the pixel layout of a row the horizontal pass reads
// from (spec.md §4.6: "channel skip and channel-map tables select pixel
// stride within a row"). Each mode is expressed as a set of Channels; for
// YUYV/UYVY the two luma slots share one channel advanced by one sample
// per output pixel, exactly the "same channel advanced by one" case spec.md
// calls out.
type Interleave int

const (
	InterleavePlanar Interleave = iota
	InterleaveNV12
	InterleaveYUYV
	InterleaveUYVY
	InterleaveRGB
	InterleaveRGBA
)

// Channel describes one logical sample stream within an interleaved row:
// samples for this channel sit at byte positions
// (Offset + i*Stride) * sampleSize for i = 0, 1, 2, ...
type Channel struct {
	Stride int
	Offset int
}

// Channels returns the channel descriptors for mode, in the order the
// original format lists its components.
func Channels(mode Interleave) []Channel {
	switch mode {
	case InterleavePlanar:
		return []Channel{{Stride: 1, Offset: 0}}
	case InterleaveNV12:
		// One luma plane (handled as Planar) plus this interleaved
		// chroma pair: U then V, half the horizontal sample rate.
		return []Channel{{Stride: 2, Offset: 0}, {Stride: 2, Offset: 1}}
	case InterleaveYUYV:
		// Y0 U Y1 V: luma at full rate via stride 2, chroma at half rate
		// via stride 4.
		return []Channel{{Stride: 2, Offset: 0}, {Stride: 4, Offset: 1}, {Stride: 4, Offset: 3}}
	case InterleaveUYVY:
		// U Y0 V Y1: same strides, luma offset by one.
		return []Channel{{Stride: 2, Offset: 1}, {Stride: 4, Offset: 0}, {Stride: 4, Offset: 2}}
	case InterleaveRGB:
		return []Channel{{Stride: 3, Offset: 0}, {Stride: 3, Offset: 1}, {Stride: 3, Offset: 2}}
	case InterleaveRGBA:
		return []Channel{{Stride: 4, Offset: 0}, {Stride: 4, Offset: 1}, {Stride: 4, Offset: 2}, {Stride: 4, Offset: 3}}
	default:
		return nil
	}
}

// SamplesInRow returns how many channel samples a row of width pixels
// contains for this channel (half rate for subsampled chroma channels).
func (c Channel) SamplesInRow(width int) int {
	n := (width - c.Offset + c.Stride - 1) / c.Stride
	if n < 0 {
		return 0
	}
	return n
}
