package lcevc

import "github.com/pkg/errors"

// Chunk is a tagged byte range representing one entropy-coded layer for one
// tile, decoded lazily by the entropy decoder (spec.md §3 "Chunk").
type Chunk struct {
	RLEOnly        bool
	EntropyEnabled bool
	Size           uint32
	Data           []byte
}

// Kernel holds the forward/reverse phase coefficients for one upscale
// filter (spec.md §3, §4.6). Length is 2, 4, 6 or 8.
type Kernel struct {
	Type UpscaleType
	Fwd  []int16
	Rev  []int16
}

// Len returns the kernel tap count.
func (k Kernel) Len() int { return len(k.Fwd) }

// DeblockStrength carries the corner/side multipliers applied during LOQ1
// DDS deblocking (spec.md §4.3, SPEC_FULL.md §4.2). Both are in 0..16.
type DeblockStrength struct {
	Corner uint8
	Side   uint8
}

// PerLOQConfig holds the subset of GlobalConfig that varies independently
// for LOQ0 and LOQ1.
type PerLOQConfig struct {
	Scaling ScalingMode
}

// GlobalConfig is stable across a GOP (spec.md §3 "Global configuration").
type GlobalConfig struct {
	BaseBitDepth       int
	EnhancedBitDepth   int
	ChromaSubsampling  ChromaSubsampling
	PlaneWidth         [MaxPlanes]int
	PlaneHeight        [MaxPlanes]int
	NumPlanes          int

	UpscaleType   UpscaleType
	PerLOQ        [2]PerLOQConfig // indexed by LOQ
	NumEntryPointsPerTile int

	TemporalEnabled          bool
	PredictedAverageEnabled  bool
	TemporalReducedSignalling bool

	Transform TransformType

	ChromaStepWidthMultiplier float64

	ForwardKernel Kernel
	ReverseKernel Kernel // not read by the decoder; the reverse phase comes from ForwardKernel.Rev

	Deblock DeblockStrength

	TileWidth, TileHeight int
	NumTilesX, NumTilesY  int

	// HDRMetadata is carried opaquely and never interpreted by the core
	// (spec.md "Non-goals": it does not cover HDR metadata transport
	// beyond passing it through).
	HDRMetadata []byte
}

// MaxPlanes bounds the plane arrays above: up to 3 color planes (Y, U, V)
// are supported; a 4th slot would be needed for alpha, which this core does
// not process.
const MaxPlanes = 3

// Validate checks the structural invariants the decode/upscale setup path
// must enforce before any side effect (spec.md §7 "Configuration
// inconsistency").
func (g *GlobalConfig) Validate() error {
	if g.NumPlanes < 1 || g.NumPlanes > MaxPlanes {
		return errors.Wrapf(NewStatusError(InvalidParam, "numPlanes %d out of range", g.NumPlanes), "validating global config")
	}
	shift := g.Transform.TUShift()
	for p := 0; p < g.NumPlanes; p++ {
		w, h := g.PlaneWidth[p], g.PlaneHeight[p]
		if w <= 0 || h <= 0 {
			return errors.Wrapf(NewStatusError(InvalidParam, "plane %d has non-positive dimensions", p), "validating global config")
		}
		if w%(1<<shift) != 0 || h%(1<<shift) != 0 {
			return errors.Wrapf(NewStatusError(InvalidParam, "plane %d dimensions %dx%d not a multiple of the TU size", p, w, h), "validating global config")
		}
	}
	if l := g.ForwardKernel.Len(); l != 0 && l != 2 && l != 4 && l != 6 && l != 8 {
		return errors.Wrapf(NewStatusError(InvalidParam, "unsupported kernel length %d", l), "validating global config")
	}
	return nil
}

// StepWidths holds the per-(temporal,layer) dequantization parameters
// derived for one LOQ of one frame (spec.md §4.3 "Dequantization").
type StepWidths struct {
	// Inter[i] / Intra[i] are the multiplicative step width for layer i
	// under each temporal signal.
	Inter [16]int32
	Intra [16]int32
	// InterOffset / IntraOffset are the dead-zone offsets added with the
	// sign of the coefficient.
	InterOffset [16]int32
	IntraOffset [16]int32
}

// FrameConfig is per Access Unit (spec.md §3 "Frame configuration").
type FrameConfig struct {
	IsIDR          bool
	TemporalRefresh bool
	FieldType      int // 0 = frame, 1/2 = interlaced fields

	LOQEnabled [2]bool

	QuantizationMatrix [2][16]int32 // per-LOQ, per-layer multiplier applied ahead of step width
	StepWidths         [2]StepWidths
	DequantOffsetMode  DequantOffsetMode
	DequantOffsetConst int32

	DeblockEnabled bool
	DitherEnabled  bool
	DitherStrength uint8 // 0..15
	SharpenEnabled bool
	SharpenStrength uint8 // 0..15

	UserDataEnabled    bool
	UserDataLayerIndex int

	// Chunks[loq][tile][layer] for residual layers, plus an optional
	// TemporalChunks[tile] for LOQ0 (spec.md §3 "Frame configuration").
	Chunks         [2][][]*Chunk
	TemporalChunks []*Chunk
}

// ChunkFor returns the chunk for (loq, tile, layer), or nil if absent.
func (f *FrameConfig) ChunkFor(loq LOQ, tile, layer int) *Chunk {
	if int(loq) >= len(f.Chunks) || tile >= len(f.Chunks[loq]) {
		return nil
	}
	layers := f.Chunks[loq][tile]
	if layer >= len(layers) {
		return nil
	}
	return layers[layer]
}

// TemporalChunkFor returns the temporal chunk for a tile, or nil.
func (f *FrameConfig) TemporalChunkFor(tile int) *Chunk {
	if tile >= len(f.TemporalChunks) {
		return nil
	}
	return f.TemporalChunks[tile]
}
