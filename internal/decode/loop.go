// Package decode implements the per-(tile, LOQ, plane) decode loop driver
// (spec.md §4.3): the temporal/block-clear state machine that turns
// entropy-decoded coefficient runs into a command-buffer stream.
//
// It depends only on the leaf packages (internal/tu, internal/entropy,
// internal/transform, internal/cmdbuffer) and never on the root package,
// per the "Mutually-recursive module references" design note: Params is
// built by the root orchestrator from GlobalConfig/FrameConfig, keeping
// the dependency edge one-directional.
package decode

import (
	"github.com/pkg/errors"

	"github.com/lcevc/enhancement-core/internal/cmdbuffer"
	"github.com/lcevc/enhancement-core/internal/entropy"
	"github.com/lcevc/enhancement-core/internal/transform"
	"github.com/lcevc/enhancement-core/internal/tu"
)

// Params bundles everything one Run call needs, already resolved by the
// root orchestrator for a specific (tile, LOQ, plane) combination.
type Params struct {
	TU      *tu.State
	IsDDS   bool // selects InverseDDS (16 coeffs) vs InverseDD (4 coeffs)
	TUShift uint

	// LayerDecoders has one entry per entropy layer (4 for DD, 16 for
	// DDS); a nil entry means that layer's chunk was absent, decoded as
	// an implicit all-zero run for the whole plane.
	LayerDecoders []*entropy.Decoder

	// TemporalDecoder is nil unless temporal is enabled and this is the
	// LOQ0 pass (spec.md §4.3: "if temporalChunk present and LOQ == 0").
	TemporalDecoder *entropy.Decoder

	ApplyTemporal     bool // TemporalDecoder != nil, gated by enable flags
	ReducedSignalling bool

	// BlockRaster selects block-raster / block-aligned coordinates (used
	// whenever temporal or tiling is active) versus plain surface-raster
	// (spec.md §3 "TU ... Traversal is block-raster ... When temporal and
	// tiling are both disabled, surface-raster order is used instead").
	BlockRaster bool

	DequantInter []transform.DequantParams // len NumLayers
	DequantIntra []transform.DequantParams

	IsLOQ1          bool
	DeblockEnabled  bool
	DeblockCorner   uint8
	DeblockSide     uint8
	SharpenEnabled  bool
	SharpenStrength uint8

	UserDataEnabled    bool
	UserDataLayerIndex int
	// UserDataNext, when non-nil, supplies one bit at a time to splice
	// into the low bit of the user-data layer's coefficient (SPEC_FULL.md
	// resolves the under-specified "apply user-data strip" step this
	// way: spec.md names the hook but never the bit format).
	UserDataNext func() (bit int, ok bool)

	// EntryPointStride, if > 0, calls cb.Split after every N emitted
	// commands, producing the parallelizable entry points spec.md §3 and
	// §5 describe. Zero means no splitting: the applicator treats the
	// whole buffer as one synthetic segment.
	EntryPointStride int
}

// Run executes the decode loop described by spec.md §4.3's pseudocode,
// writing ADD/SET/SETZERO/CLEAR commands to cb. cb must already have been
// Reset with the correct transform size by the caller.
func Run(p *Params, cb *cmdbuffer.Buffer) error {
	numLayers := len(p.LayerDecoders)
	tuTotal := p.TU.TUTotal()

	layerRun := make([]int32, numLayers)
	coeff := make([]int16, numLayers)
	coeffWide := make([]int32, numLayers)

	transformLen := 4
	if p.IsDDS {
		transformLen = 16
	}
	residual := make([]int32, transformLen)
	residual16 := make([]int16, transformLen)

	temporal := entropy.SignalInter
	var temporalRun int32
	tuIndex := 0
	lastIdx := 0
	clearBlockQueue := 0
	emittedSinceSplit := 0
	blockStartIdx := 0 // tuIndex of the start of the block currently being traversed

	for tuIndex < tuTotal {
		minZero := int32(1<<31 - 1)
		for i := 0; i < numLayers; i++ {
			switch {
			case layerRun[i] > 0:
				layerRun[i]--
				coeff[i] = 0
			case p.LayerDecoders[i] != nil:
				c, run, err := p.LayerDecoders[i].Decode()
				if err == entropy.ErrNoData {
					c, run = 0, int32(tuTotal-tuIndex-1)
				} else if err != nil {
					return errors.Wrapf(err, "decoding layer %d at tu %d", i, tuIndex)
				}
				coeff[i], layerRun[i] = c, run
			default:
				coeff[i] = 0
				layerRun[i] = int32(tuTotal - 1)
			}
			if layerRun[i] < minZero {
				minZero = layerRun[i]
			}
		}

		if p.UserDataEnabled && p.IsLOQ1 && p.UserDataNext != nil && p.UserDataLayerIndex < numLayers {
			if bit, ok := p.UserDataNext(); ok {
				idx := p.UserDataLayerIndex
				coeff[idx] = (coeff[idx] &^ 1) | int16(bit&1)
			}
		}

		blockStart, err := p.TU.IsBlockStart(tuIndex)
		if err != nil {
			return errors.Wrap(err, "checking block start")
		}
		if blockStart {
			blockStartIdx = tuIndex
		}

		if p.TemporalDecoder != nil && p.ApplyTemporal && clearBlockQueue == 0 {
			if temporalRun <= 0 {
				sig, run, terr := p.TemporalDecoder.DecodeTemporal()
				if terr == entropy.ErrNoData {
					sig, run = entropy.SignalInter, int32(tuTotal-tuIndex)
				} else if terr != nil {
					return errors.Wrap(terr, "decoding temporal signal")
				}
				temporal, temporalRun = sig, run
			}
			temporalRun--
			if blockStart && temporal == entropy.SignalIntra && p.ReducedSignalling {
				numBlocks := temporalRun + 1
				clearBlockQueue = int(numBlocks)
				var tuSum int32
				probe := tuIndex
				for b := int32(0); b < numBlocks; b++ {
					cnt, cerr := p.TU.CoordsBlockTuCount(probe)
					if cerr != nil {
						return errors.Wrap(cerr, "counting reduced-signalling block run")
					}
					tuSum += int32(cnt)
					probe += cnt
				}
				temporalRun = tuSum - 1
			}
		}

		clearedBlock := false
		if blockStart && clearBlockQueue > 0 {
			idx, ierr := p.blockAlignedIndex(tuIndex)
			if ierr != nil {
				return ierr
			}
			if aerr := cb.Append(cmdbuffer.CmdCLEAR, nil, idx-lastIdx); aerr != nil {
				return errors.Wrap(aerr, "appending CLEAR")
			}
			lastIdx = idx
			clearBlockQueue--
			clearedBlock = true
			emittedSinceSplit++
		}

		nonzero := false
		for _, c := range coeff {
			if c != 0 {
				nonzero = true
				break
			}
		}

		if nonzero || (!clearedBlock && (!p.ApplyTemporal || temporal == entropy.SignalIntra)) {
			if nonzero {
				dp := p.DequantInter
				if temporal == entropy.SignalIntra {
					dp = p.DequantIntra
				}
				for i := range coeff {
					coeffWide[i] = int32(transform.Dequantize(coeff[i], dp[i]))
				}
				if p.IsDDS {
					var in, out [16]int32
					copy(in[:], coeffWide)
					transform.InverseDDS(in, &out)
					if p.IsLOQ1 && p.DeblockEnabled {
						transform.ApplyDeblock(&out, p.DeblockCorner, p.DeblockSide)
					}
					copy(residual, out[:])
				} else {
					var in, out [4]int32
					copy(in[:], coeffWide)
					transform.InverseDD(in, &out)
					copy(residual, out[:])
				}
				if p.IsLOQ1 && p.SharpenEnabled {
					transform.ApplySharpen(residual, p.TUShift, p.SharpenStrength)
				}
				for i, v := range residual {
					residual16[i] = transform.Sat16(v)
				}
			} else {
				for i := range residual16 {
					residual16[i] = 0
				}
			}

			cmd := cmdbuffer.CmdADD
			switch {
			case !nonzero && temporal == entropy.SignalIntra:
				cmd = cmdbuffer.CmdSETZERO
			case !p.IsLOQ1 && (temporal == entropy.SignalIntra || clearedBlock):
				cmd = cmdbuffer.CmdSET
			}

			idx, ierr := p.blockAlignedIndex(tuIndex)
			if ierr != nil {
				return ierr
			}
			var payload []int16
			if cmd == cmdbuffer.CmdADD || cmd == cmdbuffer.CmdSET {
				payload = residual16
			}
			if aerr := cb.Append(cmd, payload, idx-lastIdx); aerr != nil {
				return errors.Wrap(aerr, "appending residual command")
			}
			lastIdx = idx
			emittedSinceSplit++
		}

		advance := minZero
		switch {
		case clearedBlock:
			cnt, cerr := p.TU.CoordsBlockTuCount(tuIndex)
			if cerr != nil {
				return errors.Wrap(cerr, "counting cleared block")
			}
			if v := int32(cnt - 1); v < advance {
				advance = v
			}
			if p.ApplyTemporal {
				temporalRun--
			}
		case clearBlockQueue > 0:
			// Fast-forward to the end of the block already entered (it was
			// cleared on a prior iteration); the remaining distance is the
			// block's TU count minus how far into it tuIndex already is,
			// not the block's full TU count (spec.md §4.3 "clearBlockQueue
			// > 0: advance to next block start").
			cnt, cerr := p.TU.CoordsBlockTuCount(tuIndex)
			if cerr != nil {
				return errors.Wrap(cerr, "counting queued block")
			}
			remaining := cnt - (tuIndex - blockStartIdx)
			if v := int32(remaining - 1); v < advance {
				advance = v
			}
		case p.ApplyTemporal && temporal == entropy.SignalIntra:
			advance = 0
		case p.ApplyTemporal:
			if temporalRun < advance {
				advance = temporalRun
			}
		}

		tuIndex += int(advance) + 1
		for i := range layerRun {
			layerRun[i] -= advance
		}
		if p.ApplyTemporal {
			temporalRun -= advance
		}

		if p.EntryPointStride > 0 && emittedSinceSplit >= p.EntryPointStride && tuIndex < tuTotal {
			cb.Split(lastIdx)
			emittedSinceSplit = 0
		}
	}

	// Finalize the trailing segment so it becomes its own entry point too;
	// without this, the commands emitted after the last mid-loop Split
	// would never be recorded in cb.EntryPoints() and the applicator would
	// silently skip them when replaying per entry point (spec.md §4.4
	// "split() finalizes the current entry point").
	if p.EntryPointStride > 0 {
		cb.Split(lastIdx)
	}
	return nil
}

// blockAlignedIndex maps the current traversal tuIndex to the address
// space the command buffer uses for jump arithmetic: block-aligned indices
// when BlockRaster is set (temporal or tiling active), otherwise the plain
// surface-raster index (spec.md §4.2, §4.5).
func (p *Params) blockAlignedIndex(tuIndex int) (int, error) {
	if !p.BlockRaster {
		return tuIndex, nil
	}
	x, y, err := p.TU.CoordsBlockRaster(tuIndex)
	if err != nil {
		return 0, errors.Wrap(err, "mapping tu index to block-raster coordinates")
	}
	idx, err := p.TU.CoordsBlockAlignedIndex(x, y)
	if err != nil {
		return 0, errors.Wrap(err, "mapping block-raster coordinates to aligned index")
	}
	return idx, nil
}
