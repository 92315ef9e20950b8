package lcevc

import (
	"github.com/pkg/errors"

	"github.com/lcevc/enhancement-core/internal/cmdbuffer"
	"github.com/lcevc/enhancement-core/internal/decode"
	"github.com/lcevc/enhancement-core/internal/entropy"
	"github.com/lcevc/enhancement-core/internal/surface"
	"github.com/lcevc/enhancement-core/internal/taskpool"
	"github.com/lcevc/enhancement-core/internal/transform"
	"github.com/lcevc/enhancement-core/internal/tu"
	"github.com/lcevc/enhancement-core/internal/upscale"
)

// Picture describes one caller-owned plane buffer for the duration of a
// Decode call (spec.md §6 "Consumed from the base decoder" / "Produced to
// the presentation layer"): a byte buffer, its row stride, and the
// fixed-point type its samples are stored in.
type Picture struct {
	Plane      surface.Plane
	FixedPoint FixedPoint
}

func (p Picture) surfaceFP() surface.FixedPoint { return surface.FixedPoint(p.FixedPoint) }

// Decoder holds everything that persists across frames for one enhancement
// stream: the global configuration and, per plane, the temporal surface and
// the reusable command buffers (spec.md §3 "Lifecycle": "Temporal surfaces
// live from decoder creation to destruction").
type Decoder struct {
	cfg *GlobalConfig
	log Logger

	temporal [MaxPlanes]*surface.Temporal
	cmdBufs  [MaxPlanes][2]*cmdbuffer.Buffer // indexed [plane][LOQ]

	pool      *taskpool.Pool
	frameSeed uint32 // varied per frame to reseed the dither generator
}

// Option configures a Decoder at construction time.
type Option func(*Decoder)

// WithLogger overrides the default no-op Logger.
func WithLogger(l Logger) Option {
	return func(d *Decoder) { d.log = l }
}

// WithWorkers sets the number of goroutines the per-plane task pool uses;
// the default is one worker per plane (spec.md §5 "Decode: one task per
// (plane, LOQ)").
func WithWorkers(n int) Option {
	return func(d *Decoder) { d.pool = taskpool.New(n) }
}

// NewDecoder validates cfg and allocates the per-plane state that persists
// for the lifetime of the stream (spec.md §3 "Lifecycle").
func NewDecoder(cfg *GlobalConfig, opts ...Option) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Decoder{cfg: cfg, log: noopLogger{}, pool: taskpool.New(cfg.NumPlanes)}
	for p := 0; p < cfg.NumPlanes; p++ {
		w, h := cfg.loq0Dims(p)
		d.temporal[p] = surface.NewTemporal(w, h)
		for loq := 0; loq < 2; loq++ {
			d.cmdBufs[p][loq] = cmdbuffer.New(cfg.NumEntryPointsPerTile)
		}
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// loq0Dims returns the final (post-upscale) resolution of plane p, derived
// from the base plane dimensions and that LOQ's scaling mode (spec.md §3
// "LOQ": "LOQ1 residuals are computed first; then the picture is upscaled;
// then LOQ0 residuals are applied").
func (g *GlobalConfig) loq0Dims(p int) (int, int) {
	w, h := g.PlaneWidth[p], g.PlaneHeight[p]
	switch g.PerLOQ[LOQ1].Scaling {
	case Scaling1D:
		w *= 2
	case Scaling2D:
		w *= 2
		h *= 2
	}
	return w, h
}

// DecodeFrame runs the full per-frame pipeline (spec.md §2 data-flow
// diagram) for every configured plane: LOQ1 entropy-decode and apply at
// base resolution, upscale to final resolution, LOQ0 entropy-decode and
// apply against the persisted temporal surface, then compose the output
// picture. base and output must each have cfg.NumPlanes entries.
func (d *Decoder) DecodeFrame(fc *FrameConfig, base, output []Picture) error {
	if len(base) < d.cfg.NumPlanes || len(output) < d.cfg.NumPlanes {
		return NewStatusError(InvalidParam, "expected %d planes, got base=%d output=%d", d.cfg.NumPlanes, len(base), len(output))
	}
	d.frameSeed += 0x9e3779b9

	return d.pool.Run(d.cfg.NumPlanes, func(p int) error {
		if err := d.decodePlane(fc, p, base[p], output[p]); err != nil {
			return errors.Wrapf(err, "decoding plane %d", p)
		}
		return nil
	})
}

func (d *Decoder) decodePlane(fc *FrameConfig, p int, base, output Picture) error {
	isChroma := p > 0
	tuShift := d.cfg.Transform.TUShift()
	baseW, baseH := d.cfg.PlaneWidth[p], d.cfg.PlaneHeight[p]

	intermediate := surface.Plane{
		Data:      make([]byte, baseH*baseW*2),
		RowStride: baseW * 2,
	}
	surface.BlitCopy(intermediate, surface.FPS14, base.Plane, base.surfaceFP(), baseW, baseH)

	if fc.IsIDR && fc.TemporalRefresh {
		d.temporal[p].Clear()
	}

	if fc.LOQEnabled[LOQ1] {
		if err := d.applyLOQ(fc, p, LOQ1, baseW, baseH, 0, 0, isChroma,
			surface.PlaneTarget{Plane: intermediate, FP: surface.FPS14}); err != nil {
			return err
		}
	}

	finalW, finalH := d.cfg.loq0Dims(p)
	upscaled := surface.Plane{Data: make([]byte, finalH*finalW*2), RowStride: finalW * 2}
	d.upscalePlane(fc, intermediate, baseW, baseH, upscaled, finalW, finalH)

	if fc.LOQEnabled[LOQ0] {
		if err := d.applyLOQ(fc, p, LOQ0, finalW, finalH, 0, 0, isChroma,
			surface.TemporalTarget{Surface: d.temporal[p]}); err != nil {
			return err
		}
	}

	d.composeOutput(upscaled, finalW, finalH, d.temporal[p], output)
	return nil
}

// applyLOQ decodes and applies every tile's command buffer for one LOQ of
// one plane (spec.md §4.3, §4.5). Tiles are sequential per plane: the
// entropy decoder and the temporal run-length state are both stateful
// across a tile's TUs (spec.md §5 "Tiles within a plane are sequential").
func (d *Decoder) applyLOQ(fc *FrameConfig, plane int, loq LOQ, width, height, xOff, yOff int, isChroma bool, target surface.Target) error {
	numLayers := d.cfg.Transform.NumLayers()
	tileW, tileH := d.cfg.TileWidth, d.cfg.TileHeight
	if tileW <= 0 {
		tileW = width
	}
	if tileH <= 0 {
		tileH = height
	}
	numTilesX, numTilesY := d.cfg.NumTilesX, d.cfg.NumTilesY
	if numTilesX <= 0 {
		numTilesX = 1
	}
	if numTilesY <= 0 {
		numTilesY = 1
	}

	blockRaster := d.cfg.TemporalEnabled || numTilesX > 1 || numTilesY > 1

	for ty := 0; ty < numTilesY; ty++ {
		for tx := 0; tx < numTilesX; tx++ {
			tileIndex := ty*numTilesX + tx
			ox, oy := xOff+tx*tileW, yOff+ty*tileH
			w, h := tileW, tileH
			if ox+w > xOff+width {
				w = xOff + width - ox
			}
			if oy+h > yOff+height {
				h = yOff + height - oy
			}

			st, err := tu.NewState(w, h, ox, oy, tuShiftFor(d.cfg.Transform))
			if err != nil {
				return errors.Wrapf(err, "building TU state for tile %d", tileIndex)
			}

			decoders := make([]*entropy.Decoder, numLayers)
			for layer := 0; layer < numLayers; layer++ {
				c := fc.ChunkFor(loq, tileIndex, layer)
				if c == nil || !c.EntropyEnabled {
					continue
				}
				decoders[layer] = entropy.Initialize(c.Data, c.RLEOnly, entropy.KindDefault, 0)
			}

			var temporalDecoder *entropy.Decoder
			applyTemporal := d.cfg.TemporalEnabled && loq == LOQ0
			if applyTemporal {
				if tc := fc.TemporalChunkFor(tileIndex); tc != nil && tc.EntropyEnabled {
					temporalDecoder = entropy.Initialize(tc.Data, tc.RLEOnly, entropy.KindTemporal, 0)
				} else {
					applyTemporal = false
				}
			}

			sw := fc.StepWidths[loq]
			dequantInter := make([]transform.DequantParams, numLayers)
			dequantIntra := make([]transform.DequantParams, numLayers)
			for layer := 0; layer < numLayers; layer++ {
				matrix := fc.QuantizationMatrix[loq][layer]
				offset := fc.DequantOffsetConst
				if fc.DequantOffsetMode != DequantOffsetConstOverride {
					offset = sw.InterOffset[layer]
				}
				dequantInter[layer] = transform.ResolveDequantParams(sw.Inter[layer], offset, matrix, isChroma, d.cfg.ChromaStepWidthMultiplier)
				intraOffset := fc.DequantOffsetConst
				if fc.DequantOffsetMode != DequantOffsetConstOverride {
					intraOffset = sw.IntraOffset[layer]
				}
				dequantIntra[layer] = transform.ResolveDequantParams(sw.Intra[layer], intraOffset, matrix, isChroma, d.cfg.ChromaStepWidthMultiplier)
			}

			params := &decode.Params{
				TU:                 st,
				IsDDS:              d.cfg.Transform == TransformDDS,
				TUShift:            tuShiftFor(d.cfg.Transform),
				LayerDecoders:      decoders,
				TemporalDecoder:    temporalDecoder,
				ApplyTemporal:      applyTemporal,
				ReducedSignalling:  d.cfg.TemporalReducedSignalling,
				BlockRaster:        blockRaster,
				DequantInter:       dequantInter,
				DequantIntra:       dequantIntra,
				IsLOQ1:             loq == LOQ1,
				DeblockEnabled:     loq == LOQ1 && fc.DeblockEnabled && d.cfg.Transform == TransformDDS,
				DeblockCorner:      d.cfg.Deblock.Corner,
				DeblockSide:        d.cfg.Deblock.Side,
				SharpenEnabled:     loq == LOQ1 && fc.SharpenEnabled,
				SharpenStrength:    fc.SharpenStrength,
				UserDataEnabled:    fc.UserDataEnabled,
				UserDataLayerIndex: fc.UserDataLayerIndex,
				EntryPointStride:   entryPointStride(st.TUTotal(), d.cfg.NumEntryPointsPerTile),
			}

			cb := d.cmdBufs[plane][loq]
			cb.Reset(d.cfg.Transform.NumCoefficients())
			if err := decode.Run(params, cb); err != nil {
				d.log.Log(LogError, "tile decode failed", "plane", plane, "loq", loq, "tile", tileIndex, "err", err)
				return errors.Wrapf(err, "running decode loop for tile %d", tileIndex)
			}

			if err := d.applyTile(st, cb, target, blockRaster); err != nil {
				return errors.Wrapf(err, "applying command buffer for tile %d", tileIndex)
			}

			for _, dec := range decoders {
				if dec != nil {
					dec.Release()
				}
			}
			if temporalDecoder != nil {
				temporalDecoder.Release()
			}
		}
	}
	return nil
}

// applyTile runs the applicator across every entry point of cb, one slice
// per entry point (spec.md §5 "Apply: one slice per command-buffer entry
// point"). A buffer with no entry points is treated as a single segment
// covering the whole stream.
func (d *Decoder) applyTile(st *tu.State, cb *cmdbuffer.Buffer, target surface.Target, blockRaster bool) error {
	if cb.IsEmpty() {
		return nil
	}
	eps := cb.EntryPoints()
	if len(eps) == 0 {
		return surface.Apply(st, cb, nil, target, cb.TransformSize(), blockRaster, false)
	}
	return d.pool.Run(len(eps), func(i int) error {
		ep := eps[i]
		return surface.Apply(st, cb, &ep, target, cb.TransformSize(), blockRaster, false)
	})
}

func tuShiftFor(t TransformType) uint { return t.TUShift() }

// entryPointStride converts a target entry-point count into the "split
// every N commands" stride decode.Params.EntryPointStride expects.
func entryPointStride(tuTotal, numEntryPoints int) int {
	if numEntryPoints <= 1 || tuTotal == 0 {
		return 0
	}
	stride := tuTotal / numEntryPoints
	if stride <= 0 {
		stride = 1
	}
	return stride
}

// upscalePlane runs the configured convolution upscaler from (srcW, srcH)
// up to (dstW, dstH), per LOQ1's scaling mode (spec.md §4.6, §3 "LOQ").
// Scaling0D leaves the plane unchanged (copy), Scaling1D runs the
// horizontal pass only, Scaling2D runs vertical then horizontal, matching
// the data-flow diagram's ordering.
//
// Predicted-average correction is applied according to the dimensionality
// in effect (spec.md §4.6 "PA is disabled, 1D, or 2D according to the
// combination (predictedAverageEnabled, 2Dpass)"): the 1D pass folds its
// correction inline per row, but the 2D pass first produces the
// uncorrected 2x-by-2x block, then corrects all four descendants of each
// source sample at once against the pre-upscale base (fixing a prior
// revision's two independent 1D corrections, which did not reproduce
// spec.md's single four-sample average). Dithering runs last, after any PA
// correction, per sample (spec.md §4.6 "Dithering").
func (d *Decoder) upscalePlane(fc *FrameConfig, src surface.Plane, srcW, srcH int, dst surface.Plane, dstW, dstH int) {
	k := upscale.Kernel{Fwd: d.cfg.ForwardKernel.Fwd, Rev: d.cfg.ForwardKernel.Rev}
	if k.Len() == 0 {
		k = upscale.NearestKernel()
	}
	pa := d.cfg.PredictedAverageEnabled

	var dither *upscale.Dither
	if fc.DitherEnabled {
		dither = upscale.NewDither(fc.DitherStrength, d.frameSeed)
	}

	switch d.cfg.PerLOQ[LOQ1].Scaling {
	case Scaling0D:
		surface.BlitCopy(dst, surface.FPS14, src, surface.FPS14, srcW, srcH)
	case Scaling1D:
		upscale.UpscaleHorizontalPlane(src, surface.FPS14, dst, surface.FPS14, srcW, srcH, upscale.Channel{Stride: 1, Offset: 0}, k, pa, dither)
	case Scaling2D:
		vertMid := surface.Plane{Data: make([]byte, srcW*dstH*2), RowStride: srcW * 2}
		upscale.UpscaleVerticalPlane(src, surface.FPS14, vertMid, surface.FPS14, srcW, srcH, k, false, nil)
		upscale.UpscaleHorizontalPlane(vertMid, surface.FPS14, dst, surface.FPS14, srcW, dstH, upscale.Channel{Stride: 1, Offset: 0}, k, false, nil)
		if pa {
			upscale.ApplyPA2DPlane(src, surface.FPS14, dst, surface.FPS14, srcW, srcH)
		}
		upscale.DitherPlane(dst, surface.FPS14, dstW, dstH, dither)
	}
}

// composeOutput adds the persisted temporal residual onto the upscaled
// picture and writes the result into the caller's output plane, converting
// to its fixed-point type (spec.md §3 "Temporal surface": "read when
// composing the final picture").
func (d *Decoder) composeOutput(upscaled surface.Plane, width, height int, temporal *surface.Temporal, output Picture) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := surface.SatAdd16(upscaled.ReadSigned(surface.FPS14, x, y), temporal.Get(x, y))
			output.Plane.WriteSigned(output.surfaceFP(), x, y, v)
		}
	}
}
