// lcevc-harness is a minimal test harness exercising the decoder end to
// end against the BIN/raw-YUV file conventions spec.md §6 describes for
// test-harness boundaries. It does not parse an LCEVC bitstream into
// chunks (spec.md's Non-goals exclude bitstream parsing from the core);
// it reads plain raw YUV frames, runs them through the decoder with every
// chunk absent, and writes the upscaled result, which is enough to drive
// the full plumbing — TU geometry, the applicator, and the upscaler — on
// a real picture buffer.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	lcevc "github.com/lcevc/enhancement-core"
	"github.com/lcevc/enhancement-core/internal/surface"
)

// Logging configuration, following ausocean-av/cmd/rv's constants-block
// convention for lumberjack's rotation parameters.
const (
	logPath      = "lcevc-harness.log"
	logMaxSizeMB = 100
	logMaxBackup = 5
	logMaxAgeDay = 28
)

// binRecordHeader is one record of a BIN enhancement file (spec.md §6):
// decodeIndex, presentationIndex (both i64) and a u32 payload size,
// little-endian, followed by the payload itself.
type binRecordHeader struct {
	DecodeIndex       int64
	PresentationIndex int64
	PayloadSize       uint32
}

func main() {
	yuvPath := flag.String("yuv", "", "path to a raw 8-bit planar Y YUV base file")
	outPath := flag.String("out", "out.yuv", "path to write the upscaled Y plane")
	width := flag.Int("width", 0, "base plane width (must be a multiple of the TU size)")
	height := flag.Int("height", 0, "base plane height (must be a multiple of the TU size)")
	binPath := flag.String("bin", "", "optional BIN enhancement file (record headers only; chunk payloads are not parsed by this harness)")
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAgeDay,
	}
	zlog, err := newRotatingLogger(fileLog)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lcevc-harness: could not start logger:", err)
		os.Exit(1)
	}
	log := lcevc.NewZapLoggerFrom(zlog)
	log.SetLevel(lcevc.LogInfo)

	if *yuvPath == "" || *width <= 0 || *height <= 0 {
		fmt.Fprintln(os.Stderr, "usage: lcevc-harness -yuv <file> -width <w> -height <h> [-bin <file>] [-out <file>]")
		os.Exit(2)
	}

	if *binPath != "" {
		n, err := countBinRecords(*binPath)
		if err != nil {
			log.Log(lcevc.LogWarning, "could not read BIN file", "path", *binPath, "err", err)
		} else {
			log.Log(lcevc.LogInfo, "BIN file contains records (payloads unparsed by this harness)", "path", *binPath, "records", n)
		}
	}

	if err := run(*yuvPath, *outPath, *width, *height, log); err != nil {
		log.Log(lcevc.LogFatal, "decode failed", "err", err)
		os.Exit(1)
	}
	log.Log(lcevc.LogInfo, "decode complete", "out", *outPath)
}

func run(yuvPath, outPath string, width, height int, log lcevc.Logger) error {
	base, err := os.ReadFile(yuvPath)
	if err != nil {
		return fmt.Errorf("reading base YUV: %w", err)
	}
	if len(base) < width*height {
		return fmt.Errorf("base file shorter than one %dx%d frame", width, height)
	}

	cfg := &lcevc.GlobalConfig{
		BaseBitDepth:      8,
		EnhancedBitDepth:  8,
		ChromaSubsampling: lcevc.Subsampling420,
		PlaneWidth:        [lcevc.MaxPlanes]int{width},
		PlaneHeight:       [lcevc.MaxPlanes]int{height},
		NumPlanes:         1,
		UpscaleType:       lcevc.UpscaleNearest,
		PerLOQ: [2]lcevc.PerLOQConfig{
			{Scaling: lcevc.Scaling2D},
			{Scaling: lcevc.Scaling0D},
		},
		Transform:     lcevc.TransformDD,
		ForwardKernel: lcevc.Kernel{Fwd: []int16{1 << 14, 0}, Rev: []int16{0, 1 << 14}},
	}

	d, err := lcevc.NewDecoder(cfg, lcevc.WithLogger(log))
	if err != nil {
		return fmt.Errorf("constructing decoder: %w", err)
	}

	basePic := lcevc.Picture{
		Plane:      surface.Plane{Data: base[:width*height], RowStride: width},
		FixedPoint: lcevc.FPU8,
	}
	outW, outH := width*2, height*2
	outBuf := make([]byte, outW*outH)
	outPic := lcevc.Picture{
		Plane:      surface.Plane{Data: outBuf, RowStride: outW},
		FixedPoint: lcevc.FPU8,
	}

	fc := &lcevc.FrameConfig{
		IsIDR:           true,
		TemporalRefresh: true,
		LOQEnabled:      [2]bool{false, false},
	}

	if err := d.DecodeFrame(fc, []lcevc.Picture{basePic}, []lcevc.Picture{outPic}); err != nil {
		return fmt.Errorf("decoding frame: %w", err)
	}

	return os.WriteFile(outPath, outBuf, 0o644)
}

func countBinRecords(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var n int
	var hdr binRecordHeader
	for {
		if err := binary.Read(f, binary.LittleEndian, &hdr.DecodeIndex); err != nil {
			if err == io.EOF {
				return n, nil
			}
			return n, err
		}
		if err := binary.Read(f, binary.LittleEndian, &hdr.PresentationIndex); err != nil {
			return n, err
		}
		if err := binary.Read(f, binary.LittleEndian, &hdr.PayloadSize); err != nil {
			return n, err
		}
		if _, err := f.Seek(int64(hdr.PayloadSize), io.SeekCurrent); err != nil {
			return n, err
		}
		n++
	}
}

// newRotatingLogger builds a zap logger whose core writes JSON log entries
// through w (a lumberjack.Logger performing rotation), following the rv
// harness's pattern of handing zap/lumberjack a writer rather than a path.
func newRotatingLogger(w io.Writer) (*zap.Logger, error) {
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zapcore.InfoLevel)
	return zap.New(core), nil
}
