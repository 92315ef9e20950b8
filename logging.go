package lcevc

import "go.uber.org/zap"

// Logger is the logging interface the decoder calls into. Its shape mirrors
// ausocean-av's revid.Logger: a settable level plus a single variadic Log
// method, so callers can plug in whatever structured logger they already
// run (zap, or anything else satisfying this small interface).
type Logger interface {
	SetLevel(level int8)
	Log(level int8, message string, params ...interface{})
}

// Log levels, matching ausocean-av's convention of small integer severities
// rather than named constants per package.
const (
	LogDebug int8 = iota
	LogInfo
	LogWarning
	LogError
	LogFatal
)

// zapLogger adapts a *zap.SugaredLogger to the Logger interface.
type zapLogger struct {
	level int8
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a Logger backed by zap's default production config.
func NewZapLogger() (Logger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &zapLogger{sugar: l.Sugar()}, nil
}

// NewZapLoggerFrom adapts an already-constructed zap logger, e.g. one the
// caller built with a lumberjack-backed WriteSyncer for log rotation.
func NewZapLoggerFrom(l *zap.Logger) Logger {
	return &zapLogger{sugar: l.Sugar()}
}

func (z *zapLogger) SetLevel(level int8) { z.level = level }

func (z *zapLogger) Log(level int8, message string, params ...interface{}) {
	if level < z.level {
		return
	}
	switch {
	case level >= LogFatal:
		z.sugar.Errorw(message, params...)
	case level >= LogError:
		z.sugar.Errorw(message, params...)
	case level >= LogWarning:
		z.sugar.Warnw(message, params...)
	case level >= LogInfo:
		z.sugar.Infow(message, params...)
	default:
		z.sugar.Debugw(message, params...)
	}
}

// noopLogger discards everything; used as the decoder's default so callers
// aren't forced to configure zap just to construct a Decoder.
type noopLogger struct{}

func (noopLogger) SetLevel(int8)                            {}
func (noopLogger) Log(int8, string, ...interface{})         {}

var _ Logger = noopLogger{}
var _ Logger = (*zapLogger)(nil)
