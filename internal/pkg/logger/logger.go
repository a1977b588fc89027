package logger

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var levelColors = map[zapcore.Level]string{
	zapcore.DebugLevel: "\033[36m",
	zapcore.InfoLevel:  "\033[32m",
	zapcore.WarnLevel:  "\033[33m",
	zapcore.ErrorLevel: "\033[31m",
	zapcore.FatalLevel: "\033[35m",
}

const resetColor = "\033[0m"

// New builds the process logger. Development gets a colored console encoder
// with short timestamps, everything else gets JSON.
func New(level, environment string) *zap.Logger {
	return NewWithSink(level, environment, zapcore.AddSync(os.Stdout))
}

// NewWithSink is New writing to an arbitrary sink
func NewWithSink(level, environment string, sink zapcore.WriteSyncer) *zap.Logger {
	var encoder zapcore.Encoder
	if strings.EqualFold(environment, "production") {
		encoder = zapcore.NewJSONEncoder(productionEncoderConfig())
	} else {
		encoder = zapcore.NewConsoleEncoder(consoleEncoderConfig())
	}

	core := zapcore.NewCore(encoder, sink, ParseLevel(level))
	return zap.New(core, zap.Fields(zap.String("service", "ratio-ai")))
}

// ParseLevel maps a config string to a zap level, defaulting to info
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    shortLevelEncoder,
		EncodeTime:     shortTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

func productionEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	return cfg
}

func shortTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05.000"))
}

// shortLevelEncoder prints fixed-width, colored level tags
func shortLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	tag := strings.ToUpper(l.String())
	switch l {
	case zapcore.DebugLevel:
		tag = "DBG"
	case zapcore.InfoLevel:
		tag = "INF"
	case zapcore.WarnLevel:
		tag = "WRN"
	case zapcore.ErrorLevel:
		tag = "ERR"
	case zapcore.FatalLevel:
		tag = "FAT"
	}
	enc.AppendString(levelColors[l] + tag + resetColor)
}
