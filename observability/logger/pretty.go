package logger

import (
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//nolint:gochecknoglobals // static palette shared by all pretty encoders
var levelColors = map[zapcore.Level]*color.Color{
	zapcore.DebugLevel:  color.New(color.FgHiBlue),
	zapcore.InfoLevel:   color.New(color.FgGreen),
	zapcore.WarnLevel:   color.New(color.FgYellow),
	zapcore.ErrorLevel:  color.New(color.FgRed),
	zapcore.DPanicLevel: color.New(color.FgHiRed, color.Bold),
	zapcore.PanicLevel:  color.New(color.FgHiRed, color.Bold),
	zapcore.FatalLevel:  color.New(color.FgMagenta, color.Bold),
}

// newPrettyLogger builds a console logger with colored levels and names.
func newPrettyLogger(cfg *zap.Config) *zap.Logger {
	encCfg := cfg.EncoderConfig
	encCfg.EncodeLevel = colorLevelEncoder
	encCfg.EncodeName = colorNameEncoder
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	encCfg.ConsoleSeparator = "  "

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(os.Stdout),
		cfg.Level,
	)
	return zap.New(core, zap.ErrorOutput(zapcore.AddSync(os.Stderr)))
}

func colorLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	c, ok := levelColors[l]
	if !ok {
		enc.AppendString(l.CapitalString())
		return
	}
	enc.AppendString(c.Sprintf("%-5s", l.CapitalString()))
}

func colorNameEncoder(name string, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(color.New(color.Faint).Sprint(name))
}
