package logger

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var levelMap = map[string]zapcore.Level{
	"DEBUG": zapcore.DebugLevel,
	"INFO":  zapcore.InfoLevel,
	"WARN":  zapcore.WarnLevel,
	"ERROR": zapcore.ErrorLevel,
}

type modeEncoder func() zapcore.Encoder

var modeMap = map[string]modeEncoder{
	"SIMPLE": simpleEncoder,
	"FULL":   fullEncoder,
}

// New builds a console logger writing to w. Mode is SIMPLE or FULL, level
// one of DEBUG, INFO, WARN or ERROR; both are case-insensitive.
func New(w io.Writer, mode, level string) (*zap.SugaredLogger, error) {
	encoder, ok := modeMap[strings.ToUpper(mode)]
	if !ok {
		return nil, fmt.Errorf("illegal log mode: %s", mode)
	}
	zapLevel, ok := levelMap[strings.ToUpper(level)]
	if !ok {
		return nil, fmt.Errorf("illegal log level: %s", level)
	}
	core := zapcore.NewCore(encoder(), zapcore.AddSync(w), zapLevel)
	return zap.New(core, zap.AddCaller()).Sugar(), nil
}

func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func simpleEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.CallerKey = ""
	encoderConfig.FunctionKey = ""
	encoderConfig.EncodeTime = nil
	encoderConfig.EncodeLevel = nil
	encoderConfig.ConsoleSeparator = "|"
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func fullEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.FunctionKey = "func"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.ConsoleSeparator = "|"
	return zapcore.NewConsoleEncoder(encoderConfig)
}
