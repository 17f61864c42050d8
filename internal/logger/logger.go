// Package logger is the process-wide structured logger.
package logger

import (
	"os"

	"go.uber.org/zap"
)

var sugar *zap.SugaredLogger

func init() {
	if err := Init(os.Getenv("LOG_ENV")); err != nil {
		sugar = zap.NewNop().Sugar()
	}
}

// Init rebuilds the logger; "production" selects JSON output at info level.
func Init(env string) error {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	sugar = l.Sugar()
	return nil
}

func Info(msg string, keysAndValues ...any) {
	sugar.Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	sugar.Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	sugar.Errorw(msg, keysAndValues...)
}

func Debug(msg string, keysAndValues ...any) {
	sugar.Debugw(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...any) {
	sugar.Fatalw(msg, keysAndValues...)
}

func Sync() {
	_ = sugar.Sync()
}
