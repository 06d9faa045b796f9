package logger

import "go.uber.org/zap"

// Log is process-wide logger. It is no-op until Initialize is called.
var Log *zap.Logger = zap.NewNop()

// Initialize creates logger with log level
func Initialize(level string) error {
	loggerLvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	loggerCfg := zap.NewProductionConfig()
	loggerCfg.Level = loggerLvl

	zl, err := loggerCfg.Build()
	if err != nil {
		return err
	}

	Log = zl
	return nil
}
