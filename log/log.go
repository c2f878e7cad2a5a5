package log

import "go.uber.org/zap"

// Logger is safe to use before EnsureLogger; it discards until then.
var Logger = zap.NewNop()

func EnsureLogger(production bool) {
	var err error
	if production {
		Logger, err = zap.NewProduction()
	} else {
		Logger, err = zap.NewDevelopment()
	}
	if err != nil {
		Logger = zap.NewNop()
	}
}

func Sync() {
	_ = Logger.Sync()
}
