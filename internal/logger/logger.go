package logger

import "go.uber.org/zap"

var Log *zap.Logger

func Init() {
	Log = zap.Must(zap.NewProduction())
}

// InitTest installs a no-op logger so packages under test do not need Init.
func InitTest() {
	Log = zap.NewNop()
}

func Sugar() *zap.SugaredLogger {
	return Log.Sugar()
}
