package mavconn

import (
	"go.uber.org/zap"
)

var logger = zap.NewNop()

// UseLogger use logger
func UseLogger(zapLogger *zap.Logger) {
	logger = zapLogger
}

func adjustLogger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return logger
	}
	return l
}
