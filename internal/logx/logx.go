// Package logx holds the process-global logger the pipeline reports its own
// failures through (sink errors, recovered panics). Reads and writes are
// lock-free so hot paths can log without coordination.
package logx

import (
	"sync/atomic"

	"go.uber.org/zap"
)

type state struct {
	logger *zap.Logger
}

var global atomic.Pointer[state]

func init() {
	global.Store(&state{logger: zap.NewNop()})
}

// Set updates the global pipeline logger.
// If l is nil, a no-op logger is used.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	global.Store(&state{logger: l})
}

// L returns the configured pipeline logger, never nil.
func L() *zap.Logger {
	return global.Load().logger
}
