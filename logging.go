package spyglass

import (
	"go.uber.org/zap"

	"github.com/spyglass-io/spyglass/internal/logx"
)

// SetLogger installs the logger the pipeline reports its own failures
// through (sink write errors, recovered sink panics, drop warnings).
// The default is a no-op logger; passing nil restores it.
//
// Called once during application initialization.
func SetLogger(l *zap.Logger) {
	logx.Set(l)
}
