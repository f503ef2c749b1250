package utility

import (
	"runtime/debug"

	"github.com/oacc1974/Golmarcadmion/internal/logger"
)

// GoProtect runs f and logs a panic with fields and the stack instead of crashing.
// It does not start a goroutine.
func GoProtect(f func(), fields map[string]interface{}) {
	defer func() {
		if err := recover(); err != nil {
			entry := logger.GetErrorLogger().WithField("stack", string(debug.Stack()))
			if len(fields) > 0 {
				entry = entry.WithFields(fields)
			}
			entry.Errorf("Recovered panic: %v", err)
		}
	}()
	f()
}
