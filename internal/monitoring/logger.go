package monitoring

import (
	"log"
	"os"
	"sync"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

var (
	debugOnce   sync.Once
	debugChecks bool
)

// DebugChecks reports whether contract assertions are enabled. Controlled by
// the ROADVIEW_DEBUG environment variable; read once per process.
func DebugChecks() bool {
	debugOnce.Do(func() {
		debugChecks = os.Getenv("ROADVIEW_DEBUG") != ""
	})
	return debugChecks
}
