// Package logx configures the process-wide logger shared by both
// binaries and the core packages' diagnostic lines.
package logx

import (
	"io"
	"os"
	"runtime"
	"sync"

	colorable "github.com/mattn/go-colorable"
	logging "github.com/shenwei356/go-logging"
)

var (
	log     = logging.MustGetLogger("linesort")
	initOne sync.Once
)

var format = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{color}[%{level:.4s}]%{color:reset} %{message}`,
)

// Init wires the logger backend. Safe to call more than once; only the
// first call takes effect.
func Init() {
	initOne.Do(func() {
		var stderr io.Writer = os.Stderr
		if runtime.GOOS == "windows" {
			stderr = colorable.NewColorableStderr()
		}
		backend := logging.NewLogBackend(stderr, "", 0)
		backendFormatter := logging.NewBackendFormatter(backend, format)
		logging.SetBackend(backendFormatter)
	})
}

// Log returns the shared logger. Init should be called once at process
// startup before this is used; core packages may be exercised from tests
// without ever calling Init, in which case go-logging's own default
// backend applies.
func Log() *logging.Logger {
	return log
}
