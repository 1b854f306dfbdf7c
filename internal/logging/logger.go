package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	mu   sync.Mutex
	root = newRoot(os.Stderr)
)

func newRoot(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           log.InfoLevel,
	})
}

// For returns a logger prefixed with the component name
func For(component string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return root.WithPrefix(component)
}

// SetDebug enables or disables debug output for loggers created afterwards
func SetDebug(debug bool) {
	mu.Lock()
	defer mu.Unlock()
	if debug {
		root.SetLevel(log.DebugLevel)
	} else {
		root.SetLevel(log.InfoLevel)
	}
}

// SetOutput redirects loggers created afterwards, e.g. to a buffer in tests
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	level := root.GetLevel()
	root = newRoot(w)
	root.SetLevel(level)
}
