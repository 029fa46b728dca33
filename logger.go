package vgnav

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger creates a [log.Logger] writing to w (os.Stderr if nil) with timestamps enabled.
// Pass it to a Router with WithLogger to see navigation as it happens.
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{ReportTimestamp: true, Prefix: "vgnav"})
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
