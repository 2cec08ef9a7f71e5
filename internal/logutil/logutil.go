// Package logutil holds the process-wide leveled logger.
package logutil

import (
	"io"

	"github.com/mattn/go-colorable"
	"github.com/shenwei356/go-logging"
)

// Log is shared by the engine, the HTTP middleware and the command-line tools.
var Log = logging.MustGetLogger("bioalign")

var leveled logging.LeveledBackend

func init() {
	SetOutput(colorable.NewColorableStderr())
}

// SetOutput redirects log records to w, keeping the current level.
func SetOutput(w io.Writer) {
	level := logging.INFO
	if leveled != nil {
		level = leveled.GetLevel("")
	}

	backend := logging.NewLogBackend(w, "", 0)
	format := logging.MustStringFormatter(`%{time:15:04:05.000} [%{level:.4s}] %{message}`)
	leveled = logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
	leveled.SetLevel(level, "")
	Log.SetBackend(leveled)
}

// SetLevel changes the minimum level written.
func SetLevel(level logging.Level) {
	leveled.SetLevel(level, "")
}

// SetVerbosity maps the usual --verbose/--quiet flag pair onto a level.
func SetVerbosity(verbose, quiet bool) {
	switch {
	case quiet:
		SetLevel(logging.ERROR)
	case verbose:
		SetLevel(logging.DEBUG)
	default:
		SetLevel(logging.INFO)
	}
}
