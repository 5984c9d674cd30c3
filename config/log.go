package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Log is the diagnostic channel. It discards everything until InitDebugLog enables it.
var Log = zerolog.Nop()

func CheckDebug() bool {
	debug := os.Getenv("QACHAT_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog opens <dir>/debug.log when QACHAT_DEBUG is set
func InitDebugLog(dir string) {
	if !CheckDebug() {
		return
	}

	if err := EnsureDir(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create log directory %s: %v\n", dir, err)
		return
	}

	logPath := filepath.Join(dir, "debug.log")

	// 0600: the log carries user questions and answers
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	Log = zerolog.New(f).With().Timestamp().Caller().Logger()
	zerolog.TimeFieldFormat = time.RFC3339Nano
	Log.Info().Str("path", logPath).Str("QACHAT_DEBUG", os.Getenv("QACHAT_DEBUG")).Msg("debug logging started")
}
