// Command argfile inspects JSON argument files: check runs the full read and
// decode pipeline and reports the kind and position of each failure, keys
// lists what a file would bind.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	switch args[0] {
	case "check":
		return checkCommand(args[1:])
	case "keys":
		return keysCommand(args[1:])
	case "help", "-h", "--help":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `argfile inspects JSON argument files.

Usage:
  argfile check [--watch] <file>...
  argfile keys [--format text|json|yaml] <file>

Settings are layered from defaults, an argfile.{json,yaml,toml} rc file in
the working directory or ./config, ARGFILE_* environment variables, and
flags.
`)
}

func setupLogging(s settings) {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      parseLevel(s.Level),
		TimeFormat: time.RFC3339,
	})

	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
