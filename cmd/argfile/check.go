package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Vilsol/slox"
	"github.com/argfile/argfile/pkg/argfile"
	"github.com/spf13/pflag"
)

// inspect is the identity binding: it runs the whole pipeline and hands the
// decoded mapping back.
func inspect() argfile.Func[map[string]any] {
	return argfile.BindMap(func(args map[string]any) (map[string]any, error) {
		return args, nil
	})
}

func checkCommand(args []string) int {
	flagSet := pflag.NewFlagSet("check", pflag.ContinueOnError)
	flagSet.Bool("watch", false, "re-check the file whenever it changes")
	flagSet.String("level", defaultLevel, "log level (debug, info, warn, error)")

	if err := flagSet.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	s, err := loadSettings(flagSet)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	setupLogging(s)

	files := flagSet.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: argfile check [--watch] <file>...")
		return 2
	}

	if s.Watch {
		if len(files) != 1 {
			fmt.Fprintln(os.Stderr, "--watch takes exactly one file")
			return 2
		}

		return watchCheck(files[0])
	}

	failed := false
	for _, path := range files {
		if !reportCheck(path) {
			failed = true
		}
	}

	if failed {
		return 1
	}

	return 0
}

func reportCheck(path string) bool {
	args, err := inspect()(path)
	if err != nil {
		fmt.Printf("%s: %s\n", path, describeFailure(err))
		return false
	}

	fmt.Printf("%s: ok (%d arguments)\n", path, len(args))

	return true
}

func watchCheck(path string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := inspect().Watch(ctx, path, func(args map[string]any, err error) {
		if err != nil {
			fmt.Printf("%s: %s\n", path, describeFailure(err))
			return
		}

		fmt.Printf("%s: ok (%d arguments)\n", path, len(args))
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	slox.Info(ctx, "watching argument file", slog.String("path", path))
	<-ctx.Done()

	return 0
}

func describeFailure(err error) string {
	kind := argfile.KindOf(err)
	if kind == "" {
		return err.Error()
	}

	return fmt.Sprintf("%s error: %v", kind, err)
}
