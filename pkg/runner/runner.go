// Package runner maps argument files onto named jobs. A program registers
// its file-invocable entry points once, then runs them by name or lets a
// whole directory of argument files drive a batch.
package runner

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Vilsol/slox"
	"github.com/argfile/argfile/pkg/argfile"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
	"github.com/sourcegraph/conc/pool"
)

// Runner is a registry of named jobs backed by an injector.
type Runner struct {
	injector do.Injector
}

type job struct {
	invoke func(path string) error
}

// New creates an empty registry.
func New() *Runner {
	return &Runner{
		injector: do.New(),
	}
}

// Register adds a bound callable under name. The job's result is discarded
// when run through the registry, so callables registered here do their work
// through side effects. Registering a name twice panics, matching the
// injector's duplicate-service semantics.
func Register[R any](r *Runner, name string, fn argfile.Func[R]) {
	do.ProvideNamedValue(r.injector, name, job{
		invoke: func(path string) error {
			_, err := fn(path)
			return err
		},
	})
}

// Run invokes the named job with the argument file at path.
func (r *Runner) Run(ctx context.Context, name string, path string) error {
	j, err := do.InvokeNamed[job](r.injector, name)
	if err != nil {
		return oops.With("job", name).Wrapf(err, "no job registered under %q", name)
	}

	slox.Info(ctx, "running job", slog.String("job", name), slog.String("path", path))

	if err := j.invoke(path); err != nil {
		slox.Error(ctx, "job failed", slog.String("job", name), slog.Any("error", err))

		return oops.
			With("job", name).
			With("path", path).
			Wrapf(err, "job %q failed for %s", name, path)
	}

	slox.Info(ctx, "job finished", slog.String("job", name))

	return nil
}

// RunDir matches every *.json file in dir to the job named after its stem
// and runs the matches in parallel, cancelling the batch on the first
// failure. A file with no matching job fails the batch before anything runs.
func (r *Runner) RunDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return oops.Wrapf(err, "failed to read argument file directory: %s", dir)
	}

	type unit struct {
		name string
		path string
	}

	var units []unit
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		path := filepath.Join(dir, entry.Name())

		if _, err := do.InvokeNamed[job](r.injector, name); err != nil {
			return oops.With("path", path).Errorf("no job registered for argument file %s", path)
		}

		units = append(units, unit{name: name, path: path})
	}

	runPool := pool.New().
		WithErrors().
		WithContext(ctx).
		WithCancelOnError()

	for _, u := range units {
		runPool.Go(func(ctx context.Context) error {
			return r.Run(ctx, u.name, u.path)
		})
	}

	return runPool.Wait()
}
