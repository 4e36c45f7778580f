package argfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MarvinJWendt/testza"
	"github.com/argfile/argfile/pkg/argfile"
)

const watchTimeout = 5 * time.Second

func TestWatch_DeliversInitialResult(t *testing.T) {
	t.Parallel()

	path := writeArgFile(t, `{"x": 1, "y": 2}`)
	results := make(chan int, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := argfile.Bind(add).Watch(ctx, path, func(sum int, err error) {
		if err == nil {
			results <- sum
		}
	})
	testza.AssertNil(t, err)

	// The first invocation happens before Watch returns.
	testza.AssertEqual(t, 3, <-results)
}

func TestWatch_RewriteDeliversNewResult(t *testing.T) {
	t.Parallel()

	path := writeArgFile(t, `{"x": 1, "y": 2}`)
	results := make(chan int, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := argfile.Bind(add).Watch(ctx, path, func(sum int, err error) {
		if err == nil {
			results <- sum
		}
	})
	testza.AssertNil(t, err)
	testza.AssertEqual(t, 3, <-results)

	testza.AssertNil(t, os.WriteFile(path, []byte(`{"x": 10, "y": 20}`), 0o644))

	select {
	case sum := <-results:
		testza.AssertEqual(t, 30, sum)
	case <-time.After(watchTimeout):
		t.Fatal("no result delivered after rewrite")
	}
}

func TestWatch_MalformedRewriteKeepsWatchAlive(t *testing.T) {
	t.Parallel()

	type delivery struct {
		sum int
		err error
	}

	path := writeArgFile(t, `{"x": 1, "y": 2}`)
	deliveries := make(chan delivery, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := argfile.Bind(add).Watch(ctx, path, func(sum int, err error) {
		deliveries <- delivery{sum: sum, err: err}
	})
	testza.AssertNil(t, err)
	testza.AssertNil(t, (<-deliveries).err)

	// A half-saved file surfaces as a failure but must not end the watch.
	testza.AssertNil(t, os.WriteFile(path, []byte(`{"x": 1,`), 0o644))

	select {
	case got := <-deliveries:
		testza.AssertNotNil(t, got.err)
		testza.AssertEqual(t, argfile.KindSyntax, argfile.KindOf(got.err))
	case <-time.After(watchTimeout):
		t.Fatal("no failure delivered after malformed rewrite")
	}

	testza.AssertNil(t, os.WriteFile(path, []byte(`{"x": 3, "y": 4}`), 0o644))

	for {
		select {
		case got := <-deliveries:
			if got.err != nil {
				continue
			}
			testza.AssertEqual(t, 7, got.sum)
			return
		case <-time.After(watchTimeout):
			t.Fatal("no result delivered after repair")
		}
	}
}

func TestWatch_MissingFileFailsFast(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.json")

	err := argfile.Bind(add).Watch(context.Background(), missing, func(int, error) {})
	testza.AssertNotNil(t, err)
}
