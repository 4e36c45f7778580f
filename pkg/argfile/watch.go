package argfile

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/oops"
)

const debounceDelay = 100 * time.Millisecond

// Watch invokes the bound callable for the file at path, then re-invokes it
// whenever the file is written, debounced so editors that save in bursts
// trigger a single invocation. Every result and failure is delivered to
// notify, and a failed invocation keeps the watch alive. The watch runs
// until ctx is done.
func (f Func[R]) Watch(ctx context.Context, path string, notify func(R, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return oops.Wrapf(err, "failed to create argument file watcher")
	}

	if err := watcher.Add(path); err != nil {
		_ = watcher.Close()
		return oops.Wrapf(err, "failed to watch argument file: %s", path)
	}

	notify(f(path))

	go f.watchLoop(ctx, watcher, path, notify)

	return nil
}

func (f Func[R]) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, notify func(R, error)) {
	defer func() { _ = watcher.Close() }()

	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, func() {
					notify(f(path))
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("argument file watcher error", slog.String("path", path), slog.Any("error", err))
		}
	}
}
