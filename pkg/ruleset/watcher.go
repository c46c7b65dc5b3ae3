package ruleset

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Watcher invalidates resolved rules when bundle files change on disk. It
// only makes sense in front of a FileProvider backed by the OS filesystem.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange func(path string)
	done     chan struct{}
}

// WatchBundles watches dir (recursively) for changes to files matching
// BundleGlob and invokes onChange with the affected path. The watcher stops
// when ctx is cancelled or Close is called.
func WatchBundles(ctx context.Context, dir string, onChange func(path string)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fsWatcher,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	if err := w.addDirs(dir); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	go w.run(ctx)

	zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("watching rule bundles")
	return w, nil
}

func (w *Watcher) addDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip unreadable entries; the rest of the tree still gets
			// watched.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return errors.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	logger := zerolog.Ctx(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// New directories need their own watch before files inside
			// them produce events.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addDirs(event.Name)
				}
			}

			if !isBundlePath(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			logger.Debug().
				Str("path", event.Name).
				Str("op", event.Op.String()).
				Msg("rule bundle changed")
			if w.onChange != nil {
				w.onChange(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("bundle watcher error")
		}
	}
}

func isBundlePath(path string) bool {
	ok, err := doublestar.Match(BundleGlob, filepath.ToSlash(path))
	if err != nil {
		return false
	}
	if ok {
		return true
	}
	// Events carry absolute paths; the glob is relative, so also try just
	// the file name.
	ok, err = doublestar.Match("*.rules.{yaml,yml,json,hcl}", filepath.Base(path))
	return err == nil && ok
}

// Close stops the watcher goroutine and releases the inotify handles.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	return w.watcher.Close()
}
