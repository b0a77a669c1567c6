package content

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads path whenever it changes and hands each valid site to apply.
// Parse errors are logged and the previous site stays in place. It blocks
// until ctx is done.
//
// The parent directory is watched rather than the file so editors that save by
// rename are picked up too.
func Watch(ctx context.Context, path string, log *zap.Logger, apply func(*Site)) error {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	// Saves often arrive as a burst of events; settle before reloading.
	const settle = 100 * time.Millisecond
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				pending = time.After(settle)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("content watch error", zap.Error(err))
		case <-pending:
			pending = nil
			site, err := Load(abs)
			if err != nil {
				log.Error("content reload failed", zap.String("path", abs), zap.Error(err))
				continue
			}
			log.Info("content reloaded", zap.String("path", abs), zap.Int("sections", len(site.Sections)))
			apply(site)
		}
	}
}
