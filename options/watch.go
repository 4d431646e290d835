package options

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/richinsley/chromaring/animation"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads the tuning section of a config file whenever it changes.
type Watcher struct {
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	updates  chan animation.Tuning
	path     string
	debounce time.Duration
}

// NewWatcher watches path. The parent directory is watched so that editors
// which replace the file on save are still seen.
func NewWatcher(path string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	return &Watcher{
		logger:   logger,
		watcher:  fw,
		updates:  make(chan animation.Tuning, 1),
		path:     abs,
		debounce: debounce,
	}, nil
}

// Updates delivers reloaded tuning. Only the latest value is kept if the
// reader falls behind.
func (w *Watcher) Updates() <-chan animation.Tuning {
	return w.updates
}

// Run processes file events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	debounceTimer := time.NewTimer(w.debounce)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}

	w.logger.Info("watching config", zap.String("path", w.path))
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.logger.Debug("config change detected", zap.String("op", event.Op.String()))
				debounceTimer.Reset(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", zap.Error(err))
		case <-debounceTimer.C:
			w.reload()
		case <-ctx.Done():
			debounceTimer.Stop()
			return nil
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// reload reads the tuning section over the defaults. A file that does not
// parse or validate is reported and the previous tuning stays in effect.
func (w *Watcher) reload() {
	o := Defaults()
	if err := o.LoadFile(w.path); err != nil {
		w.logger.Warn("ignoring config change", zap.Error(err))
		return
	}
	if err := ValidateTuning(o.Tuning); err != nil {
		w.logger.Warn("ignoring invalid tuning", zap.Error(err))
		return
	}
	t := o.AnimationTuning()
	select {
	case w.updates <- t:
	default:
		select {
		case <-w.updates:
		default:
		}
		w.updates <- t
	}
	w.logger.Info("tuning reloaded",
		zap.Float64("target_tau", t.TargetTau),
		zap.Float64("follow_tau", t.FollowTau),
		zap.Float64("parallax", t.Parallax),
		zap.Float64("max_frame_delta", t.MaxFrameDelta))
}
