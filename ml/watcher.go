package ml

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ModelWatcher reloads the model artifact into a Predictor whenever the file changes.
type ModelWatcher struct {
	path      string
	modelType string
	predictor *Predictor
	logger    *zap.Logger
	debounce  time.Duration
}

func NewModelWatcher(modelType, path string, predictor *Predictor, logger *zap.Logger) *ModelWatcher {
	return &ModelWatcher{
		path:      filepath.Clean(path),
		modelType: modelType,
		predictor: predictor,
		logger:    logger,
		debounce:  500 * time.Millisecond,
	}
}

// Run blocks until ctx is cancelled. The parent directory is watched because trainers
// commonly replace the file instead of writing in place.
func (w *ModelWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("watching model artifact", zap.String("path", w.path))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				resetTimer(timer, w.debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("model watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

// resetTimer restarts t, discarding a tick that fired but was not received yet.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

func (w *ModelWatcher) reload() {
	model, err := LoadModel(w.modelType, w.path)
	if err != nil {
		w.logger.Error("model reload failed, keeping previous model", zap.Error(err))
		return
	}
	w.predictor.SetModel(model)
	w.logger.Info("model reloaded",
		zap.String("path", w.path),
		zap.Time("trained_at", model.Artifact().TrainedAt),
	)
}
