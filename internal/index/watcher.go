package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

const resyncDebounce = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the library root and keeps the index
// current until ctx is cancelled.
//
// Skill files are re-indexed one at a time as they change. Prompt and
// descriptor changes are debounced into a prompt-phase resync, since a
// descriptor edit can rewire associations across files. The watcher never
// removes index rows; documents deleted from disk stay until deleted
// explicitly.
func Watch(ctx context.Context, db *DB, store storage.Provider, opts SyncOptions, logger *slog.Logger) error {
	opts = opts.withDefaults()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := store.Root()
	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	// resyncTimer debounces bursts of prompt and descriptor events.
	var resyncTimer *time.Timer
	var resyncCh <-chan time.Time
	var resyncSkills, resyncPrompts bool

	schedule := func(skills, prompts bool) {
		resyncSkills = resyncSkills || skills
		resyncPrompts = resyncPrompts || prompts
		if resyncTimer == nil {
			resyncTimer = time.NewTimer(resyncDebounce)
			resyncCh = resyncTimer.C
		} else {
			resyncTimer.Reset(resyncDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if resyncTimer != nil {
				resyncTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-resyncCh:
			runResync(db, store, opts, logger, resyncSkills, resyncPrompts)
			resyncSkills, resyncPrompts = false, false

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// New directories join the watch list; whatever arrived with
			// them gets picked up by a resync.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					schedule(true, true)
					continue
				}
			}

			rel, relErr := filepath.Rel(root, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case underDir(rel, opts.SkillsDir) && strings.HasSuffix(rel, ".md"):
				handleSkillEvent(db, store, opts, logger, ev, rel)

			case underDir(rel, opts.PromptsDir) && strings.HasSuffix(rel, ".md"),
				underDir(rel, opts.ConfigsDir):
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
					schedule(false, true)
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func handleSkillEvent(db *DB, store storage.Provider, opts SyncOptions, logger *slog.Logger, ev fsnotify.Event, rel string) {
	switch {
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		data, err := store.Read(rel)
		if err != nil {
			logger.Warn("watcher: read failed",
				slog.String("path", rel), slog.String("error", err.Error()))
			return
		}
		outcome, err := indexSkill(db, rel, data, opts.SkillsDir)
		if err != nil {
			logger.Warn("watcher: index failed",
				slog.String("path", rel), slog.String("error", err.Error()))
			return
		}
		logger.Debug("watcher: indexed",
			slog.String("path", rel), slog.String("outcome", string(outcome)))
		notify(opts, models.KindSkill, rel, outcome)

	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		// The row stays; removal is an explicit delete operation.
		logger.Debug("watcher: file gone, index entry kept", slog.String("path", rel))
	}
}

// runResync replays the selected sync phases with a throwaway report.
func runResync(db *DB, store storage.Provider, opts SyncOptions, logger *slog.Logger, skills, prompts bool) {
	report := &Report{}
	if skills {
		if err := syncSkills(db, store, opts, logger, report); err != nil {
			logger.Warn("watcher: skill resync failed", slog.String("error", err.Error()))
		}
	}
	if prompts {
		if err := syncPrompts(db, store, opts, logger, report); err != nil {
			logger.Warn("watcher: prompt resync failed", slog.String("error", err.Error()))
		}
		if err := syncDescriptors(db, store, opts, logger, report); err != nil {
			logger.Warn("watcher: descriptor resync failed", slog.String("error", err.Error()))
		}
	}
	logger.Debug("watcher: resync done",
		slog.Int("inserted", report.Inserted),
		slog.Int("updated", report.Updated),
		slog.Int("errors", report.Errors))
}

// underDir reports whether rel sits inside dir (both slash-separated,
// relative to the library root).
func underDir(rel, dir string) bool {
	return strings.HasPrefix(rel, dir+"/")
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
