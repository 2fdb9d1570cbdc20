package main

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 500 * time.Millisecond

// watchSet maps every watched directory to the lookups a change in it can
// affect. Several folders may share a parent, and a cover may live outside
// its folder, so one directory can serve many lookups.
type watchSet struct {
	watcher *fsnotify.Watcher
	byDir   map[string][]*lookup
}

func newWatchSet(watcher *fsnotify.Watcher) *watchSet {
	return &watchSet{watcher: watcher, byDir: make(map[string][]*lookup)}
}

// add registers the directories l depends on. Calling it again after the
// lookup changed picks up a cover that moved to a new directory.
func (w *watchSet) add(l *lookup) error {
	for _, dir := range watchDirs(l) {
		if slices.Contains(w.byDir[dir], l) {
			continue
		}
		if len(w.byDir[dir]) == 0 {
			if err := w.watcher.Add(dir); err != nil {
				return err
			}
		}
		w.byDir[dir] = append(w.byDir[dir], l)
	}
	return nil
}

func (w *watchSet) lookups(dir string) []*lookup {
	return w.byDir[dir]
}

// watchDirs lists the folder holding l's convention files and, when the
// cover lives elsewhere, the cover's directory.
func watchDirs(l *lookup) []string {
	dir := l.folder
	if !isDir(dir) {
		dir = l.item.ContainingFolderPath()
	}
	dirs := []string{dir}
	if l.result.HasImage {
		if iconDir := filepath.Dir(l.result.Path); iconDir != dir {
			dirs = append(dirs, iconDir)
		}
	}
	return dirs
}

// watch redoes a folder's lookup whenever a convention file or the folder's
// current cover changes, until ctx is cancelled.
func (a *app) watch(ctx context.Context, lookups []lookup) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	set := newWatchSet(watcher)
	for i := range lookups {
		if err := set.add(&lookups[i]); err != nil {
			a.logger.Error().Err(err).Str("folder", lookups[i].folder).Msg("cannot watch folder")
		}
	}

	dirty := make(map[*lookup]bool)
	debounce := time.NewTimer(0)
	<-debounce.C

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			changed := false
			for _, l := range set.lookups(filepath.Dir(event.Name)) {
				if a.relevant(l, event.Name) {
					dirty[l] = true
					changed = true
				}
			}
			if !changed {
				continue
			}
			a.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("folder changed")

			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(debounceDelay)

		case <-debounce.C:
			for l := range dirty {
				next, err := a.lookup(ctx, l.item)
				if err != nil {
					return ignoreCancel(ctx, err)
				}
				if next.result == l.result {
					continue
				}
				*l = next
				a.report(next)
				if err := set.add(l); err != nil {
					a.logger.Error().Err(err).Str("icon", l.result.Path).Msg("cannot watch cover directory")
				}
			}
			clear(dirty)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Error().Err(err).Msg("watcher error")

		case <-ctx.Done():
			return nil
		}
	}
}

// relevant reports whether a change to name can alter the lookup for l.
func (a *app) relevant(l *lookup, name string) bool {
	if l.result.HasImage && name == l.result.Path {
		return true
	}
	base := filepath.Base(name)
	for _, p := range a.registry.Providers() {
		if base == p.Descriptor().FileName {
			return true
		}
	}
	// a relative icon reference may start to resolve once the file appears
	return !l.result.HasImage
}

func ignoreCancel(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func isDir(p string) bool {
	stat, err := os.Stat(p)
	return err == nil && stat.IsDir()
}
