package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohkale/dotdirectory"
)

func newTestWatchSet(t *testing.T) *watchSet {
	t.Helper()
	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { watcher.Close() })
	return newWatchSet(watcher)
}

func TestWatchSet_SharedDirectory(t *testing.T) {
	root := t.TempDir()
	set := newTestWatchSet(t)

	// files rather than folders are watched through their parent
	first := &lookup{folder: filepath.Join(root, "a.mkv"), item: dotdirectory.NewFileItem(filepath.Join(root, "a.mkv"), dotdirectory.KindMovie)}
	second := &lookup{folder: filepath.Join(root, "b.mkv"), item: dotdirectory.NewFileItem(filepath.Join(root, "b.mkv"), dotdirectory.KindMovie)}
	writeTestFile(t, first.folder)
	writeTestFile(t, second.folder)

	require.NoError(t, set.add(first))
	require.NoError(t, set.add(second))
	require.NoError(t, set.add(first))

	assert.Equal(t, []*lookup{first, second}, set.lookups(root))
	assert.Equal(t, []string{root}, set.watcher.WatchList())
}

func TestWatchSet_CoverOutsideFolder(t *testing.T) {
	root := t.TempDir()
	set := newTestWatchSet(t)

	folder := mkFolder(t, root, "Alien", "", "")
	covers := mkFolder(t, root, "covers", "", "alien.png")
	l := &lookup{
		folder: folder,
		item:   dotdirectory.NewFileItem(folder, dotdirectory.KindMovie),
		result: dotdirectory.ImageResult{HasImage: true, Path: filepath.Join(covers, "alien.png")},
	}

	require.NoError(t, set.add(l))

	assert.Equal(t, []*lookup{l}, set.lookups(folder))
	assert.Equal(t, []*lookup{l}, set.lookups(covers))
	assert.ElementsMatch(t, []string{folder, covers}, set.watcher.WatchList())

	a := newTestApp(t)
	assert.True(t, a.relevant(l, filepath.Join(covers, "alien.png")))
	assert.False(t, a.relevant(l, filepath.Join(covers, "other.png")))
}

func TestWatchSet_CoverMoved(t *testing.T) {
	root := t.TempDir()
	set := newTestWatchSet(t)

	folder := mkFolder(t, root, "Alien", "", "")
	l := &lookup{folder: folder, item: dotdirectory.NewFileItem(folder, dotdirectory.KindMovie)}
	require.NoError(t, set.add(l))
	assert.Equal(t, []string{folder}, set.watcher.WatchList())

	covers := mkFolder(t, root, "covers", "", "alien.png")
	l.result = dotdirectory.ImageResult{HasImage: true, Path: filepath.Join(covers, "alien.png")}
	require.NoError(t, set.add(l))

	assert.Equal(t, []*lookup{l}, set.lookups(folder))
	assert.Equal(t, []*lookup{l}, set.lookups(covers))
}

func TestRelevant(t *testing.T) {
	a := newTestApp(t)
	found := &lookup{result: dotdirectory.ImageResult{HasImage: true, Path: "/m/cover.png"}}

	assert.True(t, a.relevant(found, "/m/.directory"))
	assert.True(t, a.relevant(found, "/m/Desktop.ini"))
	assert.True(t, a.relevant(found, "/m/cover.png"))
	assert.False(t, a.relevant(found, "/m/movie.mkv"))

	assert.True(t, a.relevant(&lookup{}, "/m/anything.png"))
}

func writeTestFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}
