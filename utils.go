package dotdirectory

import (
	"os"
	"path/filepath"
	"strings"
)

// IsAbsolutePath reports whether an icon reference can be used as-is: it has
// non-space content, no characters the platform forbids in paths, and is
// rooted.
func IsAbsolutePath(p string) bool {
	return strings.TrimSpace(p) != "" &&
		!strings.ContainsFunc(p, invalidPathChar) &&
		isRooted(p)
}

func isRooted(p string) bool {
	if filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return true
	}
	return len(p) > 0 && os.IsPathSeparator(p[0])
}

// ResolveIconPath joins a relative icon reference onto dir. Absolute
// references are returned unchanged.
func ResolveIconPath(raw, dir string) string {
	if IsAbsolutePath(raw) {
		return raw
	}
	return filepath.Join(dir, raw)
}

// mediaFolder is the directory a provider inspects for an item: the item
// itself when it is a directory, otherwise its containing folder.
func mediaFolder(item Item) string {
	if isDir(item.Path()) {
		return item.Path()
	}
	return item.ContainingFolderPath()
}

func isDir(p string) bool {
	stat, err := os.Stat(p)
	return err == nil && stat.IsDir()
}

func fileExists(p string) bool {
	stat, err := os.Stat(p)
	return err == nil && !stat.IsDir()
}
