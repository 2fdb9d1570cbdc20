//go:build !windows

package dotdirectory

func invalidPathChar(r rune) bool {
	return r == 0
}
