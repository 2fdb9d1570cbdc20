//go:build windows

package dotdirectory

func invalidPathChar(r rune) bool {
	switch r {
	case '"', '<', '>', '|':
		return true
	}
	return r < 32
}
