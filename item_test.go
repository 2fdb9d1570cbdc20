package dotdirectory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectProtocol(t *testing.T) {
	tests := []struct {
		path string
		want Protocol
	}{
		{"/media/movies/Alien", ProtocolFile},
		{`C:\media\Alien`, ProtocolFile},
		{"file:///media/Alien", ProtocolFile},
		{"http://host/movie.mkv", ProtocolHTTP},
		{"HTTPS://host/movie.mkv", ProtocolHTTP},
		{"rtsp://cam/stream", ProtocolRTSP},
		{"ftp://host/a", ProtocolFTP},
		{"steam://run/42", ProtocolOther},
		{"/weird/dir://name", ProtocolFile},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectProtocol(tt.path), "DetectProtocol(%q)", tt.path)
	}
}

func TestFileItem(t *testing.T) {
	item := NewFileItem("/media/shows/Expanse/Season 1", KindSeason)
	assert.Equal(t, "/media/shows/Expanse/Season 1", item.Path())
	assert.Equal(t, KindSeason, item.Kind())
	assert.Equal(t, ProtocolFile, item.Protocol())
	assert.Equal(t, "/media/shows/Expanse", item.ContainingFolderPath())

	var asked string
	item.Protocols = ProtocolResolverFunc(func(path string) Protocol {
		asked = path
		return ProtocolHTTP
	})
	assert.Equal(t, ProtocolHTTP, item.Protocol())
	assert.Equal(t, item.Path(), asked)
}

func TestParseEnums(t *testing.T) {
	typ, err := ParseImageType("Thumb")
	assert.NoError(t, err)
	assert.Equal(t, Thumb, typ)
	_, err = ParseImageType("poster")
	assert.Error(t, err)

	kind, err := ParseItemKind("album")
	assert.NoError(t, err)
	assert.Equal(t, KindMusicAlbum, kind)
	assert.Equal(t, "album", kind.String())
	_, err = ParseItemKind("playlist")
	assert.Error(t, err)

	assert.Equal(t, "primary", Primary.String())
	assert.Equal(t, "ImageType(99)", ImageType(99).String())
}
