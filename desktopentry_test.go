package dotdirectory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveString(t *testing.T, sink *logSink, content string) (string, bool) {
	t.Helper()
	value, ok, err := ResolveField(context.Background(), sink.logger(),
		NewLineScanner(strings.NewReader(content)), "mem", "S", "K")
	require.NoError(t, err)
	return value, ok
}

func TestResolveField(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		found   bool
	}{
		{"simple", "[S]\nK=V\n", "V", true},
		{"first assignment wins", "[S]\nK=V1\nK=V2\n", "V1", true},
		{"first across repeated sections", "[S]\nK=V1\n[S]\nK=V2", "V1", true},
		{"no trailing newline", "[S]\nK=V", "V", true},
		{"crlf", "[S]\r\nK=V\r\n", "V", true},
		{"other fields ignored", "[S]\nName=x\nK=V", "V", true},
		{"embedded equals", "[S]\nK=a=b", "a=b", true},
		{"whitespace around tokens", "   [S]  \n  K  =   V", "V", true},
		{"trailing whitespace kept", "[S]\nK=V  ", "V  ", true},
		{"comments and blanks", "# c\n; c\n\n   \n[S]\n  # K=no\nK=V", "V", true},
		{"found after other section", "[T]\nK=no\n[S]\nK=V", "V", true},
		{"section only", "[S]\n", "", false},
		{"empty file", "", "", false},
		{"empty value", "[S]\nK=\n", "", false},
		{"case sensitive key", "[S]\nk=V\n", "", false},
		{"case sensitive section", "[s]\nK=V\n", "", false},
		{"inner whitespace is part of the section name", "[ S ]\nK=V\n", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sink logSink
			value, ok := resolveString(t, &sink, tt.content)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, value)
		})
	}
}

func TestResolveField_WrongSection(t *testing.T) {
	var sink logSink
	value, ok := resolveString(t, &sink, "[T]\nK=V")

	assert.False(t, ok)
	assert.Empty(t, value)
	e := sink.requireOnce(t, "warn", "found icon definition in incorrect section")
	assert.Equal(t, "V", e["icon"])
	assert.Equal(t, "mem", e["file"])
	assert.Equal(t, "T", e["section"])
	sink.requireOnce(t, "debug", "failed to find field")
}

func TestResolveField_FieldBeforeAnySection(t *testing.T) {
	var sink logSink
	_, ok := resolveString(t, &sink, "K=V\n[S]\n")

	assert.False(t, ok)
	e := sink.requireOnce(t, "warn", "found icon definition in incorrect section")
	assert.NotContains(t, e, "section")
}

func TestResolveField_UnparseableLine(t *testing.T) {
	var sink logSink
	value, ok := resolveString(t, &sink, "[S]\nnot a field\nIcon[de]=x\nK=V")

	assert.True(t, ok)
	assert.Equal(t, "V", value)
	found := sink.find(t, "warn", "unable to parse line")
	require.Len(t, found, 2)
	assert.Equal(t, "not a field", found[0]["line"])
	assert.Equal(t, "Icon[de]=x", found[1]["line"])
}

func TestResolveField_NotFound(t *testing.T) {
	var sink logSink
	_, ok := resolveString(t, &sink, "[S]\n")

	assert.False(t, ok)
	e := sink.requireOnce(t, "debug", "failed to find field")
	assert.Equal(t, "K", e["field"])
	assert.Equal(t, "mem", e["file"])
}

func TestResolveField_StopsAtFirstMatch(t *testing.T) {
	var sink logSink
	// the unparseable line after the match is never read
	_, ok := resolveString(t, &sink, "[S]\nK=V\n???\n")

	assert.True(t, ok)
	assert.Empty(t, sink.find(t, "warn", "unable to parse line"))
}

func TestResolveField_DecodeError(t *testing.T) {
	var sink logSink
	_, ok, err := ResolveField(context.Background(), sink.logger(),
		NewLineScanner(strings.NewReader("[S]\nK=caf\xe9\n")), "mem", "S", "K")

	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
	assert.False(t, ok)
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line  string
		kind  lineKind
		name  string
		value string
	}{
		{"", lineIgnored, "", ""},
		{"   \t", lineIgnored, "", ""},
		{"# comment", lineIgnored, "", ""},
		{"  ; comment", lineIgnored, "", ""},
		{"[Desktop Entry]", lineSection, "Desktop Entry", ""},
		{"[.ShellClassInfo]", lineSection, ".ShellClassInfo", ""},
		{"[]", lineUnknown, "", ""},
		{"Icon=cover.png", lineField, "Icon", "cover.png"},
		{"IconFile = C:\\covers\\a.ico", lineField, "IconFile", "C:\\covers\\a.ico"},
		{"Icon-Name=x", lineUnknown, "", ""},
		{"just text", lineUnknown, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			kind, name, value := classifyLine(tt.line)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.value, value)
		})
	}
}
