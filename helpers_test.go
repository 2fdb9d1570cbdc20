package dotdirectory

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type logEntry map[string]any

// logSink captures JSON log events for assertions.
type logSink struct {
	buf bytes.Buffer
}

func (ls *logSink) logger() zerolog.Logger {
	return zerolog.New(&ls.buf).Level(zerolog.DebugLevel)
}

func (ls *logSink) entries(t *testing.T) []logEntry {
	t.Helper()
	var out []logEntry
	sc := bufio.NewScanner(bytes.NewReader(ls.buf.Bytes()))
	for sc.Scan() {
		var e logEntry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		out = append(out, e)
	}
	return out
}

// find returns every entry with the given level and message.
func (ls *logSink) find(t *testing.T, level, message string) []logEntry {
	t.Helper()
	var out []logEntry
	for _, e := range ls.entries(t) {
		if e["level"] == level && e["message"] == message {
			out = append(out, e)
		}
	}
	return out
}

// requireOnce asserts exactly one matching event was logged and returns it.
func (ls *logSink) requireOnce(t *testing.T, level, message string) logEntry {
	t.Helper()
	found := ls.find(t, level, message)
	require.Len(t, found, 1, "log %s %q in:\n%s", level, message, ls.buf.String())
	return found[0]
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
