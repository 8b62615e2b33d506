package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// logEntries decodes every JSON line written to buf.
func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "log line should be JSON: %s", line)
		entries = append(entries, entry)
	}
	return entries
}

// onlyEntry decodes buf and requires exactly one log line.
func onlyEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	entries := logEntries(t, buf)
	require.Len(t, entries, 1)
	return entries[0]
}

// entryWithMessage returns the first entry whose message is msg.
func entryWithMessage(t *testing.T, buf *bytes.Buffer, msg string) map[string]any {
	t.Helper()
	for _, e := range logEntries(t, buf) {
		if e["message"] == msg {
			return e
		}
	}
	require.Failf(t, "log entry not found", "no entry with message %q in %s", msg, buf.String())
	return nil
}

// newContext builds an unrouted echo context for calling a middleware directly.
func newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func serve(e *echo.Echo, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
