package ggwin_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/gogpu/ggwin"
)

// captureLogs routes ggwin logging into a buffer for the rest of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := ggwin.Logger()
	t.Cleanup(func() { ggwin.SetLogger(orig) })

	var buf bytes.Buffer
	ggwin.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}
