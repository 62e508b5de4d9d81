package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, enc := range []string{"console", "json", ""} {
		l, err := New("debug", enc)
		if err != nil {
			t.Fatalf("encoding %q: %v", enc, err)
		}
		if !l.Core().Enabled(zapcore.DebugLevel) {
			t.Fatalf("debug not enabled")
		}
	}
	if _, err := New("loud", "console"); err == nil {
		t.Fatalf("bad level accepted")
	}
	if _, err := New("info", "xml"); err == nil {
		t.Fatalf("bad encoding accepted")
	}
}
