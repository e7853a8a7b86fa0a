package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLogger_LevelGating(t *testing.T) {
	var out, errOut bytes.Buffer
	l := Logger{Out: &out, Err: &errOut}

	l.Infof("info %d", 1)
	l.Debugf("debug %d", 2)
	if out.Len() != 0 {
		t.Errorf("Expected no stdout output without flags, got: %q", out.String())
	}

	l.Warnf("careful %s", "now")
	if !strings.Contains(errOut.String(), "careful now") {
		t.Errorf("Expected warning on stderr, got: %q", errOut.String())
	}
}

func TestLogger_DebugImpliesInfo(t *testing.T) {
	var out bytes.Buffer
	l := Logger{Debug: true, Out: &out}

	l.Infof("first")
	l.Debugf("second")

	got := out.String()
	if !strings.Contains(got, "first") || !strings.Contains(got, "second") {
		t.Errorf("Expected info and debug output, got: %q", got)
	}
}

func TestLogger_ErrorfAndReturn(t *testing.T) {
	var errOut bytes.Buffer
	l := Logger{Err: &errOut}

	err := l.ErrorfAndReturn("failed to open %s", "store.json")
	if err == nil || err.Error() != "failed to open store.json" {
		t.Fatalf("Expected returned error, got: %v", err)
	}
	if !strings.Contains(errOut.String(), "failed to open store.json") {
		t.Errorf("Expected error to be logged, got: %q", errOut.String())
	}
}

func TestLogger_ErrorfAndReturnWrapsCause(t *testing.T) {
	var errOut bytes.Buffer
	l := Logger{Err: &errOut}
	cause := errors.New("file not found")

	err := l.ErrorfAndReturn("failed to read record: %w", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("Expected returned error to wrap the cause, got: %v", err)
	}
	if !strings.Contains(errOut.String(), "failed to read record: file not found") {
		t.Errorf("Expected wrapped message to be logged, got: %q", errOut.String())
	}
	if strings.Contains(errOut.String(), "%!w") {
		t.Errorf("Expected %%w to be rendered, got: %q", errOut.String())
	}
}
