package logger

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
)

func TestStdLoggerWritesLevelAndArgs(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLogger(log.New(&buf, "", 0))

	l.Warn("video lookup failed", errors.New("timeout"), map[string]interface{}{"url": "https://youtu.be/x"})

	out := buf.String()
	for _, want := range []string{"WARN video lookup failed", "timeout", "https://youtu.be/x"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestNewWithoutTokenIsStd(t *testing.T) {
	if _, ok := New(nil, RollbarConfig{}).(*StdLogger); !ok {
		t.Fatalf("expected std logger without a rollbar token")
	}
}

func TestRollbarLoggerEchoes(t *testing.T) {
	var buf bytes.Buffer
	l := NewRollbarLogger(log.New(&buf, "", 0), RollbarConfig{Token: "test", Environment: "test"})
	l.Enable(false)
	defer l.Close()

	l.Info("saved course", map[string]interface{}{"id": "c-1"})
	if !strings.Contains(buf.String(), "INFO saved course") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
