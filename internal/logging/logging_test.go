package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	for _, dev := range []bool{false, true} {
		l, err := New("warn", dev)
		if err != nil {
			t.Fatalf("dev=%v: %v", dev, err)
		}
		if l.Core().Enabled(zapcore.InfoLevel) || !l.Core().Enabled(zapcore.WarnLevel) {
			t.Fatalf("dev=%v: level not applied", dev)
		}
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("chatty", false); err == nil {
		t.Fatalf("expected error")
	}
}
