package kit

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		log, err := NewLogger("catalog", env, "debug")
		if err != nil {
			t.Fatalf("NewLogger(%s): %v", env, err)
		}
		if !log.Core().Enabled(zapcore.DebugLevel) {
			t.Fatalf("%s: debug level not enabled", env)
		}
	}

	if _, err := NewLogger("catalog", "production", "chatty"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
