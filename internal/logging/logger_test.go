package logging

import "testing"

func TestNew(t *testing.T) {
	for _, dev := range []bool{true, false} {
		logger, err := New(dev)
		if err != nil {
			t.Fatalf("New(%v) failed: %v", dev, err)
		}
		if logger == nil {
			t.Fatalf("New(%v) returned nil logger", dev)
		}
		logger.Infow("logger smoke test", "dev", dev)
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	if logger == nil {
		t.Fatal("Nop returned nil")
	}
	// Must not panic or write anywhere.
	logger.Errorw("discarded", "key", "value")
}
