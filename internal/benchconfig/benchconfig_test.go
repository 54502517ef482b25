package benchconfig

import "testing"

func TestGetTickHzClampsNonPositiveToDefault(t *testing.T) {
	cfg := DefaultConfig()

	cfg.TickHz = 0
	if got := cfg.GetTickHz(); got != defaultTickHz {
		t.Fatalf("GetTickHz() with TickHz=0 = %d, want %d", got, defaultTickHz)
	}

	cfg.TickHz = -5
	if got := cfg.GetTickHz(); got != defaultTickHz {
		t.Fatalf("GetTickHz() with TickHz=-5 = %d, want %d", got, defaultTickHz)
	}

	cfg.TickHz = 500
	if got := cfg.GetTickHz(); got != 500 {
		t.Fatalf("GetTickHz() with TickHz=500 = %d, want 500", got)
	}
}
