package timeouts_test

import (
	"testing"
	"time"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/timeouts"
)

func TestConfigure(t *testing.T) {
	defer timeouts.Reset()

	timeouts.Configure(timeouts.Config{Short: 3 * time.Second, Long: time.Minute})

	if got := timeouts.Short(); got != 3*time.Second {
		t.Errorf("Short: got %v", got)
	}
	if got := timeouts.Long(); got != time.Minute {
		t.Errorf("Long: got %v", got)
	}
	// Zero values keep the defaults.
	if got := timeouts.Medium(); got <= 0 {
		t.Errorf("Medium should keep its default, got %v", got)
	}
}

func TestReset(t *testing.T) {
	timeouts.Configure(timeouts.Config{Ping: time.Hour})
	timeouts.Reset()
	if got := timeouts.Ping(); got == time.Hour {
		t.Error("Reset should restore the default ping timeout")
	}
}
