package memory

import (
	"testing"

	"github.com/chrono-timers/chrono-go/pkg/store/storetest"
	"github.com/chrono-timers/chrono-go/pkg/timer"
)

func TestStoreConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) timer.Store {
		return New()
	})
}

func TestPutBypassesValidation(t *testing.T) {
	s := New()
	s.Put(&timer.Timer{ID: "corrupt", Status: timer.StatusRunning})

	got, err := s.Get(t.Context(), "corrupt")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.StartTime != nil {
		t.Errorf("StartTime = %v, want nil", got.StartTime)
	}
}
