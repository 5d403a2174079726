package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinner("Installing packages...")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() should report true once the spinner is stopped")
	}
}

func TestSpinnerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Downloading numpy...")
	s.Start()
	cancel()

	// Give the animation goroutine time to notice.
	time.Sleep(3 * spinnerInterval)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopsOnContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), spinnerInterval/2)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Bootstrapping micropip...")
	s.Start()
	time.Sleep(3 * spinnerInterval)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context timeout")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Installing packages...")
	s.Start()

	// Repeated stops must not panic or block.
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithOutcome(t *testing.T) {
	success := newSpinner("Installing pandas...")
	success.Start()
	success.StopWithSuccess("Installed pandas")

	failure := newSpinner("Installing pandas...")
	failure.Start()
	failure.StopWithError("Install failed")
}
