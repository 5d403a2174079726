package observability

import (
	"context"
	"testing"
	"time"
)

type recordingPrepareHooks struct {
	NoopPrepareHooks
	scans    int
	installs []string
}

func (h *recordingPrepareHooks) OnScanStart(context.Context) { h.scans++ }

func (h *recordingPrepareHooks) OnInstallStart(_ context.Context, pkg string) {
	h.installs = append(h.installs, pkg)
}

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()

	// Must not panic.
	Prepare().OnScanStart(context.Background())
	Prepare().OnInstallComplete(context.Background(), "numpy", time.Second, nil)
	HTTP().OnRequest(context.Background(), "GET", "pypi.org", "/pypi/numpy/json")
}

func TestSetPrepareHooks(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recordingPrepareHooks{}
	SetPrepareHooks(rec)

	Prepare().OnScanStart(context.Background())
	Prepare().OnInstallStart(context.Background(), "micropip")

	if rec.scans != 1 {
		t.Errorf("scans = %d, want 1", rec.scans)
	}
	if len(rec.installs) != 1 || rec.installs[0] != "micropip" {
		t.Errorf("installs = %v", rec.installs)
	}
}

func TestSetNilKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recordingPrepareHooks{}
	SetPrepareHooks(rec)
	SetPrepareHooks(nil)

	Prepare().OnScanStart(context.Background())
	if rec.scans != 1 {
		t.Errorf("scans = %d, want 1 (nil registration must be ignored)", rec.scans)
	}
}
