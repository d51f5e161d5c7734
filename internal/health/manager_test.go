package health_test

import (
	"errors"
	"testing"
	"time"

	"github.com/XavierBriggs/Beacon/internal/health"
)

func TestStateMachine(t *testing.T) {
	m := health.NewManager(3, time.Hour)
	m.Register("provider")

	if !m.Usable("provider") {
		t.Fatal("freshly registered provider must be usable")
	}

	errBoom := errors.New("boom")

	// Two failures: still valid.
	m.ReportFailure("provider", errBoom)
	m.ReportFailure("provider", errBoom)
	if !m.Usable("provider") {
		t.Fatal("provider should stay valid below threshold")
	}

	// Third consecutive failure crosses the threshold.
	m.ReportFailure("provider", errBoom)
	if m.Usable("provider") {
		t.Fatal("provider must be disabled at threshold")
	}

	// One success re-enables and resets the counter.
	m.ReportSuccess("provider")
	if !m.Usable("provider") {
		t.Fatal("success must re-enable the provider")
	}

	records := m.Snapshot()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ErrorCount != 0 || !records[0].IsValid {
		t.Errorf("success did not reset state: %+v", records[0])
	}
}

func TestSuccessResetsConsecutiveCount(t *testing.T) {
	m := health.NewManager(3, time.Hour)
	m.Register("provider")

	errBoom := errors.New("boom")
	// Interleaved success: the count is consecutive, not cumulative.
	m.ReportFailure("provider", errBoom)
	m.ReportFailure("provider", errBoom)
	m.ReportSuccess("provider")
	m.ReportFailure("provider", errBoom)
	m.ReportFailure("provider", errBoom)

	if !m.Usable("provider") {
		t.Error("interleaved success must reset the consecutive-error count")
	}
}

func TestRecheckAfterCooldown(t *testing.T) {
	m := health.NewManager(1, 20*time.Millisecond)
	m.Register("provider")

	m.ReportFailure("provider", errors.New("down"))
	if m.Usable("provider") {
		t.Fatal("provider should be disabled")
	}

	time.Sleep(40 * time.Millisecond)

	// Cooldown elapsed: the gate lets a probe through even before Recheck.
	if !m.Usable("provider") {
		t.Fatal("cooled-down provider should get a probe attempt")
	}

	m.Recheck()
	records := m.Snapshot()
	if !records[0].IsValid {
		t.Error("Recheck must re-validate cooled-down providers")
	}
}

func TestDisablePinsUntilSuccess(t *testing.T) {
	m := health.NewManager(3, 10*time.Millisecond)
	m.Register("provider")
	m.Disable("provider", "missing API key")

	time.Sleep(30 * time.Millisecond)
	if m.Usable("provider") {
		t.Fatal("config-disabled provider must not recover via cooldown")
	}
	m.Recheck()
	if m.Usable("provider") {
		t.Fatal("config-disabled provider must not recover via Recheck")
	}

	m.ReportSuccess("provider")
	if !m.Usable("provider") {
		t.Error("explicit success must re-enable the provider")
	}

	records := m.Snapshot()
	if records[0].LastError != "" {
		t.Errorf("success should clear lastError, got %q", records[0].LastError)
	}
}

func TestUnknownProviderNotUsable(t *testing.T) {
	m := health.NewManager(0, 0)
	if m.Usable("ghost") {
		t.Error("unregistered provider must not be usable")
	}
}
