package enums

import (
	"testing"
	"time"
)

func TestJobStatusTransitions(t *testing.T) {
	cases := []struct {
		from    JobStatus
		to      JobStatus
		allowed bool
	}{
		{JobStatusReceived, JobStatusInProgress, true},
		{JobStatusInProgress, JobStatusReady, true},
		{JobStatusReady, JobStatusDelivered, true},
		{JobStatusReceived, JobStatusCancelled, true},
		{JobStatusInProgress, JobStatusCancelled, true},
		{JobStatusReady, JobStatusCancelled, true},
		{JobStatusReceived, JobStatusDelivered, false},
		{JobStatusReceived, JobStatusReady, false},
		{JobStatusDelivered, JobStatusReceived, false},
		{JobStatusDelivered, JobStatusCancelled, false},
		{JobStatusCancelled, JobStatusInProgress, false},
		{JobStatusReady, JobStatusReceived, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected allowed=%v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestJobStatusSameStatusIsNoOp(t *testing.T) {
	for _, status := range validJobStatuses {
		if !status.CanTransitionTo(status) {
			t.Errorf("expected %s -> %s to be permitted as a no-op", status, status)
		}
	}
}

func TestJobStatusTerminal(t *testing.T) {
	if !JobStatusDelivered.IsTerminal() || !JobStatusCancelled.IsTerminal() {
		t.Fatal("delivered and cancelled must be terminal")
	}
	if JobStatusReceived.IsTerminal() || JobStatusReady.IsTerminal() {
		t.Fatal("received and ready must not be terminal")
	}
}

func TestParseJobStatus(t *testing.T) {
	if _, err := ParseJobStatus("shipped"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	got, err := ParseJobStatus("in_progress")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != JobStatusInProgress {
		t.Fatalf("expected in_progress, got %s", got)
	}
}

func TestDeriveWarrantyStatus(t *testing.T) {
	expires := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	before := time.Date(2025, 1, 30, 12, 0, 0, 0, time.UTC)
	if got := DeriveWarrantyStatus(WarrantyStatusActive, expires, before); got != WarrantyStatusActive {
		t.Fatalf("expected active before expiry, got %s", got)
	}

	after := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	if got := DeriveWarrantyStatus(WarrantyStatusActive, expires, after); got != WarrantyStatusExpired {
		t.Fatalf("expected expired after expiry despite stored active, got %s", got)
	}

	// repeated evaluation at the same instant is stable
	if first, second := DeriveWarrantyStatus(WarrantyStatusActive, expires, after), DeriveWarrantyStatus(WarrantyStatusActive, expires, after); first != second {
		t.Fatalf("derivation not idempotent: %s vs %s", first, second)
	}

	if got := DeriveWarrantyStatus(WarrantyStatusExpired, expires, before); got != WarrantyStatusExpired {
		t.Fatalf("stored expired must stay expired, got %s", got)
	}
}
