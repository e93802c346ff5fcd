package moderation

import (
	"testing"
	"time"
)

func TestNewBan(t *testing.T) {
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		tenantID uint
		userID   string
		wantErr  error
	}{
		{name: "valid", tenantID: 1, userID: "u1"},
		{name: "zero tenant", tenantID: 0, userID: "u1", wantErr: ErrZeroTenantID},
		{name: "empty user", tenantID: 1, userID: "", wantErr: ErrEmptyUserID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBan(tt.tenantID, tt.userID, "spam", "mod-1", nil, now)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("NewBan() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBan() unexpected error = %v", err)
			}
			if !b.Active() {
				t.Errorf("new ban active = false, want true")
			}
			if b.ExpiresAt() != nil {
				t.Errorf("permanent ban expiresAt = %v, want nil", b.ExpiresAt())
			}
		})
	}
}

func TestBanIsExpired(t *testing.T) {
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	expiry := now.Add(time.Hour)

	timed, _ := NewBan(1, "u1", "spam", "mod-1", &expiry, now)
	permanent, _ := NewBan(1, "u2", "spam", "mod-1", nil, now)

	if timed.IsExpired(now) {
		t.Errorf("ban expired before expiry")
	}
	if !timed.IsExpired(now.Add(time.Hour)) {
		t.Errorf("ban not expired exactly at expiry")
	}
	if !timed.IsExpired(now.Add(2 * time.Hour)) {
		t.Errorf("ban not expired after expiry")
	}
	if permanent.IsExpired(now.Add(24 * 365 * time.Hour)) {
		t.Errorf("permanent ban reported expired")
	}
}

func TestBanLift(t *testing.T) {
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	b, _ := NewBan(1, "u1", "spam", "mod-1", nil, now)

	if err := b.Lift("mod-2", "appealed", now.Add(time.Hour)); err != nil {
		t.Fatalf("Lift() unexpected error = %v", err)
	}
	if b.Active() {
		t.Errorf("lifted ban still active")
	}
	if b.LiftedBy() != "mod-2" {
		t.Errorf("liftedBy = %q, want mod-2", b.LiftedBy())
	}
	if err := b.Lift("mod-3", "again", now); err != ErrBanNotActive {
		t.Errorf("double lift error = %v, want %v", err, ErrBanNotActive)
	}
}

func TestBanExpire(t *testing.T) {
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	expiry := now.Add(time.Minute)
	b, _ := NewBan(1, "u1", "spam", "mod-1", &expiry, now)

	if err := b.Expire(now.Add(time.Hour)); err != nil {
		t.Fatalf("Expire() unexpected error = %v", err)
	}
	if b.Active() {
		t.Errorf("expired ban still active")
	}
	if b.LiftedBy() != "" {
		t.Errorf("expiry recorded an acting moderator: %q", b.LiftedBy())
	}
}

func TestWarningClear(t *testing.T) {
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	w, err := NewWarning(1, "u1", "language", "mod-1", now)
	if err != nil {
		t.Fatalf("NewWarning() unexpected error = %v", err)
	}
	if !w.Active() {
		t.Errorf("new warning active = false, want true")
	}
	if err := w.Clear(now.Add(time.Hour)); err != nil {
		t.Fatalf("Clear() unexpected error = %v", err)
	}
	if w.Active() {
		t.Errorf("cleared warning still active")
	}
	if err := w.Clear(now); err == nil {
		t.Errorf("double clear expected error")
	}
}
