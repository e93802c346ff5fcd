package usage

import (
	"testing"
	"time"
)

func TestNewLogEntry(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		tenantID uint
		userID   string
		targets  []string
		wantErr  error
	}{
		{name: "zero tenant", tenantID: 0, userID: "u1", targets: []string{"ja"}, wantErr: ErrZeroTenantID},
		{name: "empty user", tenantID: 1, userID: "", targets: []string{"ja"}, wantErr: ErrEmptyUserID},
		{name: "no targets", tenantID: 1, userID: "u1", targets: nil, wantErr: ErrNoTargets},
		{name: "valid", tenantID: 1, userID: "u1", targets: []string{"ja", "fr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewLogEntry(tt.tenantID, tt.userID, "en", tt.targets, 42, now)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("NewLogEntry() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLogEntry() unexpected error: %v", err)
			}
			if e.TargetLanguages() != "ja,fr" {
				t.Errorf("targetLanguages = %q, want %q", e.TargetLanguages(), "ja,fr")
			}
			if e.CharacterCost() != 42 {
				t.Errorf("characterCost = %d, want 42", e.CharacterCost())
			}
		})
	}
}
