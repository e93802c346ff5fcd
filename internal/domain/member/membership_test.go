package member

import (
	"testing"
	"time"
)

func newTestMembership(t *testing.T) *Membership {
	t.Helper()
	m, err := NewMembership(1, "user-1", time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewMembership() unexpected error = %v", err)
	}
	return m
}

func TestNewMembership(t *testing.T) {
	m := newTestMembership(t)

	if !m.Verified() {
		t.Errorf("fresh membership verified = false, want true")
	}
	if !m.ImmersionEnabled() {
		t.Errorf("fresh membership immersion = false, want true")
	}
	if m.CurrentStreak() != 0 || m.LongestStreak() != 0 {
		t.Errorf("fresh streaks = %d/%d, want 0/0", m.CurrentStreak(), m.LongestStreak())
	}

	if _, err := NewMembership(0, "u", time.Now()); err != ErrZeroTenantID {
		t.Errorf("zero tenant ID error = %v, want %v", err, ErrZeroTenantID)
	}
	if _, err := NewMembership(1, "", time.Now()); err != ErrEmptyUserID {
		t.Errorf("empty user ID error = %v, want %v", err, ErrEmptyUserID)
	}
}

func TestRecordActivityStreaks(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, 3, d, 15, 30, 0, 0, time.UTC)
	}

	tests := []struct {
		name        string
		activeDays  []int
		wantCurrent int
		wantLongest int
	}{
		{name: "first ever activity", activeDays: []int{5}, wantCurrent: 1, wantLongest: 1},
		{name: "same day twice", activeDays: []int{5, 5}, wantCurrent: 1, wantLongest: 1},
		{name: "consecutive days extend", activeDays: []int{5, 6, 7}, wantCurrent: 3, wantLongest: 3},
		{name: "gap resets to one", activeDays: []int{5, 6, 7, 10}, wantCurrent: 1, wantLongest: 3},
		{name: "rebuild after gap", activeDays: []int{5, 6, 9, 10, 11, 12}, wantCurrent: 4, wantLongest: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMembership(t)
			for _, d := range tt.activeDays {
				m.RecordActivity(day(d))
			}
			if m.CurrentStreak() != tt.wantCurrent {
				t.Errorf("currentStreak = %d, want %d", m.CurrentStreak(), tt.wantCurrent)
			}
			if m.LongestStreak() != tt.wantLongest {
				t.Errorf("longestStreak = %d, want %d", m.LongestStreak(), tt.wantLongest)
			}
			if m.LongestStreak() < m.CurrentStreak() {
				t.Errorf("invariant violated: longest %d < current %d", m.LongestStreak(), m.CurrentStreak())
			}
		})
	}
}

func TestRecordActivityIgnoresTimeOfDay(t *testing.T) {
	m := newTestMembership(t)

	m.RecordActivity(time.Date(2025, 3, 5, 23, 59, 0, 0, time.UTC))
	m.RecordActivity(time.Date(2025, 3, 6, 0, 1, 0, 0, time.UTC))

	if m.CurrentStreak() != 2 {
		t.Errorf("currentStreak across midnight = %d, want 2", m.CurrentStreak())
	}
	if got := *m.LastActiveDate(); got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("lastActiveDate carries time component: %v", got)
	}
}

func TestMembershipRolloverIfDue(t *testing.T) {
	m := newTestMembership(t)
	m.AddUsage(800)

	if m.RolloverIfDue(time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC)) {
		t.Errorf("rollover within month = true, want false")
	}
	if !m.RolloverIfDue(time.Date(2025, 4, 1, 0, 30, 0, 0, time.UTC)) {
		t.Errorf("rollover in new month = false, want true")
	}
	if m.MonthlyUsage() != 0 {
		t.Errorf("monthlyUsage after rollover = %d, want 0", m.MonthlyUsage())
	}
	// Second event in the same new month is a no-op.
	m.AddUsage(100)
	if m.RolloverIfDue(time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("second rollover in same month = true, want false")
	}
	if m.MonthlyUsage() != 100 {
		t.Errorf("monthlyUsage = %d, want 100", m.MonthlyUsage())
	}
}

func TestUnlockAchievements(t *testing.T) {
	m := newTestMembership(t)

	m.UnlockAchievements([]string{"first_words", "wordsmith"})
	m.UnlockAchievements([]string{"wordsmith", "week_streak"})

	got := m.UnlockedAchievements()
	want := []string{"first_words", "wordsmith", "week_streak"}
	if len(got) != len(want) {
		t.Fatalf("unlocked = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("unlocked[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReconstructMembershipRejectsStreakInversion(t *testing.T) {
	last := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	_, err := ReconstructMembership(
		1, 1, "user-1", nil, true, true,
		0, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		5, 3, &last, 10, nil, "", false,
		time.Now(), time.Now(),
	)
	if err == nil {
		t.Errorf("Reconstruct with current > longest streak expected error")
	}
}
