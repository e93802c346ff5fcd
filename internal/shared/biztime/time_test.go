package biztime

import (
	"testing"
	"time"
)

func TestWholeDaysBetween(t *testing.T) {
	tests := []struct {
		name    string
		earlier time.Time
		later   time.Time
		want    int
	}{
		{
			name:    "same instant",
			earlier: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
			later:   time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
			want:    0,
		},
		{
			name:    "same date different times",
			earlier: time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC),
			later:   time.Date(2025, 3, 10, 0, 1, 0, 0, time.UTC),
			want:    0,
		},
		{
			name:    "consecutive dates across midnight",
			earlier: time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC),
			later:   time.Date(2025, 3, 11, 0, 1, 0, 0, time.UTC),
			want:    1,
		},
		{
			name:    "three day gap",
			earlier: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
			later:   time.Date(2025, 3, 13, 20, 0, 0, 0, time.UTC),
			want:    3,
		},
		{
			name:    "month boundary",
			earlier: time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC),
			later:   time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC),
			want:    1,
		},
		{
			name:    "later before earlier",
			earlier: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
			later:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			want:    -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WholeDaysBetween(tt.earlier, tt.later); got != tt.want {
				t.Errorf("WholeDaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStartOfMonth(t *testing.T) {
	got := StartOfMonth(time.Date(2025, 7, 19, 13, 45, 2, 0, time.UTC))
	want := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfMonth() = %v, want %v", got, want)
	}
}

func TestNextMonthStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "mid month",
			in:   time.Date(2025, 7, 19, 13, 45, 2, 0, time.UTC),
			want: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "december rolls into next year",
			in:   time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC),
			want: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextMonthStart(tt.in); !got.Equal(tt.want) {
				t.Errorf("NextMonthStart() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSameMonth(t *testing.T) {
	a := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, 7, 31, 23, 59, 59, 0, time.UTC)
	if !SameMonth(a, b) {
		t.Errorf("SameMonth() = false, want true")
	}
	c := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	if SameMonth(a, c) {
		t.Errorf("SameMonth() across years = true, want false")
	}
}
