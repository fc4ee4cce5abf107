package calendar

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)

	tests := []struct {
		name     string
		in       time.Time
		expected string
	}{
		{"utc midnight", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "2024-01-01T00:00:00Z"},
		{"utc afternoon", time.Date(2024, 1, 1, 15, 30, 12, 99, time.UTC), "2024-01-01T00:00:00Z"},
		{"offset crosses midnight", time.Date(2024, 1, 1, 22, 0, 0, 0, est), "2024-01-02T00:00:00Z"},
		{"end of day", time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC), "2024-02-29T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got.Format(time.RFC3339) != tt.expected {
				t.Errorf("Normalize(%v) = %s, want %s", tt.in, got.Format(time.RFC3339), tt.expected)
			}
			if got.Location() != time.UTC {
				t.Errorf("Normalize(%v) location = %v, want UTC", tt.in, got.Location())
			}
		})
	}
}

func TestWeekdayOf(t *testing.T) {
	tests := []struct {
		date     string
		expected int
	}{
		{"2023-12-31", 0}, // Sunday
		{"2024-01-01", 1}, // Monday
		{"2024-01-02", 2},
		{"2024-01-03", 3},
		{"2024-01-05", 5},
		{"2024-01-06", 6}, // Saturday
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			day, err := Parse(tt.date)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.date, err)
			}
			if got := WeekdayOf(day); got != tt.expected {
				t.Errorf("WeekdayOf(%s) = %d, want %d", tt.date, got, tt.expected)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
		wantErr  bool
	}{
		{"date only", "2024-01-15", "2024-01-15", false},
		{"padded", "  2024-01-15 ", "2024-01-15", false},
		{"rfc3339", "2024-01-15T18:45:00Z", "2024-01-15", false},
		{"rfc3339 with offset", "2024-01-15T22:00:00-05:00", "2024-01-16", false},
		{"empty", "", "", true},
		{"garbage", "yesterday", "", true},
		{"bad month", "2024-13-01", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.in, err)
			}
			if Format(got) != tt.expected {
				t.Errorf("Parse(%q) = %s, want %s", tt.in, Format(got), tt.expected)
			}
		})
	}
}

func TestToday(t *testing.T) {
	clock := func() time.Time { return time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC) }
	if got := Format(Today(clock)); got != "2024-01-01" {
		t.Errorf("Today() = %s, want 2024-01-01", got)
	}
}

func TestValidWeekDay(t *testing.T) {
	for w := -1; w <= 7; w++ {
		want := w >= 0 && w <= 6
		if got := ValidWeekDay(w); got != want {
			t.Errorf("ValidWeekDay(%d) = %v, want %v", w, got, want)
		}
	}
}

func TestFormatWeekDays(t *testing.T) {
	tests := []struct {
		days     []int
		expected string
	}{
		{nil, "never"},
		{[]int{5, 1, 3}, "Mon,Wed,Fri"},
		{[]int{0}, "Sun"},
		{[]int{1, 1, 2}, "Mon,Tue"},
		{[]int{6, 5, 4, 3, 2, 1, 0}, "daily"},
	}

	for _, tt := range tests {
		if got := FormatWeekDays(tt.days); got != tt.expected {
			t.Errorf("FormatWeekDays(%v) = %q, want %q", tt.days, got, tt.expected)
		}
	}
}
