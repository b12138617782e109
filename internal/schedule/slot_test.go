package schedule

import "testing"

func TestEndTime(t *testing.T) {
	cases := []struct {
		start    string
		sessions int
		want     string
	}{
		{"07:20", 1, "08:10"},
		{"07:20", 2, "09:00"},
		{"13:00", 3, "15:30"},
		{"7.30", 1, "08:20"},
		{"09:45", 4, "13:05"},
		{"23:30", 2, "01:10"},
		{"23:10", 1, "00:00"},
		{"10:00:00", 2, "11:40"},
	}
	for _, tc := range cases {
		got, err := EndTime(tc.start, tc.sessions)
		if err != nil {
			t.Fatalf("EndTime(%q, %d) failed: %v", tc.start, tc.sessions, err)
		}
		if got != tc.want {
			t.Fatalf("EndTime(%q, %d) = %q, want %q", tc.start, tc.sessions, got, tc.want)
		}
	}
}

func TestEndTimeMatchesArithmeticForAllStarts(t *testing.T) {
	for start := 0; start < minutesPerDay; start += 7 {
		for sessions := 1; sessions <= 6; sessions++ {
			got, err := EndTime(formatClock(start), sessions)
			if err != nil {
				t.Fatalf("EndTime failed: %v", err)
			}
			want := formatClock((start + sessions*SessionMinutes) % minutesPerDay)
			if got != want {
				t.Fatalf("start %s sessions %d: got %s want %s", formatClock(start), sessions, got, want)
			}
		}
	}
}

func TestEndTimeRejectsBadInput(t *testing.T) {
	for _, start := range []string{"", "7", "24:00", "12:60", "ab:cd", ":30", "12:"} {
		if _, err := EndTime(start, 1); err == nil {
			t.Fatalf("expected error for %q", start)
		}
	}
	if _, err := EndTime("08:00", 0); err == nil {
		t.Fatalf("expected error for zero sessions")
	}
}
