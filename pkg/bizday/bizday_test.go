package bizday

import (
	"testing"
	"time"
)

// 2024-01-01 is a Monday.
func day(d int) time.Time { return time.Date(2024, 1, d, 10, 0, 0, 0, time.UTC) }

func TestCountBusinessDays(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"monday to thursday", day(1), day(4), 3},
		{"same day", day(3), day(3), 0},
		{"backward range", day(5), day(1), 0},
		{"friday to monday skips weekend", day(5), day(8), 1},
		{"saturday to sunday", day(6), day(7), 0},
		{"full week", day(1), day(8), 5},
		{"two weeks", day(1), day(15), 10},
		{"time of day ignored", time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC), time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountBusinessDays(tt.start, tt.end); got != tt.want {
				t.Fatalf("CountBusinessDays(%s, %s) = %d, want %d",
					tt.start.Format("Mon 2006-01-02"), tt.end.Format("Mon 2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestCountBusinessDays_NormalizesToUTC(t *testing.T) {
	// 2024-01-05 23:30 in UTC-5 is already Saturday in UTC.
	loc := time.FixedZone("EST", -5*3600)
	start := time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 23, 30, 0, 0, loc)
	if got := CountBusinessDays(start, end); got != 1 {
		t.Fatalf("got %d, want 1 (Friday only)", got)
	}
}

func TestCountBusinessDays_Monotonic(t *testing.T) {
	start := day(3)
	prev := 0
	for i := 0; i < 60; i++ {
		end := start.AddDate(0, 0, i)
		got := CountBusinessDays(start, end)
		if got < 0 {
			t.Fatalf("negative count %d at offset %d", got, i)
		}
		if i == 0 {
			if got != 0 {
				t.Fatalf("same-day count = %d, want 0", got)
			}
			prev = got
			continue
		}
		want := prev
		if IsBusinessDay(end) {
			want++
		}
		if got != want {
			t.Fatalf("offset %d (%s): got %d, want %d", i, end.Weekday(), got, want)
		}
		prev = got
	}
}

func TestAddBusinessDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		n     int
		want  time.Time
	}{
		{"zero returns start", day(1), 0, day(1)},
		{"negative returns start", day(1), -2, day(1)},
		{"monday plus three", day(1), 3, day(4)},
		{"thursday plus two crosses weekend", day(4), 2, day(8)},
		{"friday plus one", day(5), 1, day(8)},
		{"saturday plus one", day(6), 1, day(8)},
		{"sunday plus five", day(7), 5, day(12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddBusinessDays(tt.start, tt.n); !got.Equal(tt.want) {
				t.Fatalf("AddBusinessDays(%s, %d) = %s, want %s",
					tt.start.Format("Mon 2006-01-02"), tt.n, got.Format("Mon 2006-01-02"), tt.want.Format("Mon 2006-01-02"))
			}
		})
	}
}

func TestAddBusinessDays_ReturnsUTC(t *testing.T) {
	// Friday 20:00 in UTC-5 is Saturday 01:00 UTC.
	loc := time.FixedZone("EST", -5*3600)
	start := time.Date(2024, 1, 5, 20, 0, 0, 0, loc)
	for _, tt := range []struct {
		n    int
		want time.Time
	}{
		{0, time.Date(2024, 1, 6, 1, 0, 0, 0, time.UTC)},
		{-1, time.Date(2024, 1, 6, 1, 0, 0, 0, time.UTC)},
		{1, time.Date(2024, 1, 8, 1, 0, 0, 0, time.UTC)},
	} {
		got := AddBusinessDays(start, tt.n)
		if got.Location() != time.UTC || !got.Equal(tt.want) {
			t.Fatalf("AddBusinessDays(n=%d) = %s (%s), want %s UTC", tt.n, got, got.Location(), tt.want)
		}
	}
}

func TestCountBusinessDays_ClosedRange(t *testing.T) {
	// (start, end] plus the start day gives the closed [start, end] count.
	for _, tt := range []struct {
		start, end time.Time
		want       int
	}{
		{day(3), day(3), 1},
		{day(6), day(6), 0},
		{day(1), day(5), 5},
	} {
		got := CountBusinessDays(tt.start, tt.end)
		if IsBusinessDay(tt.start) {
			got++
		}
		if got != tt.want {
			t.Fatalf("closed count %s..%s = %d, want %d", tt.start.Weekday(), tt.end.Weekday(), got, tt.want)
		}
	}
}

func TestAddBusinessDays_RoundTrip(t *testing.T) {
	for d := 1; d <= 14; d++ {
		start := day(d)
		for n := 0; n <= 25; n++ {
			got := AddBusinessDays(start, n)
			if n > 0 && !IsBusinessDay(got) {
				t.Fatalf("AddBusinessDays(%s, %d) landed on %s", start.Weekday(), n, got.Weekday())
			}
			if c := CountBusinessDays(start, got); c != n {
				t.Fatalf("CountBusinessDays(start, AddBusinessDays(start, %d)) = %d (start %s)", n, c, start.Weekday())
			}
		}
	}
}

func TestIsBusinessDay(t *testing.T) {
	for d, want := range map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: false, 7: false} {
		if got := IsBusinessDay(day(d)); got != want {
			t.Fatalf("IsBusinessDay(%s) = %v, want %v", day(d).Weekday(), got, want)
		}
	}
}
