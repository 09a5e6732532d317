package reliability

import (
	"testing"
	"time"
)

func TestResolveWindow_Presets(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	lastNanos := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	}

	cases := []struct {
		name      string
		selector  Selector
		params    WindowParams
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "today",
			selector:  SelectorToday,
			wantStart: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   lastNanos(2024, time.March, 15),
		},
		{
			name:      "yesterday",
			selector:  SelectorYesterday,
			wantStart: time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC),
			wantEnd:   lastNanos(2024, time.March, 14),
		},
		{
			name:      "last n days spans n+1 calendar days",
			selector:  SelectorLastNDays,
			params:    WindowParams{Days: 2},
			wantStart: time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC),
			wantEnd:   lastNanos(2024, time.March, 15),
		},
		{
			name:      "last 7 days",
			selector:  SelectorLast7Days,
			wantStart: time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC),
			wantEnd:   lastNanos(2024, time.March, 15),
		},
		{
			name:      "last 30 days crosses february",
			selector:  SelectorLast30Days,
			wantStart: time.Date(2024, time.February, 14, 0, 0, 0, 0, time.UTC),
			wantEnd:   lastNanos(2024, time.March, 15),
		},
		{
			name:      "last calendar year",
			selector:  SelectorLastCalendarYear,
			wantStart: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   lastNanos(2023, time.December, 31),
		},
		{
			name:     "custom range swapped",
			selector: SelectorCustomRange,
			params: WindowParams{
				Start: time.Date(2024, time.February, 10, 8, 0, 0, 0, time.UTC),
				End:   time.Date(2024, time.February, 1, 8, 0, 0, 0, time.UTC),
			},
			wantStart: time.Date(2024, time.February, 1, 8, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.February, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			name:     "custom month range swapped",
			selector: SelectorCustomMonthRange,
			params: WindowParams{
				StartMonth: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
				EndMonth:   time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			},
			wantStart: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   lastNanos(2024, time.May, 31),
		},
		{
			name:      "custom year range",
			selector:  SelectorCustomYearRange,
			params:    WindowParams{StartYear: 2021, EndYear: 2022},
			wantStart: time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   lastNanos(2022, time.December, 31),
		},
		{
			name:      "custom week range swapped",
			selector:  SelectorCustomWeekRange,
			params:    WindowParams{StartWeek: 10, EndWeek: 5, Year: 2024},
			wantStart: time.Date(2024, time.January, 29, 0, 0, 0, 0, time.UTC),
			wantEnd:   lastNanos(2024, time.March, 10),
		},
		{
			name:      "missing month params fall back to current year",
			selector:  SelectorCustomMonthRange,
			wantStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   lastNanos(2024, time.December, 31),
		},
		{
			name:      "missing range end falls back to current year",
			selector:  SelectorCustomRange,
			params:    WindowParams{Start: now},
			wantStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   lastNanos(2024, time.December, 31),
		},
		{
			name:      "last n days without n falls back to current year",
			selector:  SelectorLastNDays,
			wantStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   lastNanos(2024, time.December, 31),
		},
		{
			name:      "unknown selector falls back to current year",
			selector:  Selector("nextFortnight"),
			wantStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   lastNanos(2024, time.December, 31),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveWindow(tc.selector, tc.params, now)
			if !got.Start.Equal(tc.wantStart) {
				t.Fatalf("start: expected %s, got %s", tc.wantStart, got.Start)
			}
			if !got.End.Equal(tc.wantEnd) {
				t.Fatalf("end: expected %s, got %s", tc.wantEnd, got.End)
			}
		})
	}
}

func TestResolveWindow_AllIsUnbounded(t *testing.T) {
	window := ResolveWindow(SelectorAll, WindowParams{}, time.Now())
	if !window.IsUnbounded() {
		t.Fatalf("expected unbounded window, got %+v", window)
	}
	if !window.Contains(time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unbounded window must contain any instant")
	}
}

// Weeks count from January 1st rather than ISO Mondays. 2025-01-01 is a
// Wednesday, so ISO week 2 would start on 2025-01-06; here it starts on 2025-01-08.
func TestResolveWindow_WeekArithmeticIsNotISO(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	window := ResolveWindow(SelectorCustomWeekRange, WindowParams{StartWeek: 2, EndWeek: 2, Year: 2025}, now)

	wantStart := time.Date(2025, time.January, 8, 0, 0, 0, 0, time.UTC)
	if !window.Start.Equal(wantStart) {
		t.Fatalf("expected week 2 to start %s, got %s", wantStart, window.Start)
	}
	wantEnd := time.Date(2025, time.January, 14, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	if !window.End.Equal(wantEnd) {
		t.Fatalf("expected week 2 to end %s, got %s", wantEnd, window.End)
	}
}

func TestResolveWindow_WeekRangeWithoutYearFallsBack(t *testing.T) {
	now := time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)
	window := ResolveWindow(SelectorCustomWeekRange, WindowParams{StartWeek: 2, EndWeek: 4}, now)

	want := ResolveWindow(Selector("unknown"), WindowParams{}, now)
	if !window.Start.Equal(want.Start) || !window.End.Equal(want.End) {
		t.Fatalf("expected calendar year fallback %+v, got %+v", want, window)
	}
	if !window.Start.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected fallback start %s", window.Start)
	}
}

func TestResolveWindow_UsesNowLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	now := time.Date(2024, time.March, 15, 1, 0, 0, 0, loc)

	window := ResolveWindow(SelectorToday, WindowParams{}, now)
	want := time.Date(2024, time.March, 15, 0, 0, 0, 0, loc)
	if !window.Start.Equal(want) {
		t.Fatalf("expected local start of day %s, got %s", want, window.Start)
	}
}

func TestResolveWindow_Deterministic(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	params := WindowParams{StartWeek: 3, EndWeek: 9, Year: 2023}
	first := ResolveWindow(SelectorCustomWeekRange, params, now)
	second := ResolveWindow(SelectorCustomWeekRange, params, now)
	if first != second {
		t.Fatalf("expected identical windows, got %+v and %+v", first, second)
	}
}

func TestParseSelector(t *testing.T) {
	if s, ok := ParseSelector("last30Days"); !ok || s != SelectorLast30Days {
		t.Fatalf("expected last30Days, got %q %v", s, ok)
	}
	if _, ok := ParseSelector("last31Days"); ok {
		t.Fatalf("expected unknown selector to be rejected")
	}
}
