package reliability

import "time"

// Selector names a time-window preset or custom range kind.
type Selector string

const (
	SelectorAll              Selector = "all"
	SelectorToday            Selector = "today"
	SelectorYesterday        Selector = "yesterday"
	SelectorLastNDays        Selector = "lastNDays"
	SelectorLast7Days        Selector = "last7Days"
	SelectorLast30Days       Selector = "last30Days"
	SelectorLastCalendarYear Selector = "lastCalendarYear"
	SelectorCustomRange      Selector = "customRange"
	SelectorCustomMonthRange Selector = "customMonthRange"
	SelectorCustomYearRange  Selector = "customYearRange"
	SelectorCustomWeekRange  Selector = "customWeekRange"
)

// ParseSelector validates a selector name.
func ParseSelector(value string) (Selector, bool) {
	switch Selector(value) {
	case SelectorAll, SelectorToday, SelectorYesterday, SelectorLastNDays,
		SelectorLast7Days, SelectorLast30Days, SelectorLastCalendarYear,
		SelectorCustomRange, SelectorCustomMonthRange, SelectorCustomYearRange,
		SelectorCustomWeekRange:
		return Selector(value), true
	default:
		return "", false
	}
}

// WindowParams carries the optional parameters of the custom selectors.
// Zero values mean "not provided".
type WindowParams struct {
	Days       int
	Start      time.Time
	End        time.Time
	StartMonth time.Time
	EndMonth   time.Time
	StartYear  int
	EndYear    int
	StartWeek  int
	EndWeek    int
	Year       int
}

// TimeWindow is a resolved interval. Both bounds are compared inclusively by the
// filter; End is the last nanosecond of its calendar unit for preset selectors.
// The zero TimeWindow is unbounded.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// IsUnbounded reports whether the window applies no time restriction.
func (w TimeWindow) IsUnbounded() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// Contains reports whether t falls inside the window, both ends inclusive.
func (w TimeWindow) Contains(t time.Time) bool {
	if w.IsUnbounded() {
		return true
	}
	return !t.Before(w.Start) && !t.After(w.End)
}

// ResolveWindow turns a selector and its parameters into a concrete window,
// computed in now's location. It never fails: missing or malformed custom
// parameters and unknown selectors resolve to the calendar year containing now.
func ResolveWindow(selector Selector, params WindowParams, now time.Time) TimeWindow {
	loc := now.Location()

	switch selector {
	case SelectorAll:
		return TimeWindow{}
	case SelectorToday:
		return TimeWindow{Start: startOfDay(now), End: endOfDay(now)}
	case SelectorYesterday:
		day := now.AddDate(0, 0, -1)
		return TimeWindow{Start: startOfDay(day), End: endOfDay(day)}
	case SelectorLastNDays:
		if params.Days < 1 {
			return defaultWindow(now)
		}
		return lastNDays(now, params.Days)
	case SelectorLast7Days:
		return lastNDays(now, 7)
	case SelectorLast30Days:
		return lastNDays(now, 30)
	case SelectorLastCalendarYear:
		start := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, loc)
		return TimeWindow{Start: start, End: endOfYear(start)}
	case SelectorCustomRange:
		if params.Start.IsZero() || params.End.IsZero() {
			return defaultWindow(now)
		}
		start, end := params.Start, params.End
		if start.After(end) {
			start, end = end, start
		}
		return TimeWindow{Start: start, End: end}
	case SelectorCustomMonthRange:
		if params.StartMonth.IsZero() || params.EndMonth.IsZero() {
			return defaultWindow(now)
		}
		start := time.Date(params.StartMonth.Year(), params.StartMonth.Month(), 1, 0, 0, 0, 0, loc)
		end := time.Date(params.EndMonth.Year(), params.EndMonth.Month(), 1, 0, 0, 0, 0, loc)
		if start.After(end) {
			start, end = end, start
		}
		return TimeWindow{Start: start, End: endOfMonth(end)}
	case SelectorCustomYearRange:
		if params.StartYear <= 0 || params.EndYear <= 0 {
			return defaultWindow(now)
		}
		startYear, endYear := params.StartYear, params.EndYear
		if startYear > endYear {
			startYear, endYear = endYear, startYear
		}
		start := time.Date(startYear, time.January, 1, 0, 0, 0, 0, loc)
		return TimeWindow{Start: start, End: endOfYear(time.Date(endYear, time.January, 1, 0, 0, 0, 0, loc))}
	case SelectorCustomWeekRange:
		if params.StartWeek < 1 || params.EndWeek < 1 || params.Year <= 0 {
			return defaultWindow(now)
		}
		year := params.Year
		startWeek, endWeek := params.StartWeek, params.EndWeek
		if startWeek > endWeek {
			startWeek, endWeek = endWeek, startWeek
		}
		start := weekStart(year, startWeek, loc)
		end := weekStart(year, endWeek, loc).AddDate(0, 0, 7).Add(-time.Nanosecond)
		return TimeWindow{Start: start, End: end}
	default:
		return defaultWindow(now)
	}
}

func lastNDays(now time.Time, n int) TimeWindow {
	return TimeWindow{Start: startOfDay(now.AddDate(0, 0, -n)), End: endOfDay(now)}
}

func defaultWindow(now time.Time) TimeWindow {
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return TimeWindow{Start: start, End: endOfYear(start)}
}

// weekStart counts weeks from January 1st in 7-day steps. Weeks are not aligned
// to Mondays and do not follow ISO-8601 numbering.
func weekStart(year, week int, loc *time.Location) time.Time {
	return time.Date(year, time.January, 1+(week-1)*7, 0, 0, 0, 0, loc)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func endOfMonth(monthStart time.Time) time.Time {
	return monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
}

func endOfYear(yearStart time.Time) time.Time {
	return yearStart.AddDate(1, 0, 0).Add(-time.Nanosecond)
}
