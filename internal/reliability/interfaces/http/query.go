package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	reliabilityapp "grid-reliability/internal/reliability/application"
	reliability "grid-reliability/internal/reliability/domain"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
}

// parseQuery reads a computation query from URL parameters. Malformed values
// are treated as absent so the window resolver can fall back.
func parseQuery(r *http.Request, loc *time.Location) reliabilityapp.Query {
	values := r.URL.Query()
	return reliabilityapp.Query{
		Scope: reliability.Scope{
			RegionID:   strings.TrimSpace(values.Get("region_id")),
			DistrictID: strings.TrimSpace(values.Get("district_id")),
		},
		Criteria: reliability.Criteria{
			Status:    reliability.Status(strings.TrimSpace(values.Get("status"))),
			FaultType: strings.TrimSpace(values.Get("fault_type")),
		},
		Selector: reliability.Selector(strings.TrimSpace(values.Get("selector"))),
		Params: reliability.WindowParams{
			Days:       intParam(values, "days"),
			Start:      timeParam(values, "start", loc),
			End:        endParam(values, "end", loc),
			StartMonth: timeParam(values, "start_month", loc),
			EndMonth:   timeParam(values, "end_month", loc),
			StartYear:  intParam(values, "start_year"),
			EndYear:    intParam(values, "end_year"),
			StartWeek:  intParam(values, "start_week"),
			EndWeek:    intParam(values, "end_week"),
			Year:       intParam(values, "year"),
		},
	}
}

func intParam(values url.Values, key string) int {
	value := strings.TrimSpace(values.Get(key))
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return parsed
}

// endParam reads an inclusive upper bound; a bare date covers the whole day.
func endParam(values url.Values, key string, loc *time.Location) time.Time {
	end := timeParam(values, key, loc)
	if end.IsZero() {
		return end
	}
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(values.Get(key))); err == nil {
		return end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return end
}

func timeParam(values url.Values, key string, loc *time.Location) time.Time {
	value := strings.TrimSpace(values.Get(key))
	if value == "" {
		return time.Time{}
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, value, loc); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
