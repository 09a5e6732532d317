package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	reliability "grid-reliability/internal/reliability/domain"
)

func TestParseQuery(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	r := httptest.NewRequest(http.MethodGet,
		"/api/v1/reliability/indices?selector=customWeekRange&start_week=12&end_week=x&year=2023&days=-2"+
			"&region_id=r-1&district_id=all&status=pending&fault_type=planned&start_month=2024-02&end=2024-03-05", nil)

	q := parseQuery(r, loc)
	if q.Selector != reliability.SelectorCustomWeekRange {
		t.Fatalf("unexpected selector %q", q.Selector)
	}
	if q.Params.StartWeek != 12 || q.Params.EndWeek != 0 || q.Params.Year != 2023 || q.Params.Days != -2 {
		t.Fatalf("unexpected numeric params: %+v", q.Params)
	}
	if q.Scope.RegionID != "r-1" || q.Scope.DistrictID != "all" {
		t.Fatalf("unexpected scope: %+v", q.Scope)
	}
	if q.Criteria.Status != reliability.StatusPending || q.Criteria.FaultType != "planned" {
		t.Fatalf("unexpected criteria: %+v", q.Criteria)
	}
	wantMonth := time.Date(2024, time.February, 1, 0, 0, 0, 0, loc)
	if !q.Params.StartMonth.Equal(wantMonth) {
		t.Fatalf("unexpected start month %v", q.Params.StartMonth)
	}
	wantEnd := time.Date(2024, time.March, 6, 0, 0, 0, 0, loc).Add(-time.Nanosecond)
	if !q.Params.End.Equal(wantEnd) {
		t.Fatalf("expected bare end date to cover the day, got %v", q.Params.End)
	}
	if !q.Params.Start.IsZero() {
		t.Fatalf("expected absent start")
	}
}

func TestParseQuery_InstantEndKeptAsIs(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x?end=2024-03-05T10:30:00Z", nil)
	q := parseQuery(r, time.UTC)
	want := time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)
	if !q.Params.End.Equal(want) {
		t.Fatalf("expected %v, got %v", want, q.Params.End)
	}
}
