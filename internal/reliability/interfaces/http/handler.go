package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"grid-reliability/internal/audit"
	"grid-reliability/internal/auth"
	"grid-reliability/internal/observability/metrics"
	reliabilityapp "grid-reliability/internal/reliability/application"
	reliability "grid-reliability/internal/reliability/domain"
)

const (
	timeLayout   = time.RFC3339
	windowLayout = time.RFC3339Nano
	routePrefix  = "/api/v1/reliability/"
	routeUnknown = "unknown"
)

// Handler provides reliability HTTP endpoints.
type Handler struct {
	service     *reliabilityapp.Service
	auditLogger audit.Logger
	logger      logrus.FieldLogger
	location    *time.Location
	reportTitle string
}

// Option configures the handler.
type Option func(*Handler)

// WithAuditLogger records export actions.
func WithAuditLogger(logger audit.Logger) Option {
	return func(h *Handler) {
		h.auditLogger = logger
	}
}

// WithLocation sets the location used to read date-only query parameters.
func WithLocation(loc *time.Location) Option {
	return func(h *Handler) {
		if loc != nil {
			h.location = loc
		}
	}
}

// WithReportTitle sets the heading printed on exported reports.
func WithReportTitle(title string) Option {
	return func(h *Handler) {
		if title != "" {
			h.reportTitle = title
		}
	}
}

// NewHandler constructs a handler.
func NewHandler(service *reliabilityapp.Service, logger logrus.FieldLogger, opts ...Option) (*Handler, error) {
	if service == nil {
		return nil, errors.New("reliability handler: nil service")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	h := &Handler{
		service:     service,
		logger:      logger,
		location:    time.UTC,
		reportTitle: "Reliability Indices Report",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// ServeHTTP handles /api/v1/reliability/ subroutes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	route := strings.TrimPrefix(r.URL.Path, routePrefix)
	recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	defer func() {
		metrics.IncHTTPRequest(route, strconv.Itoa(recorder.status))
	}()

	switch route {
	case "window":
		h.handleWindow(recorder, r)
	case "indices":
		h.handleIndices(recorder, r)
	case "faults":
		h.handleFaults(recorder, r)
	case "export.csv":
		h.handleExport(recorder, r, formatCSV)
	case "export.pdf":
		h.handleExport(recorder, r, formatPDF)
	case "export.xlsx":
		h.handleExport(recorder, r, formatXLSX)
	default:
		route = routeUnknown
		recorder.WriteHeader(http.StatusNotFound)
	}
}

type windowResponse struct {
	Selector  reliability.Selector `json:"selector,omitempty"`
	Unbounded bool                 `json:"unbounded"`
	Start     string               `json:"start,omitempty"`
	End       string               `json:"end,omitempty"`
}

type indicesResponse struct {
	ReportID    string                      `json:"report_id"`
	GeneratedAt string                      `json:"generated_at"`
	RegionID    string                      `json:"region_id,omitempty"`
	DistrictID  string                      `json:"district_id,omitempty"`
	Window      windowResponse              `json:"window"`
	Denominator reliability.PopulationSplit `json:"denominator"`
	Indices     reliability.IndexSet        `json:"indices"`
	Summary     reliability.Summary         `json:"summary"`
}

type faultView struct {
	ID                 string                      `json:"id"`
	Kind               string                      `json:"kind"`
	RegionID           string                      `json:"region_id"`
	DistrictID         string                      `json:"district_id"`
	Status             string                      `json:"status"`
	FaultType          string                      `json:"fault_type,omitempty"`
	FaultLocation      string                      `json:"fault_location,omitempty"`
	OccurrenceDate     string                      `json:"occurrence_date"`
	RestorationDate    string                      `json:"restoration_date,omitempty"`
	DurationHours      float64                     `json:"duration_hours"`
	LoadMW             float64                     `json:"load_mw,omitempty"`
	UnservedEnergyMWh  float64                     `json:"unserved_energy_mwh,omitempty"`
	AffectedPopulation reliability.PopulationSplit `json:"affected_population"`
}

func (h *Handler) handleWindow(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	selector := h.service.EffectiveSelector(q.Selector)
	window := h.service.ResolveWindow(selector, q.Params)
	writeJSON(w, newWindowResponse(selector, window))
}

func (h *Handler) handleIndices(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	report, err := h.service.ComputeIndices(r.Context(), q)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	writeJSON(w, newIndicesResponse(report))
}

func (h *Handler) handleFaults(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	records, _, err := h.service.FilteredRecords(r.Context(), q)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	views := make([]faultView, 0, len(records))
	for _, rec := range records {
		views = append(views, newFaultView(rec))
	}
	writeJSON(w, views)
}

// query reads the request parameters and applies the caller's region pin.
func (h *Handler) query(w http.ResponseWriter, r *http.Request) (reliabilityapp.Query, bool) {
	q := parseQuery(r, h.location)
	region, err := auth.ResolveRegion(r.Context(), q.Scope.RegionID)
	if err != nil {
		http.Error(w, "forbidden", http.StatusForbidden)
		return q, false
	}
	q.Scope.RegionID = region
	return q, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	h.logger.WithError(err).Error("reliability request failed")
	http.Error(w, "reliability query error", http.StatusInternalServerError)
}

func (h *Handler) logAudit(r *http.Request, report *reliabilityapp.Report, format string, size int) {
	if h.auditLogger == nil || report == nil {
		return
	}
	meta, _ := json.Marshal(map[string]any{
		"format":      format,
		"selector":    report.Query.Selector,
		"district_id": report.Query.Scope.DistrictID,
		"bytes":       size,
	})
	err := h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       "reliability.export",
		ResourceType: "reliability_report",
		ResourceID:   report.ID,
		RegionID:     report.Query.Scope.RegionID,
		Metadata:     meta,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
	if err != nil {
		h.logger.WithError(err).Warn("audit export failed")
	}
}

func newWindowResponse(selector reliability.Selector, window reliability.TimeWindow) windowResponse {
	resp := windowResponse{Selector: selector, Unbounded: window.IsUnbounded()}
	if !window.IsUnbounded() {
		resp.Start = window.Start.Format(windowLayout)
		resp.End = window.End.Format(windowLayout)
	}
	return resp
}

func newIndicesResponse(report *reliabilityapp.Report) indicesResponse {
	return indicesResponse{
		ReportID:    report.ID,
		GeneratedAt: report.GeneratedAt.Format(timeLayout),
		RegionID:    report.Query.Scope.RegionID,
		DistrictID:  report.Query.Scope.DistrictID,
		Window:      newWindowResponse(report.Query.Selector, report.Window),
		Denominator: report.Denominator,
		Indices:     report.Indices,
		Summary:     report.Summary,
	}
}

func newFaultView(rec reliability.FaultRecord) faultView {
	base := rec.Base()
	view := faultView{
		ID:                 base.ID,
		Kind:               string(rec.Kind()),
		RegionID:           base.RegionID,
		DistrictID:         base.DistrictID,
		Status:             string(base.Status),
		OccurrenceDate:     base.OccurrenceDate.Format(timeLayout),
		AffectedPopulation: base.AffectedPopulation,
	}
	if !base.RestorationDate.IsZero() {
		view.RestorationDate = base.RestorationDate.Format(timeLayout)
	}
	if d, ok := base.Duration(); ok {
		view.DurationHours = d.Hours()
	}
	switch v := rec.(type) {
	case reliability.LineFault:
		view.FaultType = v.FaultType
		view.FaultLocation = v.FaultLocation
	case reliability.ControlOutage:
		view.LoadMW = v.LoadMW
		view.UnservedEnergyMWh = v.UnservedEnergyMWh
	}
	return view
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
