package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"grid-reliability/internal/observability/metrics"
	reliability "grid-reliability/internal/reliability/domain"
)

// RecordSource provides a read-only snapshot of fault records.
type RecordSource interface {
	Records(ctx context.Context) ([]reliability.FaultRecord, error)
}

// PopulationSource provides district population denominators.
type PopulationSource interface {
	DistrictPopulation(ctx context.Context, districtID string) (reliability.PopulationSplit, error)
	ListDistricts(ctx context.Context, regionID string) ([]reliability.District, error)
}

// Query is the immutable filter selection of one computation.
type Query struct {
	Scope    reliability.Scope
	Criteria reliability.Criteria
	Selector reliability.Selector
	Params   reliability.WindowParams
}

// Report is the result of one index computation.
type Report struct {
	ID          string
	GeneratedAt time.Time
	Query       Query
	Window      reliability.TimeWindow
	Denominator reliability.PopulationSplit
	Indices     reliability.IndexSet
	Summary     reliability.Summary
	Records     []reliability.FaultRecord
}

// Service computes reliability indices over collaborator snapshots.
type Service struct {
	records         RecordSource
	population      PopulationSource
	clock           reliability.Clock
	logger          logrus.FieldLogger
	tracker         reliability.InterruptionTracker
	defaultSelector reliability.Selector
}

// Option configures the service.
type Option func(*Service)

// WithTracker overrides the interruption tracker.
func WithTracker(tracker reliability.InterruptionTracker) Option {
	return func(s *Service) {
		if tracker != nil {
			s.tracker = tracker
		}
	}
}

// WithDefaultSelector sets the selector used when a query carries none.
func WithDefaultSelector(selector reliability.Selector) Option {
	return func(s *Service) {
		if _, ok := reliability.ParseSelector(string(selector)); ok {
			s.defaultSelector = selector
		}
	}
}

// NewService constructs a Service.
func NewService(records RecordSource, population PopulationSource, clock reliability.Clock, logger logrus.FieldLogger, opts ...Option) (*Service, error) {
	if records == nil {
		return nil, errors.New("reliability service: nil record source")
	}
	if population == nil {
		return nil, errors.New("reliability service: nil population source")
	}
	if clock == nil {
		clock = reliability.SystemClock{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Service{
		records:         records,
		population:      population,
		clock:           clock,
		logger:          logger,
		tracker:         reliability.NewSyntheticKeyTracker(reliability.DefaultMomentaryThreshold),
		defaultSelector: reliability.SelectorAll,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// EffectiveSelector returns the selector a query runs with.
func (s *Service) EffectiveSelector(selector reliability.Selector) reliability.Selector {
	if selector == "" {
		return s.defaultSelector
	}
	return selector
}

// ResolveWindow resolves a selector against the service clock.
func (s *Service) ResolveWindow(selector reliability.Selector, params reliability.WindowParams) reliability.TimeWindow {
	return reliability.ResolveWindow(s.EffectiveSelector(selector), params, s.clock.Now())
}

// FilteredRecords returns the records matching the query and the window used.
func (s *Service) FilteredRecords(ctx context.Context, q Query) ([]reliability.FaultRecord, reliability.TimeWindow, error) {
	window := s.ResolveWindow(q.Selector, q.Params)
	records, err := s.records.Records(ctx)
	if err != nil {
		return nil, window, err
	}
	filtered := reliability.Filter(records, q.Scope, window, q.Criteria, s.diagnostics())
	return filtered, window, nil
}

// ComputeIndices filters the current snapshot and aggregates the indices for
// the query scope.
func (s *Service) ComputeIndices(ctx context.Context, q Query) (report *Report, err error) {
	start := time.Now()
	defer func() {
		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultError
		}
		metrics.ObserveComputeIndices(result, time.Since(start))
	}()

	q.Selector = s.EffectiveSelector(q.Selector)
	window := reliability.ResolveWindow(q.Selector, q.Params, s.clock.Now())

	records, err := s.records.Records(ctx)
	if err != nil {
		return nil, err
	}
	table, err := s.populationTable(ctx, q.Scope)
	if err != nil {
		return nil, err
	}

	engine := reliability.NewEngine(s.tracker, s.diagnostics())
	filtered, indices := engine.Compute(records, q.Scope, window, q.Criteria, table)

	report = &Report{
		ID:          uuid.NewString(),
		GeneratedAt: s.clock.Now(),
		Query:       q,
		Window:      window,
		Denominator: table.Denominator(q.Scope),
		Indices:     indices,
		Summary:     reliability.Summarize(filtered),
		Records:     filtered,
	}
	s.logger.WithFields(logrus.Fields{
		"report_id":   report.ID,
		"selector":    q.Selector,
		"region_id":   q.Scope.RegionID,
		"district_id": q.Scope.DistrictID,
		"records":     len(records),
		"filtered":    len(filtered),
	}).Debug("reliability indices computed")
	return report, nil
}

// populationTable loads only the districts the scope can resolve against.
// A district outside the scoped region resolves to an empty table.
func (s *Service) populationTable(ctx context.Context, scope reliability.Scope) (reliability.PopulationTable, error) {
	regionID := scope.RegionID
	if regionID == "all" {
		regionID = ""
	}
	if scope.DistrictID != "" && scope.DistrictID != "all" {
		if regionID != "" {
			return s.regionDistrictTable(ctx, regionID, scope.DistrictID)
		}
		split, err := s.population.DistrictPopulation(ctx, scope.DistrictID)
		if err != nil {
			if errors.Is(err, ErrDistrictNotFound) {
				return reliability.NewPopulationTable(nil), nil
			}
			return reliability.PopulationTable{}, err
		}
		return reliability.NewPopulationTable([]reliability.District{
			{ID: scope.DistrictID, Population: split},
		}), nil
	}

	districts, err := s.population.ListDistricts(ctx, regionID)
	if err != nil {
		return reliability.PopulationTable{}, err
	}
	return reliability.NewPopulationTable(districts), nil
}

func (s *Service) regionDistrictTable(ctx context.Context, regionID, districtID string) (reliability.PopulationTable, error) {
	districts, err := s.population.ListDistricts(ctx, regionID)
	if err != nil {
		return reliability.PopulationTable{}, err
	}
	for _, d := range districts {
		if d.ID == districtID {
			return reliability.NewPopulationTable([]reliability.District{d}), nil
		}
	}
	s.logger.WithFields(logrus.Fields{
		"region_id":   regionID,
		"district_id": districtID,
	}).Debug("district outside region scope")
	return reliability.NewPopulationTable(nil), nil
}

func (s *Service) diagnostics() reliability.Diagnostics {
	return logDiagnostics{logger: s.logger}
}
