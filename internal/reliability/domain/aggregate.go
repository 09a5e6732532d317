package reliability

import "github.com/shopspring/decimal"

const outputPlaces = 2

// Indices are the five reliability indices of one segment or of the total.
type Indices struct {
	SAIDI float64 `json:"saidi"`
	SAIFI float64 `json:"saifi"`
	CAIDI float64 `json:"caidi"`
	CAIFI float64 `json:"caifi"`
	MAIFI float64 `json:"maifi"`
}

// Rounded rounds every index to two decimals.
func (i Indices) Rounded() Indices {
	return Indices{
		SAIDI: round(i.SAIDI),
		SAIFI: round(i.SAIFI),
		CAIDI: round(i.CAIDI),
		CAIFI: round(i.CAIFI),
		MAIFI: round(i.MAIFI),
	}
}

// IndexSet holds per-segment indices plus the population-weighted total.
type IndexSet struct {
	Rural Indices `json:"rural"`
	Urban Indices `json:"urban"`
	Metro Indices `json:"metro"`
	Total Indices `json:"total"`
}

// Segment returns the indices of one segment.
func (s IndexSet) Segment(seg Segment) Indices {
	switch seg {
	case SegmentRural:
		return s.Rural
	case SegmentUrban:
		return s.Urban
	case SegmentMetro:
		return s.Metro
	default:
		return Indices{}
	}
}

// Rounded rounds every index of the set.
func (s IndexSet) Rounded() IndexSet {
	return IndexSet{
		Rural: s.Rural.Rounded(),
		Urban: s.Urban.Rounded(),
		Metro: s.Metro.Rounded(),
		Total: s.Total.Rounded(),
	}
}

// AggregateUnrounded applies the index formulas at full precision.
// Total is computed from the summed raw accumulators against the summed
// denominator, never by averaging segment indices.
func AggregateUnrounded(acc Accumulators, denominator PopulationSplit) IndexSet {
	return IndexSet{
		Rural: indicesFor(acc.Rural, denominator.Rural),
		Urban: indicesFor(acc.Urban, denominator.Urban),
		Metro: indicesFor(acc.Metro, denominator.Metro),
		Total: indicesFor(acc.Sum(), denominator.Total()),
	}
}

// Aggregate applies the index formulas and rounds the result.
func Aggregate(acc Accumulators, denominator PopulationSplit) IndexSet {
	return AggregateUnrounded(acc, denominator).Rounded()
}

func indicesFor(acc SegmentAccumulator, served int64) Indices {
	var out Indices
	if served > 0 {
		p := float64(served)
		out.SAIDI = acc.CustomerHoursLost / p
		out.SAIFI = float64(acc.AffectedCustomers) / p
		out.MAIFI = float64(acc.MomentaryInterruptions) / p
	}
	if out.SAIFI > 0 {
		out.CAIDI = out.SAIDI / out.SAIFI
	}
	if acc.DistinctCount > 0 {
		out.CAIFI = float64(acc.TotalInterruptions) / float64(acc.DistinctCount)
	}
	return out
}

func round(v float64) float64 {
	rounded, _ := decimal.NewFromFloat(v).Round(outputPlaces).Float64()
	return rounded
}

// Engine composes filter, tracker and aggregator over a snapshot.
type Engine struct {
	Tracker     InterruptionTracker
	Diagnostics Diagnostics
}

// NewEngine builds an engine; nil collaborators fall back to defaults.
func NewEngine(tracker InterruptionTracker, diag Diagnostics) Engine {
	if tracker == nil {
		tracker = NewSyntheticKeyTracker(DefaultMomentaryThreshold)
	}
	if diag == nil {
		diag = NopDiagnostics{}
	}
	return Engine{Tracker: tracker, Diagnostics: diag}
}

// Compute filters records, accumulates them and aggregates against the
// denominator resolved for scope. It returns the filtered records alongside
// the rounded indices.
func (e Engine) Compute(records []FaultRecord, scope Scope, window TimeWindow, criteria Criteria, table PopulationTable) ([]FaultRecord, IndexSet) {
	tracker := e.Tracker
	if tracker == nil {
		tracker = NewSyntheticKeyTracker(DefaultMomentaryThreshold)
	}
	filtered := Filter(records, scope, window, criteria, e.Diagnostics)
	acc := tracker.Accumulate(filtered)
	return filtered, Aggregate(acc, table.Denominator(scope))
}

// ComputeIndices runs the engine with default tracker and no extra criteria.
func ComputeIndices(records []FaultRecord, scope Scope, window TimeWindow, table PopulationTable) IndexSet {
	_, indices := NewEngine(nil, nil).Compute(records, scope, window, Criteria{}, table)
	return indices
}
