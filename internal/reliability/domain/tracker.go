package reliability

import "time"

// DefaultMomentaryThreshold separates momentary from sustained interruptions.
const DefaultMomentaryThreshold = 5 * time.Minute

// SegmentAccumulator holds the raw interruption totals of one segment.
type SegmentAccumulator struct {
	CustomerHoursLost      float64
	AffectedCustomers      int64
	MomentaryInterruptions int64
	SustainedInterruptions int64
	TotalInterruptions     int64
	DistinctCount          int64
}

func (a SegmentAccumulator) add(other SegmentAccumulator) SegmentAccumulator {
	a.CustomerHoursLost += other.CustomerHoursLost
	a.AffectedCustomers += other.AffectedCustomers
	a.MomentaryInterruptions += other.MomentaryInterruptions
	a.SustainedInterruptions += other.SustainedInterruptions
	a.TotalInterruptions += other.TotalInterruptions
	a.DistinctCount += other.DistinctCount
	return a
}

// Accumulators are the per-segment totals produced by a tracker.
type Accumulators struct {
	Rural SegmentAccumulator
	Urban SegmentAccumulator
	Metro SegmentAccumulator
}

// Segment returns the accumulator of one segment.
func (a Accumulators) Segment(s Segment) SegmentAccumulator {
	switch s {
	case SegmentRural:
		return a.Rural
	case SegmentUrban:
		return a.Urban
	case SegmentMetro:
		return a.Metro
	default:
		return SegmentAccumulator{}
	}
}

// Sum adds the raw totals of all segments. Synthetic keys are segment-scoped,
// so distinct counts add without overlap.
func (a Accumulators) Sum() SegmentAccumulator {
	return a.Rural.add(a.Urban).add(a.Metro)
}

func (a *Accumulators) ref(s Segment) *SegmentAccumulator {
	switch s {
	case SegmentRural:
		return &a.Rural
	case SegmentUrban:
		return &a.Urban
	case SegmentMetro:
		return &a.Metro
	default:
		return nil
	}
}

// InterruptionTracker turns a filtered stream into per-segment accumulators.
type InterruptionTracker interface {
	Accumulate(records []FaultRecord) Accumulators
}

// SyntheticKeyTracker approximates distinct customers interrupted with one key
// per record and segment ("<recordID>-<segment>"). It counts distinct
// interruption events, not distinct customers.
type SyntheticKeyTracker struct {
	MomentaryThreshold time.Duration
}

// NewSyntheticKeyTracker builds a tracker; a non-positive threshold uses the default.
func NewSyntheticKeyTracker(momentaryThreshold time.Duration) SyntheticKeyTracker {
	if momentaryThreshold <= 0 {
		momentaryThreshold = DefaultMomentaryThreshold
	}
	return SyntheticKeyTracker{MomentaryThreshold: momentaryThreshold}
}

// Accumulate implements InterruptionTracker. Records without a valid outage
// window (restoration strictly after occurrence) are skipped.
func (t SyntheticKeyTracker) Accumulate(records []FaultRecord) Accumulators {
	threshold := t.MomentaryThreshold
	if threshold <= 0 {
		threshold = DefaultMomentaryThreshold
	}

	var acc Accumulators
	keys := make(map[Segment]map[string]int64, len(Segments))
	for _, s := range Segments {
		keys[s] = make(map[string]int64)
	}

	for _, rec := range records {
		if rec == nil {
			continue
		}
		base := rec.Base()
		duration, ok := base.Duration()
		if !ok {
			continue
		}
		hours := duration.Hours()
		momentary := duration < threshold

		for _, s := range Segments {
			affected := base.AffectedPopulation.Get(s)
			if affected <= 0 {
				continue
			}
			seg := acc.ref(s)
			seg.CustomerHoursLost += hours * float64(affected)
			seg.AffectedCustomers += affected
			if momentary {
				seg.MomentaryInterruptions += affected
			} else {
				seg.SustainedInterruptions += affected
			}
			seg.TotalInterruptions += affected
			keys[s][base.ID+"-"+string(s)] = affected
		}
	}

	for _, s := range Segments {
		acc.ref(s).DistinctCount = int64(len(keys[s]))
	}
	return acc
}
