package reliability

import (
	"testing"
	"time"
)

func TestSyntheticKeyTracker_MomentaryBoundary(t *testing.T) {
	tracker := NewSyntheticKeyTracker(0)
	records := []FaultRecord{
		lineFault("exactly-five", baseTime, 5*time.Minute, PopulationSplit{Rural: 10}),
		lineFault("just-under", baseTime, 4999*time.Minute/1000, PopulationSplit{Urban: 7}),
	}

	acc := tracker.Accumulate(records)
	if acc.Rural.SustainedInterruptions != 10 || acc.Rural.MomentaryInterruptions != 0 {
		t.Fatalf("5.0 minutes must be sustained: %+v", acc.Rural)
	}
	if acc.Urban.MomentaryInterruptions != 7 || acc.Urban.SustainedInterruptions != 0 {
		t.Fatalf("4.999 minutes must be momentary: %+v", acc.Urban)
	}
}

func TestSyntheticKeyTracker_Totals(t *testing.T) {
	tracker := NewSyntheticKeyTracker(DefaultMomentaryThreshold)
	records := []FaultRecord{
		lineFault("lf-1", baseTime, 2*time.Hour, PopulationSplit{Rural: 100, Metro: 20}),
		controlOutage("co-1", baseTime, 30*time.Minute, PopulationSplit{Rural: 50}),
	}

	acc := tracker.Accumulate(records)
	if acc.Rural.CustomerHoursLost != 225 {
		t.Fatalf("expected 225 customer hours, got %v", acc.Rural.CustomerHoursLost)
	}
	if acc.Rural.AffectedCustomers != 150 || acc.Rural.TotalInterruptions != 150 {
		t.Fatalf("unexpected rural counts: %+v", acc.Rural)
	}
	if acc.Rural.DistinctCount != 2 {
		t.Fatalf("expected 2 distinct rural keys, got %d", acc.Rural.DistinctCount)
	}
	if acc.Metro.DistinctCount != 1 || acc.Metro.CustomerHoursLost != 40 {
		t.Fatalf("unexpected metro accumulator: %+v", acc.Metro)
	}
	if acc.Urban != (SegmentAccumulator{}) {
		t.Fatalf("urban segment must stay empty: %+v", acc.Urban)
	}
}

func TestSyntheticKeyTracker_SkipsInvalidWindows(t *testing.T) {
	tracker := NewSyntheticKeyTracker(0)
	inverted := lineFault("inverted", baseTime, 0, PopulationSplit{Rural: 10})
	inverted.RestorationDate = baseTime.Add(-time.Minute)
	equal := lineFault("equal", baseTime, 0, PopulationSplit{Rural: 10})
	equal.RestorationDate = baseTime
	open := lineFault("open", baseTime, 0, PopulationSplit{Rural: 10})

	acc := tracker.Accumulate([]FaultRecord{inverted, equal, open})
	if acc.Rural != (SegmentAccumulator{}) {
		t.Fatalf("invalid outage windows must be excluded: %+v", acc.Rural)
	}
}

// The synthetic key counts interruption events per record, so the same
// customers hit by two faults count as two distinct keys.
func TestSyntheticKeyTracker_DistinctCountsEventsNotCustomers(t *testing.T) {
	tracker := NewSyntheticKeyTracker(0)
	records := []FaultRecord{
		lineFault("lf-1", baseTime, time.Hour, PopulationSplit{Rural: 40}),
		lineFault("lf-2", baseTime.Add(time.Hour), time.Hour, PopulationSplit{Rural: 40}),
		lineFault("lf-1", baseTime, time.Hour, PopulationSplit{Rural: 40}),
	}

	acc := tracker.Accumulate(records)
	if acc.Rural.DistinctCount != 2 {
		t.Fatalf("expected 2 distinct keys, got %d", acc.Rural.DistinctCount)
	}
	if acc.Rural.TotalInterruptions != 120 {
		t.Fatalf("expected 120 total interruptions, got %d", acc.Rural.TotalInterruptions)
	}
}

func TestSyntheticKeyTracker_CustomThreshold(t *testing.T) {
	tracker := NewSyntheticKeyTracker(time.Minute)
	acc := tracker.Accumulate([]FaultRecord{
		lineFault("lf-1", baseTime, 2*time.Minute, PopulationSplit{Rural: 3}),
	})
	if acc.Rural.SustainedInterruptions != 3 {
		t.Fatalf("expected sustained under 1 minute threshold: %+v", acc.Rural)
	}
}
