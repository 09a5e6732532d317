package reliability

import (
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	repaired := lineFault("lf-1", baseTime, time.Hour, PopulationSplit{Rural: 1})
	repaired.RepairDate = baseTime.Add(10 * time.Minute)
	repaired.RepairEndDate = baseTime.Add(100 * time.Minute)
	pending := controlOutage("co-1", baseTime, 0, PopulationSplit{})
	pending.Status = StatusPending
	badRepair := controlOutage("co-2", baseTime, time.Hour, PopulationSplit{})
	badRepair.RepairDate = baseTime.Add(time.Hour)
	badRepair.RepairEndDate = baseTime

	s := Summarize([]FaultRecord{repaired, pending, badRepair})
	if s.Records != 3 || s.LineFaults != 1 || s.ControlOutages != 2 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.Pending != 1 || s.Resolved != 2 {
		t.Fatalf("unexpected status counts: %+v", s)
	}
	if s.UnservedEnergyMWh != 2.5 || s.LoadShedMW != 9 {
		t.Fatalf("unexpected energy totals: %+v", s)
	}
	if s.RepairedRecords != 1 || s.MeanTimeToRepairHr != 1.5 {
		t.Fatalf("unexpected mttr: %+v", s)
	}
}

func TestValidateRecord(t *testing.T) {
	rec := lineFault("lf-1", baseTime, time.Hour, PopulationSplit{Rural: 1})
	if err := ValidateRecord(rec); err != nil {
		t.Fatalf("expected valid record, got %v", err)
	}
	rec.ID = ""
	if err := ValidateRecord(rec); err != ErrEmptyRecordID {
		t.Fatalf("expected ErrEmptyRecordID, got %v", err)
	}
	rec.ID = "lf-1"
	rec.Status = "closed"
	if err := ValidateRecord(rec); err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	rec.Status = StatusPending
	rec.AffectedPopulation.Metro = -1
	if err := ValidateRecord(rec); err != ErrNegativePopulation {
		t.Fatalf("expected ErrNegativePopulation, got %v", err)
	}
}
