package reliability

import "time"

var baseTime = time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)

func lineFault(id string, occurred time.Time, outage time.Duration, affected PopulationSplit) LineFault {
	rec := LineFault{
		Outage: Outage{
			ID:                 id,
			RegionID:           "region-north",
			DistrictID:         "district-a",
			OccurrenceDate:     occurred,
			Status:             StatusResolved,
			AffectedPopulation: affected,
		},
		FaultType:     "unplanned",
		FaultLocation: "feeder 11",
	}
	if outage != 0 {
		rec.RestorationDate = occurred.Add(outage)
	}
	return rec
}

func controlOutage(id string, occurred time.Time, outage time.Duration, affected PopulationSplit) ControlOutage {
	rec := ControlOutage{
		Outage: Outage{
			ID:                 id,
			RegionID:           "region-north",
			DistrictID:         "district-a",
			OccurrenceDate:     occurred,
			Status:             StatusResolved,
			AffectedPopulation: affected,
		},
		LoadMW:            4.5,
		UnservedEnergyMWh: 1.25,
	}
	if outage != 0 {
		rec.RestorationDate = occurred.Add(outage)
	}
	return rec
}

type recordingDiagnostics struct {
	dropped map[string]DropReason
}

func (d *recordingDiagnostics) RecordDropped(id string, reason DropReason) {
	if d.dropped == nil {
		d.dropped = make(map[string]DropReason)
	}
	d.dropped[id] = reason
}

func ids(records []FaultRecord) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Base().ID)
	}
	return out
}
