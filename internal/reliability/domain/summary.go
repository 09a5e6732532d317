package reliability

// Summary describes a filtered record set for reports.
type Summary struct {
	Records            int     `json:"records"`
	LineFaults         int     `json:"line_faults"`
	ControlOutages     int     `json:"control_outages"`
	Pending            int     `json:"pending"`
	Resolved           int     `json:"resolved"`
	UnservedEnergyMWh  float64 `json:"unserved_energy_mwh"`
	LoadShedMW         float64 `json:"load_shed_mw"`
	RepairedRecords    int     `json:"repaired_records"`
	MeanTimeToRepairHr float64 `json:"mttr_hours"`
}

// Summarize counts records by kind and status and derives MTTR from records
// with a valid repair window.
func Summarize(records []FaultRecord) Summary {
	var s Summary
	var repairHours float64
	for _, rec := range records {
		if rec == nil {
			continue
		}
		s.Records++
		base := rec.Base()
		switch base.Status {
		case StatusPending:
			s.Pending++
		case StatusResolved:
			s.Resolved++
		}
		switch r := rec.(type) {
		case LineFault:
			s.LineFaults++
		case ControlOutage:
			s.ControlOutages++
			s.UnservedEnergyMWh += r.UnservedEnergyMWh
			s.LoadShedMW += r.LoadMW
		}
		if d, ok := base.RepairDuration(); ok {
			s.RepairedRecords++
			repairHours += d.Hours()
		}
	}
	if s.RepairedRecords > 0 {
		s.MeanTimeToRepairHr = repairHours / float64(s.RepairedRecords)
	}
	s.UnservedEnergyMWh = round(s.UnservedEnergyMWh)
	s.LoadShedMW = round(s.LoadShedMW)
	s.MeanTimeToRepairHr = round(s.MeanTimeToRepairHr)
	return s
}
