package reliability

const scopeAll = "all"

// Scope restricts records to an organizational unit.
// Empty or "all" leaves a level unrestricted; both levels may apply at once.
type Scope struct {
	RegionID   string
	DistrictID string
}

func (s Scope) region() (string, bool) {
	if s.RegionID == "" || s.RegionID == scopeAll {
		return "", false
	}
	return s.RegionID, true
}

func (s Scope) district() (string, bool) {
	if s.DistrictID == "" || s.DistrictID == scopeAll {
		return "", false
	}
	return s.DistrictID, true
}

// Criteria holds the equality filters beyond scope and time.
// Empty or "all" disables a filter.
type Criteria struct {
	Status    Status
	FaultType string
}

func (c Criteria) status() (Status, bool) {
	if c.Status == "" || c.Status == scopeAll {
		return "", false
	}
	return c.Status, true
}

func (c Criteria) faultType() (string, bool) {
	if c.FaultType == "" || c.FaultType == scopeAll {
		return "", false
	}
	return c.FaultType, true
}

// DropReason explains why a record left the stream.
type DropReason string

const (
	// DropInvalidOccurrence marks a record whose occurrence date is missing or unparseable.
	DropInvalidOccurrence DropReason = "invalid_occurrence_date"
)

// Diagnostics receives non-fatal notices from the engine.
type Diagnostics interface {
	RecordDropped(recordID string, reason DropReason)
}

// NopDiagnostics discards all notices.
type NopDiagnostics struct{}

// RecordDropped implements Diagnostics.
func (NopDiagnostics) RecordDropped(string, DropReason) {}

// Filter applies scope, criteria and window predicates to a record stream.
// Records with an invalid occurrence date are dropped and reported to diag.
// ControlOutage records never pass an active fault-type filter.
func Filter(records []FaultRecord, scope Scope, window TimeWindow, criteria Criteria, diag Diagnostics) []FaultRecord {
	if diag == nil {
		diag = NopDiagnostics{}
	}
	regionID, byRegion := scope.region()
	districtID, byDistrict := scope.district()
	status, byStatus := criteria.status()
	faultType, byFaultType := criteria.faultType()

	out := make([]FaultRecord, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		base := rec.Base()
		if base.OccurrenceDate.IsZero() {
			diag.RecordDropped(base.ID, DropInvalidOccurrence)
			continue
		}
		if byRegion && base.RegionID != regionID {
			continue
		}
		if byDistrict && base.DistrictID != districtID {
			continue
		}
		if byStatus && base.Status != status {
			continue
		}
		if byFaultType {
			lf, ok := rec.(LineFault)
			if !ok || lf.FaultType != faultType {
				continue
			}
		}
		if !window.Contains(base.OccurrenceDate) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// MergeRecords concatenates streams and removes duplicate ids; the first
// occurrence of an id wins.
func MergeRecords(streams ...[]FaultRecord) []FaultRecord {
	size := 0
	for _, stream := range streams {
		size += len(stream)
	}
	seen := make(map[string]struct{}, size)
	out := make([]FaultRecord, 0, size)
	for _, stream := range streams {
		for _, rec := range stream {
			if rec == nil {
				continue
			}
			id := rec.Base().ID
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, rec)
		}
	}
	return out
}

// LineFaultRecords lifts line faults into the record stream.
func LineFaultRecords(faults []LineFault) []FaultRecord {
	out := make([]FaultRecord, 0, len(faults))
	for _, f := range faults {
		out = append(out, f)
	}
	return out
}

// ControlOutageRecords lifts control outages into the record stream.
func ControlOutageRecords(outages []ControlOutage) []FaultRecord {
	out := make([]FaultRecord, 0, len(outages))
	for _, o := range outages {
		out = append(out, o)
	}
	return out
}
