package reliability

import "time"

// RecordKind discriminates the two fault record variants.
type RecordKind string

const (
	KindLineFault     RecordKind = "line_fault"
	KindControlOutage RecordKind = "control_outage"
)

// Status is the lifecycle state of a fault record.
type Status string

const (
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
)

// NormalizeStatus validates a status string.
func NormalizeStatus(value string) (Status, bool) {
	switch Status(value) {
	case StatusPending, StatusResolved:
		return Status(value), true
	default:
		return "", false
	}
}

// FaultRecord is implemented only by LineFault and ControlOutage.
type FaultRecord interface {
	Kind() RecordKind
	Base() Outage
	isFaultRecord()
}

// Outage holds the fields shared by every fault record.
// Zero time values mean the instant is absent or could not be parsed.
type Outage struct {
	ID                 string
	RegionID           string
	DistrictID         string
	OccurrenceDate     time.Time
	RestorationDate    time.Time
	RepairDate         time.Time
	RepairEndDate      time.Time
	Status             Status
	AffectedPopulation PopulationSplit
}

// Base returns the shared outage fields.
func (o Outage) Base() Outage { return o }

// Duration returns the restoration duration and whether the outage window is valid.
func (o Outage) Duration() (time.Duration, bool) {
	if o.OccurrenceDate.IsZero() || o.RestorationDate.IsZero() {
		return 0, false
	}
	if !o.RestorationDate.After(o.OccurrenceDate) {
		return 0, false
	}
	return o.RestorationDate.Sub(o.OccurrenceDate), true
}

// RepairDuration returns the repair crew duration when both repair instants are known.
func (o Outage) RepairDuration() (time.Duration, bool) {
	if o.RepairDate.IsZero() || o.RepairEndDate.IsZero() {
		return 0, false
	}
	if !o.RepairEndDate.After(o.RepairDate) {
		return 0, false
	}
	return o.RepairEndDate.Sub(o.RepairDate), true
}

// LineFault is a planned or unplanned distribution line fault.
type LineFault struct {
	Outage
	FaultType     string
	FaultLocation string
}

// Kind implements FaultRecord.
func (LineFault) Kind() RecordKind { return KindLineFault }

func (LineFault) isFaultRecord() {}

// ControlOutage is an outage raised by the control system (load shedding, trips).
type ControlOutage struct {
	Outage
	LoadMW            float64
	UnservedEnergyMWh float64
}

// Kind implements FaultRecord.
func (ControlOutage) Kind() RecordKind { return KindControlOutage }

func (ControlOutage) isFaultRecord() {}

// ValidateRecord checks the invariants a source must hold before serving a record.
// Inverted outage windows are not rejected here; the tracker excludes them.
func ValidateRecord(rec FaultRecord) error {
	if rec == nil {
		return ErrEmptyRecordID
	}
	base := rec.Base()
	if base.ID == "" {
		return ErrEmptyRecordID
	}
	if _, ok := NormalizeStatus(string(base.Status)); !ok {
		return ErrInvalidStatus
	}
	return base.AffectedPopulation.Validate()
}
