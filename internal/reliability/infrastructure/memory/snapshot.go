package memory

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	reliability "grid-reliability/internal/reliability/domain"
)

type snapshotFile struct {
	Districts      []districtDoc      `yaml:"districts"`
	LineFaults     []lineFaultDoc     `yaml:"line_faults"`
	ControlOutages []controlOutageDoc `yaml:"control_outages"`
}

type districtDoc struct {
	ID         string                      `yaml:"id"`
	RegionID   string                      `yaml:"region_id"`
	Name       string                      `yaml:"name"`
	Population reliability.PopulationSplit `yaml:"population"`
}

type outageDoc struct {
	ID                 string                      `yaml:"id"`
	RegionID           string                      `yaml:"region_id"`
	DistrictID         string                      `yaml:"district_id"`
	OccurrenceDate     string                      `yaml:"occurrence_date"`
	RestorationDate    string                      `yaml:"restoration_date"`
	RepairDate         string                      `yaml:"repair_date"`
	RepairEndDate      string                      `yaml:"repair_end_date"`
	Status             string                      `yaml:"status"`
	AffectedPopulation reliability.PopulationSplit `yaml:"affected_population"`
}

type lineFaultDoc struct {
	Common        outageDoc `yaml:",inline"`
	FaultType     string    `yaml:"fault_type"`
	FaultLocation string    `yaml:"fault_location"`
}

type controlOutageDoc struct {
	Common            outageDoc `yaml:",inline"`
	LoadMW            float64   `yaml:"load_mw"`
	UnservedEnergyMWh float64   `yaml:"unserved_energy_mwh"`
}

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseInstant parses a timestamp leniently. Values without an offset are
// read in loc. Unparseable values yield the zero time.
func ParseInstant(value string, loc *time.Location) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range instantLayouts {
		if parsed, err := time.ParseInLocation(layout, value, loc); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// LoadSnapshotFile reads a YAML snapshot into a new store.
func LoadSnapshotFile(path string, loc *time.Location) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadSnapshot(data, loc)
}

// LoadSnapshot decodes a YAML snapshot into a new store.
func LoadSnapshot(data []byte, loc *time.Location) (*Store, error) {
	var doc snapshotFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("memory snapshot: %w", err)
	}

	store := NewStore()
	for _, d := range doc.Districts {
		district := reliability.District{ID: d.ID, RegionID: d.RegionID, Name: d.Name, Population: d.Population}
		if err := store.SaveDistrict(district); err != nil {
			return nil, fmt.Errorf("memory snapshot: district %q: %w", d.ID, err)
		}
	}
	for _, f := range doc.LineFaults {
		fault := reliability.LineFault{
			Outage:        f.Common.toOutage(loc),
			FaultType:     f.FaultType,
			FaultLocation: f.FaultLocation,
		}
		if err := store.AddLineFault(fault); err != nil {
			return nil, fmt.Errorf("memory snapshot: line fault %q: %w", f.Common.ID, err)
		}
	}
	for _, o := range doc.ControlOutages {
		outage := reliability.ControlOutage{
			Outage:            o.Common.toOutage(loc),
			LoadMW:            o.LoadMW,
			UnservedEnergyMWh: o.UnservedEnergyMWh,
		}
		if err := store.AddControlOutage(outage); err != nil {
			return nil, fmt.Errorf("memory snapshot: control outage %q: %w", o.Common.ID, err)
		}
	}
	return store, nil
}

func (d outageDoc) toOutage(loc *time.Location) reliability.Outage {
	status := reliability.Status(d.Status)
	if status == "" {
		status = reliability.StatusPending
	}
	return reliability.Outage{
		ID:                 d.ID,
		RegionID:           d.RegionID,
		DistrictID:         d.DistrictID,
		OccurrenceDate:     ParseInstant(d.OccurrenceDate, loc),
		RestorationDate:    ParseInstant(d.RestorationDate, loc),
		RepairDate:         ParseInstant(d.RepairDate, loc),
		RepairEndDate:      ParseInstant(d.RepairEndDate, loc),
		Status:             status,
		AffectedPopulation: d.AffectedPopulation,
	}
}
