package reliability

// Segment is a population class.
type Segment string

const (
	SegmentRural Segment = "rural"
	SegmentUrban Segment = "urban"
	SegmentMetro Segment = "metro"
)

// Segments lists every segment in reporting order.
var Segments = [...]Segment{SegmentRural, SegmentUrban, SegmentMetro}

// PopulationSplit holds customer counts per segment.
type PopulationSplit struct {
	Rural int64 `json:"rural" yaml:"rural"`
	Urban int64 `json:"urban" yaml:"urban"`
	Metro int64 `json:"metro" yaml:"metro"`
}

// Get returns the count for a segment.
func (p PopulationSplit) Get(s Segment) int64 {
	switch s {
	case SegmentRural:
		return p.Rural
	case SegmentUrban:
		return p.Urban
	case SegmentMetro:
		return p.Metro
	default:
		return 0
	}
}

// Total returns the sum over all segments.
func (p PopulationSplit) Total() int64 {
	return p.Rural + p.Urban + p.Metro
}

// Add returns the element-wise sum.
func (p PopulationSplit) Add(other PopulationSplit) PopulationSplit {
	return PopulationSplit{
		Rural: p.Rural + other.Rural,
		Urban: p.Urban + other.Urban,
		Metro: p.Metro + other.Metro,
	}
}

// Validate checks that no segment is negative.
func (p PopulationSplit) Validate() error {
	if p.Rural < 0 || p.Urban < 0 || p.Metro < 0 {
		return ErrNegativePopulation
	}
	return nil
}

// District is a population denominator owned by the masterdata layer.
type District struct {
	ID         string
	RegionID   string
	Name       string
	Population PopulationSplit
}

// Validate checks district invariants.
func (d District) Validate() error {
	if d.ID == "" {
		return ErrEmptyDistrictID
	}
	return d.Population.Validate()
}

// PopulationTable is a read-only snapshot of district populations.
type PopulationTable struct {
	districts []District
}

// NewPopulationTable builds a table; later duplicates of a district id are ignored.
func NewPopulationTable(districts []District) PopulationTable {
	seen := make(map[string]struct{}, len(districts))
	kept := make([]District, 0, len(districts))
	for _, d := range districts {
		if d.ID == "" {
			continue
		}
		if _, ok := seen[d.ID]; ok {
			continue
		}
		seen[d.ID] = struct{}{}
		kept = append(kept, d)
	}
	return PopulationTable{districts: kept}
}

// Districts returns a copy of the table rows.
func (t PopulationTable) Districts() []District {
	out := make([]District, len(t.districts))
	copy(out, t.districts)
	return out
}

// Denominator resolves the customers served for a scope.
// A district scope wins over a region scope; unknown ids resolve to zero.
func (t PopulationTable) Denominator(scope Scope) PopulationSplit {
	if districtID, ok := scope.district(); ok {
		for _, d := range t.districts {
			if d.ID == districtID {
				return d.Population
			}
		}
		return PopulationSplit{}
	}

	regionID, byRegion := scope.region()
	var sum PopulationSplit
	for _, d := range t.districts {
		if byRegion && d.RegionID != regionID {
			continue
		}
		sum = sum.Add(d.Population)
	}
	return sum
}
