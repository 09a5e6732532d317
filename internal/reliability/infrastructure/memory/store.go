package memory

import (
	"context"
	"sync"

	"grid-reliability/internal/reliability/application"
	reliability "grid-reliability/internal/reliability/domain"
)

// Store is an in-memory record and population source for demo/testing.
// It implements both application.RecordSource and application.PopulationSource.
type Store struct {
	mu             sync.RWMutex
	lineFaults     []reliability.LineFault
	controlOutages []reliability.ControlOutage
	districts      map[string]reliability.District
	districtOrder  []string
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{districts: make(map[string]reliability.District)}
}

// AddLineFault appends a line fault.
func (s *Store) AddLineFault(fault reliability.LineFault) error {
	if err := reliability.ValidateRecord(fault); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lineFaults = append(s.lineFaults, fault)
	return nil
}

// AddControlOutage appends a control outage.
func (s *Store) AddControlOutage(outage reliability.ControlOutage) error {
	if err := reliability.ValidateRecord(outage); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controlOutages = append(s.controlOutages, outage)
	return nil
}

// SaveDistrict upserts a district.
func (s *Store) SaveDistrict(district reliability.District) error {
	if err := district.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.districts[district.ID]; !ok {
		s.districtOrder = append(s.districtOrder, district.ID)
	}
	s.districts[district.ID] = district
	return nil
}

// Records returns line faults followed by control outages, deduplicated by id.
func (s *Store) Records(ctx context.Context) ([]reliability.FaultRecord, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	return reliability.MergeRecords(
		reliability.LineFaultRecords(s.lineFaults),
		reliability.ControlOutageRecords(s.controlOutages),
	), nil
}

// DistrictPopulation returns the population of one district.
func (s *Store) DistrictPopulation(ctx context.Context, districtID string) (reliability.PopulationSplit, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	district, ok := s.districts[districtID]
	if !ok {
		return reliability.PopulationSplit{}, application.ErrDistrictNotFound
	}
	return district.Population, nil
}

// ListDistricts returns districts of a region, or all districts when regionID is empty.
func (s *Store) ListDistricts(ctx context.Context, regionID string) ([]reliability.District, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]reliability.District, 0, len(s.districtOrder))
	for _, id := range s.districtOrder {
		district := s.districts[id]
		if regionID != "" && district.RegionID != regionID {
			continue
		}
		result = append(result, district)
	}
	return result, nil
}
