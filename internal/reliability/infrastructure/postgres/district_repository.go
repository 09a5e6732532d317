package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"grid-reliability/internal/reliability/application"
	reliability "grid-reliability/internal/reliability/domain"
)

const defaultDistrictsTable = "districts"

// DistrictRepository reads district population denominators from Postgres.
type DistrictRepository struct {
	db    DBTX
	table string
}

// DistrictOption configures the repository.
type DistrictOption func(*DistrictRepository)

// WithDistrictTable overrides the default table name.
func WithDistrictTable(table string) DistrictOption {
	return func(repo *DistrictRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewDistrictRepository constructs a repository.
func NewDistrictRepository(db DBTX, opts ...DistrictOption) *DistrictRepository {
	repo := &DistrictRepository{db: db, table: defaultDistrictsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// DistrictPopulation loads one district's population.
func (r *DistrictRepository) DistrictPopulation(ctx context.Context, districtID string) (reliability.PopulationSplit, error) {
	if r == nil || r.db == nil {
		return reliability.PopulationSplit{}, errors.New("district repo: nil db")
	}
	if districtID == "" {
		return reliability.PopulationSplit{}, reliability.ErrEmptyDistrictID
	}

	query := fmt.Sprintf(`
SELECT population_rural, population_urban, population_metro
FROM %s
WHERE id = $1
LIMIT 1`, r.table)

	var split reliability.PopulationSplit
	if err := r.db.QueryRowContext(ctx, query, districtID).Scan(&split.Rural, &split.Urban, &split.Metro); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reliability.PopulationSplit{}, application.ErrDistrictNotFound
		}
		return reliability.PopulationSplit{}, err
	}
	return split, nil
}

// ListDistricts loads districts of a region, or every district when regionID is empty.
func (r *DistrictRepository) ListDistricts(ctx context.Context, regionID string) ([]reliability.District, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("district repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT id, region_id, name, population_rural, population_urban, population_metro
FROM %s
WHERE ($1 = '' OR region_id = $1)
ORDER BY id`, r.table)

	rows, err := r.db.QueryContext(ctx, query, regionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []reliability.District
	for rows.Next() {
		var d reliability.District
		if err := rows.Scan(&d.ID, &d.RegionID, &d.Name, &d.Population.Rural, &d.Population.Urban, &d.Population.Metro); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Save upserts a district.
func (r *DistrictRepository) Save(ctx context.Context, district reliability.District) error {
	if r == nil || r.db == nil {
		return errors.New("district repo: nil db")
	}
	if err := district.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (id, region_id, name, population_rural, population_urban, population_metro)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id)
DO UPDATE SET
	region_id = EXCLUDED.region_id,
	name = EXCLUDED.name,
	population_rural = EXCLUDED.population_rural,
	population_urban = EXCLUDED.population_urban,
	population_metro = EXCLUDED.population_metro,
	updated_at = NOW()`, r.table)

	_, err := r.db.ExecContext(ctx, query,
		district.ID,
		district.RegionID,
		district.Name,
		district.Population.Rural,
		district.Population.Urban,
		district.Population.Metro,
	)
	return err
}
