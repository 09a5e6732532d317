package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	reliability "grid-reliability/internal/reliability/domain"
)

const (
	defaultLineFaultsTable     = "line_faults"
	defaultControlOutagesTable = "control_outages"
)

// RecordRepository reads fault records from Postgres.
type RecordRepository struct {
	db                  DBTX
	lineFaultsTable     string
	controlOutagesTable string
}

// RecordOption configures the repository.
type RecordOption func(*RecordRepository)

// WithLineFaultsTable overrides the default line faults table name.
func WithLineFaultsTable(table string) RecordOption {
	return func(repo *RecordRepository) {
		if table != "" {
			repo.lineFaultsTable = table
		}
	}
}

// WithControlOutagesTable overrides the default control outages table name.
func WithControlOutagesTable(table string) RecordOption {
	return func(repo *RecordRepository) {
		if table != "" {
			repo.controlOutagesTable = table
		}
	}
}

// NewRecordRepository constructs a repository.
func NewRecordRepository(db DBTX, opts ...RecordOption) *RecordRepository {
	repo := &RecordRepository{
		db:                  db,
		lineFaultsTable:     defaultLineFaultsTable,
		controlOutagesTable: defaultControlOutagesTable,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Records loads line faults then control outages; duplicate ids keep the line fault.
func (r *RecordRepository) Records(ctx context.Context) ([]reliability.FaultRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("record repo: nil db")
	}
	faults, err := r.listLineFaults(ctx)
	if err != nil {
		return nil, err
	}
	outages, err := r.listControlOutages(ctx)
	if err != nil {
		return nil, err
	}
	return reliability.MergeRecords(
		reliability.LineFaultRecords(faults),
		reliability.ControlOutageRecords(outages),
	), nil
}

const outageColumns = `id, region_id, district_id, occurrence_date, restoration_date, repair_date, repair_end_date,
	status, affected_rural, affected_urban, affected_metro`

type outageRow struct {
	outage      reliability.Outage
	occurrence  sql.NullTime
	restoration sql.NullTime
	repair      sql.NullTime
	repairEnd   sql.NullTime
	status      string
}

func (row *outageRow) dest() []any {
	return []any{
		&row.outage.ID,
		&row.outage.RegionID,
		&row.outage.DistrictID,
		&row.occurrence,
		&row.restoration,
		&row.repair,
		&row.repairEnd,
		&row.status,
		&row.outage.AffectedPopulation.Rural,
		&row.outage.AffectedPopulation.Urban,
		&row.outage.AffectedPopulation.Metro,
	}
}

func (row *outageRow) build() reliability.Outage {
	out := row.outage
	out.OccurrenceDate = utcTime(row.occurrence)
	out.RestorationDate = utcTime(row.restoration)
	out.RepairDate = utcTime(row.repair)
	out.RepairEndDate = utcTime(row.repairEnd)
	out.Status = reliability.Status(row.status)
	return out
}

func (r *RecordRepository) listLineFaults(ctx context.Context) ([]reliability.LineFault, error) {
	query := fmt.Sprintf(`
SELECT %s, fault_type, fault_location
FROM %s
ORDER BY occurrence_date NULLS LAST, id`, outageColumns, r.lineFaultsTable)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []reliability.LineFault
	for rows.Next() {
		var row outageRow
		var faultType, faultLocation sql.NullString
		dest := append(row.dest(), &faultType, &faultLocation)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		result = append(result, reliability.LineFault{
			Outage:        row.build(),
			FaultType:     faultType.String,
			FaultLocation: faultLocation.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *RecordRepository) listControlOutages(ctx context.Context) ([]reliability.ControlOutage, error) {
	query := fmt.Sprintf(`
SELECT %s, load_mw, unserved_energy_mwh
FROM %s
ORDER BY occurrence_date NULLS LAST, id`, outageColumns, r.controlOutagesTable)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []reliability.ControlOutage
	for rows.Next() {
		var row outageRow
		var loadMW, unserved sql.NullFloat64
		dest := append(row.dest(), &loadMW, &unserved)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		result = append(result, reliability.ControlOutage{
			Outage:            row.build(),
			LoadMW:            loadMW.Float64,
			UnservedEnergyMWh: unserved.Float64,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
