package http

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"grid-reliability/internal/observability/metrics"
	reliabilityapp "grid-reliability/internal/reliability/application"
	reliability "grid-reliability/internal/reliability/domain"
)

const (
	formatCSV  = "csv"
	formatPDF  = "pdf"
	formatXLSX = "xlsx"
)

var exportContentTypes = map[string]string{
	formatCSV:  "text/csv; charset=utf-8",
	formatPDF:  "application/pdf",
	formatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request, format string) {
	start := time.Now()
	result := metrics.ResultError
	defer func() {
		metrics.ObserveExport(format, result, time.Since(start))
	}()

	q, ok := h.query(w, r)
	if !ok {
		return
	}
	report, err := h.service.ComputeIndices(r.Context(), q)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	var payload []byte
	switch format {
	case formatCSV:
		payload, err = BuildReportCSV(report)
	case formatPDF:
		payload, err = BuildReportPDF(h.reportTitle, report)
	case formatXLSX:
		payload, err = BuildReportXLSX(h.reportTitle, report)
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("format", format).Error("reliability export failed")
		http.Error(w, "export error", http.StatusInternalServerError)
		return
	}

	h.logAudit(r, report, format, len(payload))
	result = metrics.ResultSuccess

	w.Header().Set("Content-Type", exportContentTypes[format])
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=reliability-%s.%s", report.GeneratedAt.Format("20060102"), format))
	_, _ = w.Write(payload)
}

// BuildReportCSV renders one row per segment followed by the filtered records.
func BuildReportCSV(report *reliabilityapp.Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write([]string{"segment", "customers_served", "saidi", "saifi", "caidi", "caifi", "maifi"})
	for _, row := range indexRows(report) {
		_ = writer.Write([]string{
			row.label,
			strconv.FormatInt(row.served, 10),
			formatIndex(row.indices.SAIDI),
			formatIndex(row.indices.SAIFI),
			formatIndex(row.indices.CAIDI),
			formatIndex(row.indices.CAIFI),
			formatIndex(row.indices.MAIFI),
		})
	}
	_ = writer.Write(nil)
	_ = writer.Write([]string{
		"record_id",
		"kind",
		"region_id",
		"district_id",
		"status",
		"occurrence_date",
		"restoration_date",
		"duration_hours",
		"affected_rural",
		"affected_urban",
		"affected_metro",
	})
	for _, rec := range report.Records {
		base := rec.Base()
		_ = writer.Write([]string{
			base.ID,
			string(rec.Kind()),
			base.RegionID,
			base.DistrictID,
			string(base.Status),
			formatTime(base.OccurrenceDate),
			formatTime(base.RestorationDate),
			formatDuration(base),
			strconv.FormatInt(base.AffectedPopulation.Rural, 10),
			strconv.FormatInt(base.AffectedPopulation.Urban, 10),
			strconv.FormatInt(base.AffectedPopulation.Metro, 10),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildReportPDF renders a single-page reliability summary.
func BuildReportPDF(title string, report *reliabilityapp.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, title)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Report: %s", report.ID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format(timeLayout)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Scope: %s", scopeLabel(report.Query.Scope)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Window: %s", windowLabel(report.Window)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Records: %d (line faults %d, control outages %d)",
		report.Summary.Records, report.Summary.LineFaults, report.Summary.ControlOutages))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Unserved Energy (MWh): %.2f", report.Summary.UnservedEnergyMWh))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("MTTR (h): %.2f", report.Summary.MeanTimeToRepairHr))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	for _, heading := range []string{"Segment", "Served", "SAIDI", "SAIFI", "CAIDI", "CAIFI", "MAIFI"} {
		pdf.CellFormat(26, 6, heading, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, row := range indexRows(report) {
		pdf.CellFormat(26, 6, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(26, 6, strconv.FormatInt(row.served, 10), "1", 0, "R", false, 0, "")
		for _, v := range []float64{row.indices.SAIDI, row.indices.SAIFI, row.indices.CAIDI, row.indices.CAIFI, row.indices.MAIFI} {
			pdf.CellFormat(26, 6, formatIndex(v), "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildReportXLSX renders an indices sheet and a records sheet.
func BuildReportXLSX(title string, report *reliabilityapp.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	indicesSheet := "indices"
	recordsSheet := "records"
	if err := f.SetSheetName("Sheet1", indicesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(recordsSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(indicesSheet, "A1", title)
	_ = f.SetCellValue(indicesSheet, "A2", "Scope")
	_ = f.SetCellValue(indicesSheet, "B2", scopeLabel(report.Query.Scope))
	_ = f.SetCellValue(indicesSheet, "A3", "Window")
	_ = f.SetCellValue(indicesSheet, "B3", windowLabel(report.Window))
	_ = f.SetCellValue(indicesSheet, "A4", "Generated")
	_ = f.SetCellValue(indicesSheet, "B4", report.GeneratedAt.Format(timeLayout))
	for i, heading := range []string{"Segment", "Customers Served", "SAIDI", "SAIFI", "CAIDI", "CAIFI", "MAIFI"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 6)
		_ = f.SetCellValue(indicesSheet, cell, heading)
	}
	for i, row := range indexRows(report) {
		line := i + 7
		_ = f.SetCellValue(indicesSheet, fmt.Sprintf("A%d", line), row.label)
		_ = f.SetCellValue(indicesSheet, fmt.Sprintf("B%d", line), row.served)
		_ = f.SetCellValue(indicesSheet, fmt.Sprintf("C%d", line), row.indices.SAIDI)
		_ = f.SetCellValue(indicesSheet, fmt.Sprintf("D%d", line), row.indices.SAIFI)
		_ = f.SetCellValue(indicesSheet, fmt.Sprintf("E%d", line), row.indices.CAIDI)
		_ = f.SetCellValue(indicesSheet, fmt.Sprintf("F%d", line), row.indices.CAIFI)
		_ = f.SetCellValue(indicesSheet, fmt.Sprintf("G%d", line), row.indices.MAIFI)
	}

	for i, heading := range []string{"Record", "Kind", "Region", "District", "Status", "Occurred", "Restored", "Duration (h)"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(recordsSheet, cell, heading)
	}
	for i, rec := range report.Records {
		line := i + 2
		base := rec.Base()
		_ = f.SetCellValue(recordsSheet, fmt.Sprintf("A%d", line), base.ID)
		_ = f.SetCellValue(recordsSheet, fmt.Sprintf("B%d", line), string(rec.Kind()))
		_ = f.SetCellValue(recordsSheet, fmt.Sprintf("C%d", line), base.RegionID)
		_ = f.SetCellValue(recordsSheet, fmt.Sprintf("D%d", line), base.DistrictID)
		_ = f.SetCellValue(recordsSheet, fmt.Sprintf("E%d", line), string(base.Status))
		_ = f.SetCellValue(recordsSheet, fmt.Sprintf("F%d", line), formatTime(base.OccurrenceDate))
		_ = f.SetCellValue(recordsSheet, fmt.Sprintf("G%d", line), formatTime(base.RestorationDate))
		_ = f.SetCellValue(recordsSheet, fmt.Sprintf("H%d", line), formatDuration(base))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type indexRow struct {
	label   string
	served  int64
	indices reliability.Indices
}

func indexRows(report *reliabilityapp.Report) []indexRow {
	rows := make([]indexRow, 0, len(reliability.Segments)+1)
	for _, seg := range reliability.Segments {
		rows = append(rows, indexRow{
			label:   string(seg),
			served:  report.Denominator.Get(seg),
			indices: report.Indices.Segment(seg),
		})
	}
	return append(rows, indexRow{
		label:   "total",
		served:  report.Denominator.Total(),
		indices: report.Indices.Total,
	})
}

func scopeLabel(scope reliability.Scope) string {
	region := scope.RegionID
	if region == "" {
		region = "all"
	}
	district := scope.DistrictID
	if district == "" {
		district = "all"
	}
	return fmt.Sprintf("region %s / district %s", region, district)
}

func windowLabel(window reliability.TimeWindow) string {
	if window.IsUnbounded() {
		return "all time"
	}
	return fmt.Sprintf("%s to %s", window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))
}

func formatIndex(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

func formatDuration(o reliability.Outage) string {
	d, ok := o.Duration()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(d.Hours(), 'f', 2, 64)
}
