// Package excel writes batch analysis results to xlsx and CSV report files.
package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"heliocorr/adapters/stats/engine"
)

const (
	combinationsSheet = "Combinations"
	findingsSheet     = "Findings"
	summarySheet      = "Summary"
)

var combinationHeader = []string{
	"solar_var", "mental_var", "method", "status",
	"correlation", "p_value", "ci_lower", "ci_upper",
	"best_lag", "optimal_lag", "n_observations", "detail",
}

// ReportWriter renders a BatchResult into report files.
type ReportWriter struct{}

// NewReportWriter creates a report writer.
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// WriteXLSX writes the batch to a workbook with combination, finding, and
// summary sheets.
func (w *ReportWriter) WriteXLSX(path string, batch engine.BatchResult) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", combinationsSheet)
	if err := writeRows(f, combinationsSheet, combinationRows(batch)); err != nil {
		return fmt.Errorf("failed to write combinations sheet: %w", err)
	}

	if _, err := f.NewSheet(findingsSheet); err != nil {
		return fmt.Errorf("failed to create findings sheet: %w", err)
	}
	if err := writeRows(f, findingsSheet, findingRows(batch)); err != nil {
		return fmt.Errorf("failed to write findings sheet: %w", err)
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeRows(f, summarySheet, summaryRows(batch)); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteCSV writes the combination table to a CSV file.
func (w *ReportWriter) WriteCSV(path string, batch engine.BatchResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	for _, row := range combinationRows(batch) {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = fmt.Sprintf("%v", cell)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		for j, cell := range row {
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, axis, cell); err != nil {
				return err
			}
		}
	}
	return nil
}

func combinationRows(batch engine.BatchResult) [][]any {
	rows := make([][]any, 0, len(batch.Combinations)+1)
	header := make([]any, len(combinationHeader))
	for i, h := range combinationHeader {
		header[i] = h
	}
	rows = append(rows, header)

	for _, c := range batch.Combinations {
		status := "ok"
		if c.Skipped {
			status = "skipped"
		} else if c.Error != "" {
			status = "failed"
		}
		row := []any{
			c.SolarVar.String(), c.MentalVar.String(), string(c.Method), status,
			"", "", "", "", "", "", "", c.Error,
		}
		switch {
		case c.Correlation != nil:
			row[4] = c.Correlation.Coefficient
			row[5] = c.Correlation.PValue
			row[6] = c.Correlation.CILower
			row[7] = c.Correlation.CIUpper
			row[10] = c.Correlation.NObservations
			row[11] = c.Correlation.Interpretation
		case c.Causality != nil:
			row[5] = c.Causality.BestPValue
			row[8] = c.Causality.BestLag
			row[10] = c.Causality.NObservations
			row[11] = c.Causality.Verdict
		case c.CrossCorrelation != nil:
			row[4] = c.CrossCorrelation.MaxCorrelation
			row[5] = c.CrossCorrelation.PValue
			row[9] = c.CrossCorrelation.OptimalLag
			row[10] = c.CrossCorrelation.NObservations
			row[11] = c.CrossCorrelation.Interpretation
		case c.Coherence != nil:
			row[4] = c.Coherence.AvgCoherence
			row[10] = c.Coherence.NObservations
			row[11] = c.Coherence.Interpretation
		}
		rows = append(rows, row)
	}
	return rows
}

func findingRows(batch engine.BatchResult) [][]any {
	rows := [][]any{{"variables", "method", "correlation", "p_value"}}
	for _, f := range batch.Findings {
		rows = append(rows, []any{f.Variables, string(f.Method), f.Correlation, f.PValue})
	}
	return rows
}

func summaryRows(batch engine.BatchResult) [][]any {
	return [][]any{
		{"batch_id", batch.BatchID.String()},
		{"seed", strconv.FormatInt(batch.Seed, 10)},
		{"runtime_ms", batch.RuntimeMs},
		{"total_analyses", batch.Summary.TotalAnalyses},
		{"skipped_analyses", batch.Summary.SkippedAnalyses},
		{"failed_analyses", batch.Summary.FailedAnalyses},
		{"significant_findings", batch.Summary.SignificantFindings},
		{"strongest_correlation", batch.Summary.StrongestCorrelation},
		{"most_significant_p", batch.Summary.MostSignificantP},
	}
}
