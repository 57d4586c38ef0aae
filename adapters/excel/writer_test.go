package excel

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"heliocorr/adapters/stats/engine"
	"heliocorr/domain/corr"
)

func sampleBatch() engine.BatchResult {
	return engine.BatchResult{
		BatchID: "batch-1",
		Seed:    42,
		Combinations: []engine.Combination{
			{
				SolarVar:  "kp_index",
				MentalVar: "anxiety_score",
				Method:    corr.MethodPearson,
				Correlation: &corr.CorrelationResult{
					Method:        corr.MethodPearson,
					Coefficient:   0.42,
					PValue:        0.001,
					CILower:       0.2,
					CIUpper:       0.6,
					NObservations: 100,
					Significant:   true,
				},
			},
			{
				SolarVar:  "kp_index",
				MentalVar: "mood_noise",
				Method:    corr.MethodGranger,
				Skipped:   true,
				Error:     "insufficient aligned observations",
			},
		},
		Findings: []engine.Finding{
			{Variables: "kp_index__anxiety_score", Method: corr.MethodPearson, Correlation: 0.42, PValue: 0.001},
		},
		Summary: engine.BatchSummary{
			TotalAnalyses:        1,
			SkippedAnalyses:      1,
			SignificantFindings:  1,
			StrongestCorrelation: 0.42,
			MostSignificantP:     0.001,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "combinations.csv")
	require.NoError(t, NewReportWriter().WriteCSV(path, sampleBatch()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 combinations
	assert.Equal(t, "solar_var", records[0][0])
	assert.Equal(t, "kp_index", records[1][0])
	assert.Equal(t, "ok", records[1][3])
	assert.Equal(t, "skipped", records[2][3])
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.xlsx")
	require.NoError(t, NewReportWriter().WriteXLSX(path, sampleBatch()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Combinations")
	assert.Contains(t, sheets, "Findings")
	assert.Contains(t, sheets, "Summary")

	cell, err := f.GetCellValue("Combinations", "A2")
	require.NoError(t, err)
	assert.Equal(t, "kp_index", cell)

	cell, err = f.GetCellValue("Findings", "A2")
	require.NoError(t, err)
	assert.Equal(t, "kp_index__anxiety_score", cell)
}
