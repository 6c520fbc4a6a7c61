package export

import (
	"bytes"
	"strings"

	apperrors "github.com/ppiankov/factcheck/internal/errors"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	resultSheet  = "Result"
	sourcesSheet = "Sources"
)

// XLSX writes a workbook with a result sheet (field/value rows) and a sources sheet
func XLSX(res *model.FactCheckResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultSheet); err != nil {
		return nil, apperrors.Export(err, "create result sheet")
	}

	info := res.Verdict.Info()
	confidence := any("—")
	if res.Verdict.ConfidenceMeaningful() {
		confidence = res.Confidence
	}

	rows := [][]any{
		{"Field", "Value"},
		{"ID", res.ID},
		{"Timestamp", res.Timestamp.UTC().Format(timeLayout)},
		{"Content type", string(res.ContentType)},
		{"Claim", res.ClaimText},
		{"Verdict", string(res.Verdict)},
		{"Verdict label", info.Label},
		{"Truth score", confidence},
		{"Explanation", res.Analysis.Explanation},
		{"Key points", strings.Join(res.Analysis.KeyPoints, "\n")},
		{"Expertise level", string(res.Settings.ExpertiseLevel)},
		{"Analysis length", string(res.Settings.AnalysisLength)},
	}
	if err := writeRows(f, resultSheet, rows); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sourcesSheet); err != nil {
		return nil, apperrors.Export(err, "create sources sheet")
	}
	sourceRows := [][]any{{"Title", "URL", "Reliability", "Reliability score", "Level", "Kind"}}
	for _, src := range res.Analysis.Sources {
		sourceRows = append(sourceRows, []any{
			sourceTitle(src), src.URL, src.Stars(), src.ReliabilityScore, model.ReliabilityLevel(src.ReliabilityScore), string(src.Kind),
		})
	}
	if err := writeRows(f, sourcesSheet, sourceRows); err != nil {
		return nil, err
	}

	_ = f.SetColWidth(resultSheet, "A", "A", 18)
	_ = f.SetColWidth(resultSheet, "B", "B", 80)
	_ = f.SetColWidth(sourcesSheet, "A", "B", 40)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, apperrors.Export(err, "write workbook")
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return apperrors.Export(err, "address cell")
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return apperrors.Export(err, "write "+sheet+" sheet")
			}
		}
	}
	return nil
}
