package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/ppiankov/factcheck/internal/errors"
	"github.com/ppiankov/factcheck/internal/extract"
	"github.com/ppiankov/factcheck/internal/metrics"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleResult() *model.FactCheckResult {
	return &model.FactCheckResult{
		ID:          "6f1c",
		Timestamp:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		ContentType: model.ContentText,
		ClaimText:   "Unemployment fell to 2.6 % in 2025.",
		Verdict:     model.VerdictMostlyTrue,
		Confidence:  0.8,
		Analysis: model.Analysis{
			Explanation: "The statistics office reports 2.7 %, close to the claim.",
			KeyPoints:   []string{"Official figure is 2.7 %", "Rounding explains the gap"},
			Sources: []model.Source{
				{Title: "CZSO", URL: "https://www.czso.cz/csu/czso/unemployment", Reliability: 5, ReliabilityScore: 1, Kind: model.SourceKindPrimary},
				{Title: "Deník | Economy", URL: "https://denik.cz/ekonomika/x", Reliability: 3, ReliabilityScore: 0.5, Kind: model.SourceKindSecondary},
			},
			AlternativePerspectives: []model.Perspective{{Title: "Seasonal", Description: "Seasonally adjusted data differ."}},
			SuggestedResponses:      []model.SuggestedResponse{{Type: "informative", Text: "The official rate is 2.7 %."}},
		},
		Settings: model.DefaultSettings(),
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":         FormatJSON,
		"JSON":     FormatJSON,
		"txt":      FormatText,
		"markdown": FormatMarkdown,
		"html":     FormatHTML,
		"excel":    FormatXLSX,
		"pdf":      FormatPDF,
		"docx":     FormatDOCX,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil {
			t.Errorf("ParseFormat(%q): unexpected error %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseFormat(%q): expected %s, got %s", in, want, got)
		}
	}

	_, err := ParseFormat("rtf")
	if !apperrors.IsExport(err) || !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected unsupported export error, got %v", err)
	}
}

func TestText_SectionOrder(t *testing.T) {
	out := Text(sampleResult())

	sections := []string{"FACT-CHECK RESULT", "VERDICT", "EXPLANATION", "KEY POINTS", "SOURCES"}
	last := -1
	for _, s := range sections {
		idx := strings.Index(out, s)
		if idx < 0 {
			t.Fatalf("Expected section %q in output", s)
		}
		if idx <= last {
			t.Errorf("Section %q out of order", s)
		}
		last = idx
	}

	assert.Contains(t, out, "Převážně pravdivé (mostly_true)")
	assert.Contains(t, out, "Truth score: 80 %")
	assert.Contains(t, out, "1. CZSO - https://www.czso.cz/csu/czso/unemployment [Velmi vysoká, 5/5]")
}

func TestText_HidesScoreOffScale(t *testing.T) {
	res := sampleResult()
	res.Verdict = model.VerdictSatire
	res.Confidence = 0.5
	res.Analysis.KeyPoints = []string{}
	res.Analysis.Sources = []model.Source{}

	out := Text(res)
	assert.NotContains(t, out, "Truth score")
	assert.Equal(t, 2, strings.Count(out, "(none)"))
}

func TestMarkdown(t *testing.T) {
	out := Markdown(sampleResult(), "Report")

	assert.True(t, strings.HasPrefix(out, "# Report\n"))
	assert.Contains(t, out, "## Sources")
	assert.Contains(t, out, `Deník \| Economy`)
	assert.Contains(t, out, "- **Seasonal**: Seasonally adjusted data differ.")
	assert.Contains(t, out, "Expertise: medium · Length: standard")
}

func TestHTML_CompletePage(t *testing.T) {
	out := string(HTML(sampleResult(), "Report"))

	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "<title>Report</title>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, `href="https://www.czso.cz/csu/czso/unemployment"`)
}

func TestHTML_DropsProviderMarkup(t *testing.T) {
	res := sampleResult()
	res.Analysis.Explanation = `Claim debunked. <script>alert(1)</script> <img src=x onerror="alert(2)">`
	res.Analysis.KeyPoints = []string{`<a href="javascript:alert(3)">click</a>`}
	res.Analysis.Sources = append(res.Analysis.Sources,
		model.Source{Title: "Trap", URL: "javascript:alert(4)", Reliability: 1, ReliabilityScore: 0})

	out := string(HTML(res, `Report <b>x</b>`))

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "<img")
	assert.NotContains(t, out, "onerror")
	assert.NotContains(t, out, `href="javascript:`)
	assert.NotContains(t, out, "<title>Report <b>")
	assert.Contains(t, out, "Trap")
	assert.Contains(t, out, `href="https://www.czso.cz/csu/czso/unemployment"`)
}

func TestMarkdown_UnsafeSourceIsNotLinked(t *testing.T) {
	res := sampleResult()
	res.Analysis.Sources = []model.Source{{Title: "Trap", URL: "javascript:alert(1)", Reliability: 1}}

	out := Markdown(res, "Report")
	assert.Contains(t, out, "| Trap |")
	assert.NotContains(t, out, "javascript:")
}

func TestXLSX(t *testing.T) {
	data, err := XLSX(sampleResult())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{resultSheet, sourcesSheet}, f.GetSheetList())

	verdict, err := f.GetCellValue(resultSheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "mostly_true", verdict)

	rows, err := f.GetRows(sourcesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "CZSO", rows[1][0])
	assert.Equal(t, "primary", rows[1][5])
}

func TestExporter_DocumentRenderers(t *testing.T) {
	m := metrics.New()
	e := NewExporter(model.ExportConfig{Title: "Report"}, m)

	_, err := e.Export(context.Background(), sampleResult(), FormatPDF)
	if !apperrors.IsExport(err) || !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Expected unsupported export error, got %v", err)
	}
	if e.Supports(FormatPDF) {
		t.Error("Expected pdf to be unsupported before registration")
	}

	var gotMarkdown string
	e.Register(FormatPDF, DocumentRendererFunc(func(ctx context.Context, res *model.FactCheckResult, md []byte) ([]byte, error) {
		gotMarkdown = string(md)
		return []byte("%PDF-1.7"), nil
	}))

	art, err := e.Export(context.Background(), sampleResult(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", art.ContentType)
	assert.Equal(t, "factcheck-6f1c.pdf", art.Filename)
	assert.Equal(t, "%PDF-1.7", string(art.Data))
	assert.True(t, strings.HasPrefix(gotMarkdown, "# Report"))

	e.Register(FormatDOCX, DocumentRendererFunc(func(context.Context, *model.FactCheckResult, []byte) ([]byte, error) {
		return nil, errors.New("converter crashed")
	}))
	_, err = e.Export(context.Background(), sampleResult(), FormatDOCX)
	if !apperrors.IsExport(err) || errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected export failure, got %v", err)
	}
}

func TestExporter_NilResult(t *testing.T) {
	e := NewExporter(model.ExportConfig{}, nil)
	if _, err := e.Export(context.Background(), nil, FormatJSON); !apperrors.IsExport(err) {
		t.Errorf("Expected export error, got %v", err)
	}
}

func TestJSON_ReparsesToSameResult(t *testing.T) {
	original := sampleResult()
	data, err := JSON(original)
	require.NoError(t, err)

	var raw any
	require.NoError(t, json.Unmarshal(data, &raw))

	asm := pipeline.NewAssembler(nil, nil)
	again := asm.Assemble(pipeline.AssembleInput{Payload: extract.Sniff(raw)})

	again.ID = original.ID
	again.Timestamp = original.Timestamp
	assert.Equal(t, original, again)
}
