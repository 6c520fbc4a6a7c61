package export

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	apperrors "github.com/ppiankov/factcheck/internal/errors"
	"github.com/ppiankov/factcheck/internal/metrics"
	"github.com/ppiankov/factcheck/internal/model"
)

// Artifact is one exported document
type Artifact struct {
	Format      Format
	ContentType string
	Filename    string
	Data        []byte
}

// DocumentRenderer produces printable documents (pdf, docx) from the markdown rendering of a result
type DocumentRenderer interface {
	RenderDocument(ctx context.Context, res *model.FactCheckResult, markdown []byte) ([]byte, error)
}

// DocumentRendererFunc adapts a function to DocumentRenderer
type DocumentRendererFunc func(ctx context.Context, res *model.FactCheckResult, markdown []byte) ([]byte, error)

func (f DocumentRendererFunc) RenderDocument(ctx context.Context, res *model.FactCheckResult, markdown []byte) ([]byte, error) {
	return f(ctx, res, markdown)
}

// Exporter serializes results. Every format is a pure function of the result.
type Exporter struct {
	title   string
	metrics *metrics.Metrics

	mu        sync.RWMutex
	documents map[Format]DocumentRenderer
}

// NewExporter creates an exporter; m may be nil
func NewExporter(cfg model.ExportConfig, m *metrics.Metrics) *Exporter {
	title := cfg.Title
	if title == "" {
		title = model.DefaultConfig().Export.Title
	}
	return &Exporter{
		title:     title,
		metrics:   m,
		documents: make(map[Format]DocumentRenderer),
	}
}

// Register installs the collaborator for a document format
func (e *Exporter) Register(f Format, r DocumentRenderer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.documents[f] = r
}

// Supports reports whether f can currently be produced
func (e *Exporter) Supports(f Format) bool {
	switch f {
	case FormatJSON, FormatText, FormatMarkdown, FormatHTML, FormatXLSX:
		return true
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.documents[f]
	return ok
}

// Export produces the artifact for res in format f
func (e *Exporter) Export(ctx context.Context, res *model.FactCheckResult, f Format) (*Artifact, error) {
	data, err := e.render(ctx, res, f)
	e.metrics.Export(string(f), err)
	if err != nil {
		return nil, err
	}

	id := res.ID
	if id == "" {
		id = "result"
	}
	return &Artifact{
		Format:      f,
		ContentType: f.ContentType(),
		Filename:    fmt.Sprintf("factcheck-%s.%s", id, f.Extension()),
		Data:        data,
	}, nil
}

func (e *Exporter) render(ctx context.Context, res *model.FactCheckResult, f Format) ([]byte, error) {
	if res == nil {
		return nil, apperrors.Export(nil, "no result to export")
	}

	switch f {
	case FormatJSON:
		return JSON(res)
	case FormatText:
		return []byte(Text(res)), nil
	case FormatMarkdown:
		return []byte(Markdown(res, e.title)), nil
	case FormatHTML:
		return HTML(res, e.title), nil
	case FormatXLSX:
		return XLSX(res)
	}

	e.mu.RLock()
	doc, ok := e.documents[f]
	e.mu.RUnlock()
	if !ok {
		return nil, apperrors.Export(ErrUnsupportedFormat, fmt.Sprintf("export format %s is not available", f))
	}

	data, err := doc.RenderDocument(ctx, res.Clone(), []byte(Markdown(res, e.title)))
	if err != nil {
		return nil, apperrors.Export(err, fmt.Sprintf("render %s document", f))
	}
	return data, nil
}

// JSON is the canonical field-for-field serialization, the same envelope the API returns
func JSON(res *model.FactCheckResult) ([]byte, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, apperrors.Export(err, "encode result as JSON")
	}
	return data, nil
}
