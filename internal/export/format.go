package export

import (
	stderrors "errors"
	"strings"

	apperrors "github.com/ppiankov/factcheck/internal/errors"
)

// Format selects an export artifact
type Format string

const (
	FormatJSON     Format = "json"
	FormatText     Format = "text"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatXLSX     Format = "xlsx"
	FormatPDF      Format = "pdf"  // Needs a registered DocumentRenderer
	FormatDOCX     Format = "docx" // Needs a registered DocumentRenderer
)

// ErrUnsupportedFormat marks an unknown format or a document format without a renderer
var ErrUnsupportedFormat = stderrors.New("unsupported export format")

var formatAliases = map[string]Format{
	"json":     FormatJSON,
	"text":     FormatText,
	"txt":      FormatText,
	"md":       FormatMarkdown,
	"markdown": FormatMarkdown,
	"html":     FormatHTML,
	"xlsx":     FormatXLSX,
	"excel":    FormatXLSX,
	"pdf":      FormatPDF,
	"docx":     FormatDOCX,
}

// ParseFormat resolves a format selector; empty means JSON
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatJSON, nil
	}
	if f, ok := formatAliases[s]; ok {
		return f, nil
	}
	return "", apperrors.Export(ErrUnsupportedFormat, "unsupported export format "+s)
}

// ContentType is the MIME type of the artifact
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

// Extension is the file extension of the artifact, without the dot
func (f Format) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}
