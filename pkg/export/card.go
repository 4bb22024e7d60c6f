package export

import (
	"errors"
	"fmt"
	"strings"
)

// Supported card formats.
const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// Field is a labelled value printed above or below the marks table.
type Field struct {
	Label string
	Value string
}

// Card is a student's result card ready for rendering.
type Card struct {
	Title   string
	Fields  []Field
	Headers []string
	Rows    [][]string
	Summary []Field
}

// Renderer turns a card into a downloadable document.
type Renderer interface {
	Render(card Card) ([]byte, error)
	ContentType() string
	Extension() string
}

// ErrUnsupportedFormat is returned by ForFormat for unknown formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ForFormat resolves a renderer by name. An empty name selects PDF.
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatPDF:
		return NewPDFExporter(), nil
	case FormatCSV:
		return NewCSVExporter(), nil
	case FormatXLSX:
		return NewXLSXExporter(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func (c Card) validate() error {
	if len(c.Headers) == 0 {
		return errors.New("card requires at least one column")
	}
	for i, row := range c.Rows {
		if len(row) != len(c.Headers) {
			return fmt.Errorf("card row %d has %d cells, want %d", i, len(row), len(c.Headers))
		}
	}
	return nil
}
