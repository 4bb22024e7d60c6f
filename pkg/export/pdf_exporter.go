package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const pageWidth = 190.0

// PDFExporter renders a printable A4 result card.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

func (e *PDFExporter) ContentType() string { return "application/pdf" }

func (e *PDFExporter) Extension() string { return FormatPDF }

func (e *PDFExporter) Render(card Card) ([]byte, error) {
	if err := card.validate(); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if card.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(card.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	writeFields(pdf, card.Fields)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	colWidth := pageWidth / float64(len(card.Headers))
	for _, header := range card.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range card.Rows {
		for i, value := range row {
			align := "C"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(colWidth, 7, value, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(card.Summary) > 0 {
		pdf.Ln(4)
		writeFields(pdf, card.Summary)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFields(pdf *gofpdf.Fpdf, fields []Field) {
	for _, f := range fields {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 6, f.Label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, f.Value, "", 1, "L", false, 0, "")
	}
}
