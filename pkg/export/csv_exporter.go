package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter writes the card fields, the marks table and the summary as CSV sections.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) ContentType() string { return "text/csv" }

func (e *CSVExporter) Extension() string { return FormatCSV }

func (e *CSVExporter) Render(card Card) ([]byte, error) {
	if err := card.validate(); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	records := make([][]string, 0, len(card.Fields)+len(card.Rows)+len(card.Summary)+3)
	for _, f := range card.Fields {
		records = append(records, []string{f.Label, f.Value})
	}
	if len(card.Fields) > 0 {
		records = append(records, []string{})
	}
	records = append(records, card.Headers)
	records = append(records, card.Rows...)
	if len(card.Summary) > 0 {
		records = append(records, []string{})
	}
	for _, f := range card.Summary {
		records = append(records, []string{f.Label, f.Value})
	}

	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
