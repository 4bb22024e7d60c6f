package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Result Card"

// XLSXExporter renders the card into a single worksheet.
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *XLSXExporter) Extension() string { return FormatXLSX }

func (e *XLSXExporter) Render(card Card) ([]byte, error) {
	if err := card.validate(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	row := 1
	if card.Title != "" {
		if err := setRow(f, row, []string{card.Title}); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, "A1", "A1", bold); err != nil {
			return nil, fmt.Errorf("style title: %w", err)
		}
		row += 2
	}
	for _, field := range card.Fields {
		if err := setRow(f, row, []string{field.Label, field.Value}); err != nil {
			return nil, err
		}
		row++
	}
	if len(card.Fields) > 0 {
		row++
	}

	if err := setRow(f, row, card.Headers); err != nil {
		return nil, err
	}
	start, _ := excelize.CoordinatesToCellName(1, row)
	end, _ := excelize.CoordinatesToCellName(len(card.Headers), row)
	if err := f.SetCellStyle(sheetName, start, end, bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}
	row++

	for _, values := range card.Rows {
		if err := setRow(f, row, values); err != nil {
			return nil, err
		}
		row++
	}

	if len(card.Summary) > 0 {
		row++
		for _, field := range card.Summary {
			if err := setRow(f, row, []string{field.Label, field.Value}); err != nil {
				return nil, err
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
		return fmt.Errorf("write xlsx row %d: %w", row, err)
	}
	return nil
}
