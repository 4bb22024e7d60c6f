package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleCard() Card {
	return Card{
		Title:   "Result Card",
		Fields:  []Field{{Label: "Name", Value: "Rahim Uddin"}, {Label: "Roll", Value: "12"}},
		Headers: []string{"Subject", "Marks", "Grade", "GPA"},
		Rows: [][]string{
			{"Mathematics", "85", "A+", "5.00"},
			{"Religion", "45/50", "A+", "5.00"},
		},
		Summary: []Field{{Label: "Overall GPA", Value: "5.00"}},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleCard())
	require.NoError(t, err)

	expected := "Name,Rahim Uddin\nRoll,12\n\nSubject,Marks,Grade,GPA\nMathematics,85,A+,5.00\nReligion,45/50,A+,5.00\n\nOverall GPA,5.00\n"
	assert.Equal(t, expected, string(out))
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleCard())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleCard())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Equal(t, []string{"Result Card"}, rows[0])
	assert.Equal(t, []string{"Subject", "Marks", "Grade", "GPA"}, rows[5])
	assert.Equal(t, []string{"Religion", "45/50", "A+", "5.00"}, rows[7])

	titleStyle, err := f.GetCellStyle(sheetName, "A1")
	require.NoError(t, err)
	headerStyle, err := f.GetCellStyle(sheetName, "A6")
	require.NoError(t, err)
	assert.NotZero(t, titleStyle)
	assert.Equal(t, headerStyle, titleStyle)
}

func TestRenderRejectsRaggedRows(t *testing.T) {
	card := sampleCard()
	card.Rows = append(card.Rows, []string{"Only one"})
	for _, r := range []Renderer{NewCSVExporter(), NewPDFExporter(), NewXLSXExporter()} {
		_, err := r.Render(card)
		assert.Error(t, err)
	}
}

func TestForFormat(t *testing.T) {
	r, err := ForFormat("")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", r.ContentType())

	r, err = ForFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, "xlsx", r.Extension())

	_, err = ForFormat("docx")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}
