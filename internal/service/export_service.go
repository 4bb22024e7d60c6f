package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/noah-isme/school-results-api/internal/dto"
	appErrors "github.com/noah-isme/school-results-api/pkg/errors"
	"github.com/noah-isme/school-results-api/pkg/export"
)

type resultViewProvider interface {
	SearchResults(ctx context.Context, req SearchRequest) (*dto.StudentResultView, error)
}

// ResultCardFile is a rendered result card.
type ResultCardFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders result cards for download.
type ExportService struct {
	lookup resultViewProvider
}

func NewExportService(lookup resultViewProvider) *ExportService {
	return &ExportService{lookup: lookup}
}

// ResultCard renders the student's result view as pdf, csv or xlsx.
func (s *ExportService) ResultCard(ctx context.Context, req SearchRequest, format string) (*ResultCardFile, error) {
	renderer, err := export.ForFormat(format)
	if err != nil {
		return nil, validationError(err, "format must be one of pdf, csv, xlsx")
	}

	view, err := s.lookup.SearchResults(ctx, req)
	if err != nil {
		return nil, err
	}

	body, err := renderer.Render(BuildResultCard(view))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render result card")
	}

	return &ResultCardFile{
		Filename:    fmt.Sprintf("result-card-%s-%s.%s", slug(view.Student.ClassName), slug(view.Student.Roll), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// BuildResultCard lays out a result view as a printable card.
func BuildResultCard(view *dto.StudentResultView) export.Card {
	fields := []export.Field{
		{Label: "Name", Value: view.Student.Name},
		{Label: "Roll", Value: view.Student.Roll},
		{Label: "Class", Value: view.Student.ClassName},
	}
	if view.Student.FatherName != nil {
		fields = append(fields, export.Field{Label: "Father", Value: *view.Student.FatherName})
	}
	if view.Student.MotherName != nil {
		fields = append(fields, export.Field{Label: "Mother", Value: *view.Student.MotherName})
	}
	if view.ExamType != "" {
		fields = append(fields, export.Field{Label: "Exam", Value: view.ExamType})
	}

	rows := make([][]string, 0, len(view.Results))
	for _, line := range view.Results {
		rows = append(rows, []string{
			line.SubjectName,
			line.ExamType,
			line.DisplayMarks,
			line.Grade,
			fmt.Sprintf("%.2f", line.GradePoint),
		})
	}

	status := "Failed"
	if view.Passed {
		status = "Passed"
	}

	return export.Card{
		Title:   "Result Card",
		Fields:  fields,
		Headers: []string{"Subject", "Exam", "Marks", "Grade", "Grade Point"},
		Rows:    rows,
		Summary: []export.Field{
			{Label: "Overall GPA", Value: fmt.Sprintf("%.2f", view.OverallGPA)},
			{Label: "Status", Value: status},
		},
	}
}

func slug(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	var b strings.Builder
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "student"
	}
	return b.String()
}
