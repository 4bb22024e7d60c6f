package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-results-api/internal/dto"
	"github.com/noah-isme/school-results-api/internal/models"
	"github.com/noah-isme/school-results-api/internal/service"
	"github.com/noah-isme/school-results-api/pkg/response"
)

type lookupService interface {
	SearchStudent(ctx context.Context, req service.SearchRequest) (*models.StudentDetail, error)
	SearchResults(ctx context.Context, req service.SearchRequest) (*dto.StudentResultView, error)
}

type resultCardExporter interface {
	ResultCard(ctx context.Context, req service.SearchRequest, format string) (*service.ResultCardFile, error)
}

// LookupHandler serves the public result search.
type LookupHandler struct {
	lookup   lookupService
	exporter resultCardExporter
}

func NewLookupHandler(lookup lookupService, exporter resultCardExporter) *LookupHandler {
	return &LookupHandler{lookup: lookup, exporter: exporter}
}

func bindSearch(c *gin.Context) (service.SearchRequest, error) {
	var req service.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, invalidPayload(err)
	}
	return req, nil
}

// SearchResults godoc
// @Summary Search a student's results
// @Tags Lookup
// @Produce json
// @Param roll query string true "Roll number"
// @Param classId query string true "Class ID"
// @Param examType query string false "Exam type"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /results/search [get]
func (h *LookupHandler) SearchResults(c *gin.Context) {
	req, err := bindSearch(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.lookup.SearchResults(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil, map[string]interface{}{"result_count": len(view.Results)})
}

// SearchStudent godoc
// @Summary Find a student by roll and class
// @Tags Lookup
// @Produce json
// @Param roll query string true "Roll number"
// @Param classId query string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/search [get]
func (h *LookupHandler) SearchStudent(c *gin.Context) {
	req, err := bindSearch(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.lookup.SearchStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// ResultCard godoc
// @Summary Download a result card
// @Tags Lookup
// @Produce application/pdf
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param roll query string true "Roll number"
// @Param classId query string true "Class ID"
// @Param examType query string false "Exam type"
// @Param format query string false "pdf, csv or xlsx"
// @Success 200 {file} file
// @Router /results/card [get]
func (h *LookupHandler) ResultCard(c *gin.Context) {
	req, err := bindSearch(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "pdf")))
	file, err := h.exporter.ResultCard(c.Request.Context(), req, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
