package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-results-api/internal/dto"
	"github.com/noah-isme/school-results-api/internal/models"
	"github.com/noah-isme/school-results-api/internal/service"
	"github.com/noah-isme/school-results-api/pkg/response"
)

type resultService interface {
	List(ctx context.Context, filter models.ResultFilter) ([]models.ResultDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.ResultDetail, error)
	Create(ctx context.Context, req service.ResultRequest) (*models.ResultDetail, error)
	Update(ctx context.Context, id string, req service.ResultRequest) (*models.ResultDetail, error)
	Delete(ctx context.Context, id string) error
}

type recalculator interface {
	Run(ctx context.Context) (*dto.RecalculationSummary, error)
}

// ResultHandler exposes result CRUD and the recalculation trigger.
type ResultHandler struct {
	service      resultService
	recalculator recalculator
}

func NewResultHandler(svc resultService, recalc recalculator) *ResultHandler {
	return &ResultHandler{service: svc, recalculator: recalc}
}

// List godoc
// @Summary List results
// @Tags Results
// @Produce json
// @Param student_id query string false "Student ID"
// @Param subject_id query string false "Subject ID"
// @Param class_id query string false "Class ID"
// @Param exam_type query string false "Exam type"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security AdminSession
// @Router /results [get]
func (h *ResultHandler) List(c *gin.Context) {
	filter := models.ResultFilter{
		StudentID: c.Query("student_id"),
		SubjectID: c.Query("subject_id"),
		ClassID:   c.Query("class_id"),
		ExamType:  c.Query("exam_type"),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	filter.Page, filter.PageSize = pageParams(c)

	results, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, pagination)
}

// Get godoc
// @Summary Get result
// @Tags Results
// @Produce json
// @Param id path string true "Result ID"
// @Success 200 {object} response.Envelope
// @Security AdminSession
// @Router /results/{id} [get]
func (h *ResultHandler) Get(c *gin.Context) {
	result, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Create godoc
// @Summary Record a result
// @Description Grade and grade point are derived from marks and the subject scale.
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.ResultRequest true "Result payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security AdminSession
// @Router /results [post]
func (h *ResultHandler) Create(c *gin.Context) {
	var req service.ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Update godoc
// @Summary Update result
// @Tags Results
// @Accept json
// @Produce json
// @Param id path string true "Result ID"
// @Param payload body service.ResultRequest true "Result payload"
// @Success 200 {object} response.Envelope
// @Security AdminSession
// @Router /results/{id} [put]
func (h *ResultHandler) Update(c *gin.Context) {
	var req service.ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Delete godoc
// @Summary Delete result
// @Tags Results
// @Param id path string true "Result ID"
// @Success 204
// @Security AdminSession
// @Router /results/{id} [delete]
func (h *ResultHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Recalculate godoc
// @Summary Recalculate stored grades
// @Description Rewrites grade and grade point of every result whose stored values are stale.
// @Tags Results
// @Produce json
// @Success 200 {object} response.Envelope
// @Security AdminSession
// @Router /results/recalculate [post]
func (h *ResultHandler) Recalculate(c *gin.Context) {
	summary, err := h.recalculator.Run(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}
