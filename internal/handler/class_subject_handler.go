package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-results-api/internal/models"
	"github.com/noah-isme/school-results-api/internal/service"
	"github.com/noah-isme/school-results-api/pkg/response"
)

type classSubjectService interface {
	List(ctx context.Context, filter models.ClassSubjectFilter) ([]models.ClassSubjectDetail, error)
	Assign(ctx context.Context, req service.AssignSubjectRequest) (*models.ClassSubjectDetail, error)
	Remove(ctx context.Context, id string) error
}

// ClassSubjectHandler manages which subjects are taught in a class.
type ClassSubjectHandler struct {
	service classSubjectService
}

func NewClassSubjectHandler(svc classSubjectService) *ClassSubjectHandler {
	return &ClassSubjectHandler{service: svc}
}

// List godoc
// @Summary List class subject assignments
// @Tags ClassSubjects
// @Produce json
// @Param class_id query string false "Class ID"
// @Param subject_id query string false "Subject ID"
// @Success 200 {object} response.Envelope
// @Security AdminSession
// @Router /class-subjects [get]
func (h *ClassSubjectHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), models.ClassSubjectFilter{
		ClassID:   c.Query("class_id"),
		SubjectID: c.Query("subject_id"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Assign godoc
// @Summary Assign subject to class
// @Tags ClassSubjects
// @Accept json
// @Produce json
// @Param payload body service.AssignSubjectRequest true "Assignment"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security AdminSession
// @Router /class-subjects [post]
func (h *ClassSubjectHandler) Assign(c *gin.Context) {
	var req service.AssignSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	item, err := h.service.Assign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Remove godoc
// @Summary Remove subject from class
// @Tags ClassSubjects
// @Param id path string true "Assignment ID"
// @Success 204
// @Security AdminSession
// @Router /class-subjects/{id} [delete]
func (h *ClassSubjectHandler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
