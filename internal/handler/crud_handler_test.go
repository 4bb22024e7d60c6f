package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-results-api/internal/models"
	"github.com/noah-isme/school-results-api/internal/service"
	appErrors "github.com/noah-isme/school-results-api/pkg/errors"
)

type fakeSubjectSrv struct {
	lastFilter models.SubjectFilter
	lastReq    service.SubjectRequest
	err        error
}

func (f *fakeSubjectSrv) List(_ context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	f.lastFilter = filter
	return []models.Subject{{ID: "math", Code: "MATH", MaxMarks: 100}}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, f.err
}

func (f *fakeSubjectSrv) Get(_ context.Context, id string) (*models.Subject, error) {
	return &models.Subject{ID: id}, f.err
}

func (f *fakeSubjectSrv) Create(_ context.Context, req service.SubjectRequest) (*models.Subject, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Subject{ID: "math", Name: req.Name, Code: req.Code, MaxMarks: req.MaxMarks}, nil
}

func (f *fakeSubjectSrv) Update(_ context.Context, id string, req service.SubjectRequest) (*models.Subject, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Subject{ID: id, Name: req.Name}, nil
}

func (f *fakeSubjectSrv) Delete(context.Context, string) error { return f.err }

func TestSubjectHandlerListParsesMaxMarks(t *testing.T) {
	srv := &fakeSubjectSrv{}
	handler := NewSubjectHandler(srv)

	c, rec := newContext(http.MethodGet, "/subjects?max_marks=50&search=rel", nil)
	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50, srv.lastFilter.MaxMarks)
	assert.Equal(t, "rel", srv.lastFilter.Search)

	c, _ = newContext(http.MethodGet, "/subjects?max_marks=abc", nil)
	handler.List(c)
	assert.Zero(t, srv.lastFilter.MaxMarks)
}

func TestSubjectHandlerCreate(t *testing.T) {
	srv := &fakeSubjectSrv{}
	handler := NewSubjectHandler(srv)

	c, rec := newContext(http.MethodPost, "/subjects", []byte(`{"name":"Religion","code":"rel","max_marks":50}`))
	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 50, srv.lastReq.MaxMarks)
}

func TestSubjectHandlerErrors(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/subjects", []byte(`{"name":`))
	NewSubjectHandler(&fakeSubjectSrv{}).Create(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decode(t, rec).Error["code"])

	handler := NewSubjectHandler(&fakeSubjectSrv{err: appErrors.Clone(appErrors.ErrConflict, "subject code already exists")})
	c, rec = newContext(http.MethodPut, "/subjects/math", []byte(`{"name":"Maths","code":"MATH"}`))
	c.Params = gin.Params{{Key: "id", Value: "math"}}
	handler.Update(c)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

type fakeStudentSrv struct {
	lastFilter models.StudentFilter
	lastReq    service.StudentRequest
	err        error
}

func (f *fakeStudentSrv) List(_ context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	f.lastFilter = filter
	return []models.StudentDetail{}, &models.Pagination{Page: 1, PageSize: 20}, f.err
}

func (f *fakeStudentSrv) Get(_ context.Context, id string) (*models.StudentDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.StudentDetail{Student: models.Student{ID: id}}, nil
}

func (f *fakeStudentSrv) Create(_ context.Context, req service.StudentRequest) (*models.StudentDetail, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.StudentDetail{Student: models.Student{ID: "s1", Roll: req.Roll, ClassID: req.ClassID}}, nil
}

func (f *fakeStudentSrv) Update(_ context.Context, id string, req service.StudentRequest) (*models.StudentDetail, error) {
	f.lastReq = req
	return &models.StudentDetail{Student: models.Student{ID: id}}, f.err
}

func (f *fakeStudentSrv) Delete(context.Context, string) error { return f.err }

func TestStudentHandlerListFiltersByClass(t *testing.T) {
	srv := &fakeStudentSrv{}
	c, rec := newContext(http.MethodGet, "/students?class_id=c1&page=3", nil)
	NewStudentHandler(srv).List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c1", srv.lastFilter.ClassID)
	assert.Equal(t, 3, srv.lastFilter.Page)
}

func TestStudentHandlerCreate(t *testing.T) {
	srv := &fakeStudentSrv{}
	c, rec := newContext(http.MethodPost, "/students", []byte(`{"roll":"12","name":"Rahim","class_id":"c1","gender":"male"}`))
	NewStudentHandler(srv).Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "12", srv.lastReq.Roll)
	require.NotNil(t, srv.lastReq.Gender)
	assert.Equal(t, "male", *srv.lastReq.Gender)
}

func TestStudentHandlerErrors(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/students", []byte(`[]`))
	NewStudentHandler(&fakeStudentSrv{}).Create(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	conflict := NewStudentHandler(&fakeStudentSrv{err: appErrors.Clone(appErrors.ErrConflict, "roll already used in class")})
	c, rec = newContext(http.MethodPost, "/students", []byte(`{"roll":"12","name":"Rahim","class_id":"c1"}`))
	conflict.Create(c)
	assert.Equal(t, http.StatusConflict, rec.Code)

	missing := NewStudentHandler(&fakeStudentSrv{err: appErrors.Clone(appErrors.ErrNotFound, "student not found")})
	c, rec = newContext(http.MethodGet, "/students/s9", nil)
	c.Params = gin.Params{{Key: "id", Value: "s9"}}
	missing.Get(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type fakeClassSubjectSrv struct {
	lastFilter models.ClassSubjectFilter
	lastReq    service.AssignSubjectRequest
	removed    string
	err        error
}

func (f *fakeClassSubjectSrv) List(_ context.Context, filter models.ClassSubjectFilter) ([]models.ClassSubjectDetail, error) {
	f.lastFilter = filter
	return []models.ClassSubjectDetail{}, f.err
}

func (f *fakeClassSubjectSrv) Assign(_ context.Context, req service.AssignSubjectRequest) (*models.ClassSubjectDetail, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ClassSubjectDetail{ClassSubject: models.ClassSubject{ID: "cs1", ClassID: req.ClassID, SubjectID: req.SubjectID}}, nil
}

func (f *fakeClassSubjectSrv) Remove(_ context.Context, id string) error {
	f.removed = id
	return f.err
}

func TestClassSubjectHandlerListAndRemove(t *testing.T) {
	srv := &fakeClassSubjectSrv{}
	handler := NewClassSubjectHandler(srv)

	c, rec := newContext(http.MethodGet, "/class-subjects?class_id=c1&subject_id=math", nil)
	handler.List(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ClassSubjectFilter{ClassID: "c1", SubjectID: "math"}, srv.lastFilter)

	c, rec = newContext(http.MethodDelete, "/class-subjects/cs1", nil)
	c.Params = gin.Params{{Key: "id", Value: "cs1"}}
	handler.Remove(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "cs1", srv.removed)
}

func TestClassSubjectHandlerAssign(t *testing.T) {
	srv := &fakeClassSubjectSrv{}
	c, rec := newContext(http.MethodPost, "/class-subjects", []byte(`{"class_id":"c1","subject_id":"math"}`))
	NewClassSubjectHandler(srv).Assign(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, service.AssignSubjectRequest{ClassID: "c1", SubjectID: "math"}, srv.lastReq)
}

func TestClassSubjectHandlerErrors(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/class-subjects", []byte(`{`))
	NewClassSubjectHandler(&fakeClassSubjectSrv{}).Assign(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	handler := NewClassSubjectHandler(&fakeClassSubjectSrv{err: appErrors.Clone(appErrors.ErrConflict, "subject already assigned to class")})
	c, rec = newContext(http.MethodPost, "/class-subjects", []byte(`{"class_id":"c1","subject_id":"math"}`))
	handler.Assign(c)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
