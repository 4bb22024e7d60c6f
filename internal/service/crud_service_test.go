package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-results-api/internal/models"
	appErrors "github.com/noah-isme/school-results-api/pkg/errors"
)

func strPtr(v string) *string { return &v }

func TestClassServiceCreateRejectsDuplicateName(t *testing.T) {
	fx := newFixture()
	svc := NewClassService(fx.classes, nil, nil)

	_, err := svc.Create(context.Background(), ClassRequest{Name: " Class 6 "})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	created, err := svc.Create(context.Background(), ClassRequest{Name: "Class 8", Description: strPtr("Science")})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestClassServiceUpdateAndDelete(t *testing.T) {
	fx := newFixture()
	svc := NewClassService(fx.classes, nil, nil)

	updated, err := svc.Update(context.Background(), "c1", ClassRequest{Name: "Class Six"})
	require.NoError(t, err)
	assert.Equal(t, "Class Six", updated.Name)

	_, err = svc.Update(context.Background(), "c1", ClassRequest{Name: "Class 7"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	require.NoError(t, svc.Delete(context.Background(), "c2"))
	assert.True(t, errors.Is(svc.Delete(context.Background(), "c2"), appErrors.ErrNotFound))
}

func TestClassServiceListPagination(t *testing.T) {
	fx := newFixture()
	svc := NewClassService(fx.classes, nil, nil)

	classes, page, err := svc.List(context.Background(), models.ClassFilter{})
	require.NoError(t, err)
	assert.Len(t, classes, 2)
	assert.Equal(t, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 2}, page)
}

func TestSubjectServiceDefaultsAndNormalizes(t *testing.T) {
	fx := newFixture()
	svc := NewSubjectService(fx.subjects, nil, nil)

	created, err := svc.Create(context.Background(), SubjectRequest{Name: "English", Code: " eng "})
	require.NoError(t, err)
	assert.Equal(t, "ENG", created.Code)
	assert.Equal(t, 100, created.MaxMarks)

	_, err = svc.Create(context.Background(), SubjectRequest{Name: "Arts", Code: "ART", MaxMarks: 75})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, "max_marks must be 50 or 100", appErrors.FromError(err).Message)

	_, err = svc.Create(context.Background(), SubjectRequest{Name: "Maths 2", Code: "math"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestSubjectServiceUpdateScale(t *testing.T) {
	fx := newFixture()
	fx.subjects.resultCount = 3
	svc := NewSubjectService(fx.subjects, nil, nil)

	updated, err := svc.Update(context.Background(), "rel", SubjectRequest{Name: "Religion", Code: "REL", MaxMarks: 100})
	require.NoError(t, err)
	assert.Equal(t, 100, updated.MaxMarks)
	assert.Equal(t, 100, fx.subjects.subjects["rel"].MaxMarks)
}

func TestStudentServiceCreate(t *testing.T) {
	fx := newFixture()
	svc := NewStudentService(fx.students, fx.classes, nil, nil)

	created, err := svc.Create(context.Background(), StudentRequest{Roll: "14", Name: "Nadia", ClassID: "c1", DateOfBirth: strPtr("2012-03-04"), Gender: strPtr("female")})
	require.NoError(t, err)
	assert.Equal(t, "Class 6", created.ClassName)
	require.NotNil(t, created.DateOfBirth)
	assert.Equal(t, 4, created.DateOfBirth.Day())
}

func TestStudentServiceCreateErrors(t *testing.T) {
	fx := newFixture()
	svc := NewStudentService(fx.students, fx.classes, nil, nil)

	_, err := svc.Create(context.Background(), StudentRequest{Roll: "12", Name: "Dup", ClassID: "c1"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	// The same roll in another class is allowed.
	_, err = svc.Create(context.Background(), StudentRequest{Roll: "12", Name: "Other", ClassID: "c2"})
	assert.NoError(t, err)

	_, err = svc.Create(context.Background(), StudentRequest{Roll: "15", Name: "Ghost", ClassID: "missing"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), StudentRequest{Roll: "15", Name: "Bad", ClassID: "c1", Gender: strPtr("x")})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	fx.students.createErr = &pq.Error{Code: "23505", Constraint: "students_roll_class_key"}
	_, err = svc.Create(context.Background(), StudentRequest{Roll: "16", Name: "Race", ClassID: "c1"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestStudentServiceUpdateKeepsIdentity(t *testing.T) {
	fx := newFixture()
	svc := NewStudentService(fx.students, fx.classes, nil, nil)

	updated, err := svc.Update(context.Background(), "s1", StudentRequest{Roll: "12", Name: "Rahim Uddin", ClassID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "s1", updated.ID)
	assert.Equal(t, "Rahim Uddin", updated.Name)
}

func TestClassSubjectServiceAssign(t *testing.T) {
	fx := newFixture()
	repo := &fakeClassSubjectRepo{items: map[string]*models.ClassSubjectDetail{}}
	svc := NewClassSubjectService(repo, fx.classes, fx.subjects, nil, nil)

	detail, err := svc.Assign(context.Background(), AssignSubjectRequest{ClassID: "c1", SubjectID: "math"})
	require.NoError(t, err)
	assert.Equal(t, "c1", detail.ClassID)

	_, err = svc.Assign(context.Background(), AssignSubjectRequest{ClassID: "c1", SubjectID: "math"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.Assign(context.Background(), AssignSubjectRequest{ClassID: "c1", SubjectID: "bio"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	require.NoError(t, svc.Remove(context.Background(), detail.ID))
	assert.True(t, errors.Is(svc.Remove(context.Background(), detail.ID), appErrors.ErrNotFound))
}

type fakeClassSubjectRepo struct {
	items map[string]*models.ClassSubjectDetail
}

func (f *fakeClassSubjectRepo) List(ctx context.Context, filter models.ClassSubjectFilter) ([]models.ClassSubjectDetail, error) {
	out := []models.ClassSubjectDetail{}
	for _, item := range f.items {
		if filter.ClassID == "" || item.ClassID == filter.ClassID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeClassSubjectRepo) FindByID(ctx context.Context, id string) (*models.ClassSubjectDetail, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *item
	return &clone, nil
}

func (f *fakeClassSubjectRepo) Exists(ctx context.Context, classID, subjectID string) (bool, error) {
	for _, item := range f.items {
		if item.ClassID == classID && item.SubjectID == subjectID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeClassSubjectRepo) Create(ctx context.Context, item *models.ClassSubject) error {
	item.ID = "cs-1"
	f.items[item.ID] = &models.ClassSubjectDetail{ClassSubject: *item}
	return nil
}

func (f *fakeClassSubjectRepo) Delete(ctx context.Context, id string) error {
	delete(f.items, id)
	return nil
}
