package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/school-results-api/internal/models"
	"github.com/noah-isme/school-results-api/internal/repository"
)

type fakeClassRepo struct {
	classes map[string]*models.Class
	err     error
}

func newFakeClassRepo(classes ...models.Class) *fakeClassRepo {
	repo := &fakeClassRepo{classes: map[string]*models.Class{}}
	for i := range classes {
		c := classes[i]
		repo.classes[c.ID] = &c
	}
	return repo
}

func (f *fakeClassRepo) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	out := make([]models.Class, 0, len(f.classes))
	for _, c := range f.classes {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (f *fakeClassRepo) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.classes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *c
	return &clone, nil
}

func (f *fakeClassRepo) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	for id, c := range f.classes {
		if id != excludeID && c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeClassRepo) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = fmt.Sprintf("class-%d", len(f.classes)+1)
	}
	clone := *class
	f.classes[class.ID] = &clone
	return nil
}

func (f *fakeClassRepo) Update(ctx context.Context, class *models.Class) error {
	clone := *class
	f.classes[class.ID] = &clone
	return nil
}

func (f *fakeClassRepo) Delete(ctx context.Context, id string) error {
	delete(f.classes, id)
	return nil
}

type fakeSubjectRepo struct {
	subjects    map[string]*models.Subject
	resultCount int
}

func newFakeSubjectRepo(subjects ...models.Subject) *fakeSubjectRepo {
	repo := &fakeSubjectRepo{subjects: map[string]*models.Subject{}}
	for i := range subjects {
		s := subjects[i]
		repo.subjects[s.ID] = &s
	}
	return repo
}

func (f *fakeSubjectRepo) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	out := make([]models.Subject, 0, len(f.subjects))
	for _, s := range f.subjects {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (f *fakeSubjectRepo) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	s, ok := f.subjects[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *s
	return &clone, nil
}

func (f *fakeSubjectRepo) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	for id, s := range f.subjects {
		if id != excludeID && s.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubjectRepo) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = fmt.Sprintf("subject-%d", len(f.subjects)+1)
	}
	clone := *subject
	f.subjects[subject.ID] = &clone
	return nil
}

func (f *fakeSubjectRepo) Update(ctx context.Context, subject *models.Subject) error {
	clone := *subject
	f.subjects[subject.ID] = &clone
	return nil
}

func (f *fakeSubjectRepo) Delete(ctx context.Context, id string) error {
	delete(f.subjects, id)
	return nil
}

func (f *fakeSubjectRepo) CountResults(ctx context.Context, subjectID string) (int, error) {
	return f.resultCount, nil
}

type fakeStudentRepo struct {
	students  map[string]*models.StudentDetail
	classes   *fakeClassRepo
	createErr error
	findErr   error
}

func newFakeStudentRepo(classes *fakeClassRepo, students ...models.Student) *fakeStudentRepo {
	repo := &fakeStudentRepo{students: map[string]*models.StudentDetail{}, classes: classes}
	for _, s := range students {
		repo.put(s)
	}
	return repo
}

func (f *fakeStudentRepo) put(s models.Student) {
	detail := &models.StudentDetail{Student: s}
	if f.classes != nil {
		if c, ok := f.classes.classes[s.ClassID]; ok {
			detail.ClassName = c.Name
		}
	}
	f.students[s.ID] = detail
}

func (f *fakeStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	out := []models.StudentDetail{}
	for _, s := range f.students {
		if filter.ClassID == "" || s.ClassID == filter.ClassID {
			out = append(out, *s)
		}
	}
	return out, len(out), nil
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *s
	return &clone, nil
}

func (f *fakeStudentRepo) FindByRollAndClass(ctx context.Context, roll, classID string) (*models.StudentDetail, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, s := range f.students {
		if s.Roll == roll && s.ClassID == classID {
			clone := *s
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) ExistsByRoll(ctx context.Context, roll, classID, excludeID string) (bool, error) {
	for id, s := range f.students {
		if id != excludeID && s.Roll == roll && s.ClassID == classID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if f.createErr != nil {
		return f.createErr
	}
	if student.ID == "" {
		student.ID = fmt.Sprintf("student-%d", len(f.students)+1)
	}
	f.put(*student)
	return nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	f.put(*student)
	return nil
}

func (f *fakeStudentRepo) Delete(ctx context.Context, id string) error {
	delete(f.students, id)
	return nil
}

// fakeResultRepo joins results with the subject repo on read so max marks
// always reflect the subject's current value.
type fakeResultRepo struct {
	results   map[string]*models.Result
	order     []string
	subjects  *fakeSubjectRepo
	listErr   error
	updateErr error
	failAfter int
	updates   int
}

func newFakeResultRepo(subjects *fakeSubjectRepo, results ...models.Result) *fakeResultRepo {
	repo := &fakeResultRepo{results: map[string]*models.Result{}, subjects: subjects, failAfter: -1}
	for i := range results {
		r := results[i]
		repo.results[r.ID] = &r
		repo.order = append(repo.order, r.ID)
	}
	return repo
}

func (f *fakeResultRepo) detail(r *models.Result) models.ResultDetail {
	d := models.ResultDetail{Result: *r, MaxMarks: 100}
	if s, ok := f.subjects.subjects[r.SubjectID]; ok {
		d.SubjectName = s.Name
		d.SubjectCode = s.Code
		d.MaxMarks = s.MaxMarks
	}
	return d
}

func (f *fakeResultRepo) List(ctx context.Context, filter models.ResultFilter) ([]models.ResultDetail, int, error) {
	out := []models.ResultDetail{}
	for _, id := range f.order {
		if r, ok := f.results[id]; ok {
			out = append(out, f.detail(r))
		}
	}
	return out, len(out), nil
}

func (f *fakeResultRepo) FindByID(ctx context.Context, id string) (*models.ResultDetail, error) {
	r, ok := f.results[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	d := f.detail(r)
	return &d, nil
}

func (f *fakeResultRepo) ListByStudent(ctx context.Context, studentID, classID, examType string) ([]models.ResultDetail, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.ResultDetail{}
	for _, id := range f.order {
		r, ok := f.results[id]
		if !ok || r.StudentID != studentID || r.ClassID != classID {
			continue
		}
		if examType != "" && r.ExamType != examType {
			continue
		}
		out = append(out, f.detail(r))
	}
	return out, nil
}

func (f *fakeResultRepo) ListAll(ctx context.Context) ([]models.ResultDetail, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.ResultDetail{}
	for _, id := range f.order {
		if r, ok := f.results[id]; ok {
			out = append(out, f.detail(r))
		}
	}
	return out, nil
}

func (f *fakeResultRepo) Exists(ctx context.Context, studentID, subjectID, examType, excludeID string) (bool, error) {
	for id, r := range f.results {
		if id != excludeID && r.StudentID == studentID && r.SubjectID == subjectID && r.ExamType == examType {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeResultRepo) Create(ctx context.Context, result *models.Result) error {
	if result.ID == "" {
		result.ID = fmt.Sprintf("result-%d", len(f.results)+1)
	}
	clone := *result
	f.results[result.ID] = &clone
	f.order = append(f.order, result.ID)
	return nil
}

func (f *fakeResultRepo) Update(ctx context.Context, result *models.Result) error {
	clone := *result
	f.results[result.ID] = &clone
	return nil
}

func (f *fakeResultRepo) UpdateGrade(ctx context.Context, id, grade string, gpa float64) error {
	if f.updateErr != nil && f.failAfter >= 0 && f.updates >= f.failAfter {
		return f.updateErr
	}
	r, ok := f.results[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Grade = grade
	r.GPA = gpa
	f.updates++
	return nil
}

func (f *fakeResultRepo) Delete(ctx context.Context, id string) error {
	delete(f.results, id)
	return nil
}

type fakeSessionStore struct {
	sessions map[string]*models.AdminSession
	ttl      time.Duration
	saveErr  error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*models.AdminSession{}}
}

func (f *fakeSessionStore) Save(ctx context.Context, session *models.AdminSession, ttl time.Duration) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	clone := *session
	f.sessions[session.ID] = &clone
	f.ttl = ttl
	return nil
}

func (f *fakeSessionStore) Find(ctx context.Context, id string) (*models.AdminSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	clone := *s
	return &clone, nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

type fakeAdminRepo struct {
	admins map[string]*models.Admin
}

func (f *fakeAdminRepo) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	a, ok := f.admins[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *a
	return &clone, nil
}

func (f *fakeAdminRepo) Upsert(ctx context.Context, admin *models.Admin) error {
	if f.admins == nil {
		f.admins = map[string]*models.Admin{}
	}
	if existing, ok := f.admins[admin.Username]; ok {
		admin.ID = existing.ID
	} else if admin.ID == "" {
		admin.ID = "admin-1"
	}
	clone := *admin
	f.admins[admin.Username] = &clone
	return nil
}

type recordedRun struct {
	scanned, updated int
	err              error
}

type fakeRecorder struct {
	runs    []recordedRun
	lookups []string
	logins  []bool
}

func (f *fakeRecorder) RecordRecalculation(scanned, updated int, duration time.Duration, err error) {
	f.runs = append(f.runs, recordedRun{scanned: scanned, updated: updated, err: err})
}

func (f *fakeRecorder) RecordLookup(outcome string) {
	f.lookups = append(f.lookups, outcome)
}

func (f *fakeRecorder) RecordLogin(success bool) {
	f.logins = append(f.logins, success)
}
