package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-results-api/internal/models"
)

const resultDetailSelect = `SELECT r.id, r.student_id, r.subject_id, r.class_id, r.marks, r.grade, r.gpa, r.exam_type, r.exam_date, r.created_at, r.updated_at,
        st.roll AS student_roll, st.name AS student_name, sb.name AS subject_name, sb.code AS subject_code, COALESCE(sb.max_marks, 100) AS max_marks, c.name AS class_name`

const resultDetailFrom = `FROM results r
        JOIN students st ON st.id = r.student_id
        JOIN subjects sb ON sb.id = r.subject_id
        JOIN classes c ON c.id = r.class_id`

var resultSorts = map[string]string{
	"marks":      "r.marks",
	"exam_type":  "r.exam_type",
	"exam_date":  "r.exam_date",
	"created_at": "r.created_at",
	"subject":    "sb.code",
	"roll":       "st.roll",
}

// ResultRepository manages persistence for exam results.
type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// List returns results joined with student, subject and class labels.
func (r *ResultRepository) List(ctx context.Context, filter models.ResultFilter) ([]models.ResultDetail, int, error) {
	where := " WHERE 1=1"
	var args []interface{}

	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		where += " AND r.student_id = " + placeholder(args)
	}
	if filter.SubjectID != "" {
		args = append(args, filter.SubjectID)
		where += " AND r.subject_id = " + placeholder(args)
	}
	if filter.ClassID != "" {
		args = append(args, filter.ClassID)
		where += " AND r.class_id = " + placeholder(args)
	}
	if filter.ExamType != "" {
		args = append(args, filter.ExamType)
		where += " AND r.exam_type = " + placeholder(args)
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}

	query := fmt.Sprintf("%s %s%s %s %s", resultDetailSelect, resultDetailFrom, where, orderBy(sortBy, filter.SortOrder, resultSorts, "created_at"), limitOffset(filter.Page, filter.PageSize))
	results := []models.ResultDetail{}
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list results: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM results r"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count results: %w", err)
	}
	return results, total, nil
}

func (r *ResultRepository) FindByID(ctx context.Context, id string) (*models.ResultDetail, error) {
	query := fmt.Sprintf("%s %s WHERE r.id = $1", resultDetailSelect, resultDetailFrom)
	var result models.ResultDetail
	if err := r.db.GetContext(ctx, &result, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find result: %w", err)
	}
	return &result, nil
}

// ListByStudent returns a student's results in a class ordered by subject code.
func (r *ResultRepository) ListByStudent(ctx context.Context, studentID, classID, examType string) ([]models.ResultDetail, error) {
	query := fmt.Sprintf("%s %s WHERE r.student_id = $1 AND r.class_id = $2", resultDetailSelect, resultDetailFrom)
	args := []interface{}{studentID, classID}
	if examType != "" {
		args = append(args, examType)
		query += " AND r.exam_type = " + placeholder(args)
	}
	query += " ORDER BY sb.code ASC, r.exam_type ASC"

	results := []models.ResultDetail{}
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("list student results: %w", err)
	}
	return results, nil
}

// ListAll scans every stored result with its subject's current max marks.
func (r *ResultRepository) ListAll(ctx context.Context) ([]models.ResultDetail, error) {
	const query = `SELECT r.id, r.student_id, r.subject_id, r.class_id, r.marks, r.grade, r.gpa, r.exam_type, r.exam_date, r.created_at, r.updated_at,
        COALESCE(sb.max_marks, 100) AS max_marks
        FROM results r LEFT JOIN subjects sb ON sb.id = r.subject_id ORDER BY r.created_at ASC`
	results := []models.ResultDetail{}
	if err := r.db.SelectContext(ctx, &results, query); err != nil {
		return nil, fmt.Errorf("scan results: %w", err)
	}
	return results, nil
}

// Exists checks the (student, subject, exam type) uniqueness key.
func (r *ResultRepository) Exists(ctx context.Context, studentID, subjectID, examType, excludeID string) (bool, error) {
	query := "SELECT 1 FROM results WHERE student_id = $1 AND subject_id = $2 AND exam_type = $3"
	args := []interface{}{studentID, subjectID, examType}
	if excludeID != "" {
		query += " AND id <> $4"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check result: %w", err)
	}
	return true, nil
}

func (r *ResultRepository) Create(ctx context.Context, result *models.Result) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if result.CreatedAt.IsZero() {
		result.CreatedAt = now
	}
	result.UpdatedAt = now

	const query = `INSERT INTO results (id, student_id, subject_id, class_id, marks, grade, gpa, exam_type, exam_date, created_at, updated_at)
        VALUES (:id, :student_id, :subject_id, :class_id, :marks, :grade, :gpa, :exam_type, :exam_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("create result: %w", err)
	}
	return nil
}

func (r *ResultRepository) Update(ctx context.Context, result *models.Result) error {
	result.UpdatedAt = time.Now().UTC()
	const query = `UPDATE results SET student_id = :student_id, subject_id = :subject_id, class_id = :class_id, marks = :marks, grade = :grade, gpa = :gpa,
        exam_type = :exam_type, exam_date = :exam_date, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("update result: %w", err)
	}
	return nil
}

// UpdateGrade rewrites only the derived grade fields of a result.
func (r *ResultRepository) UpdateGrade(ctx context.Context, id, grade string, gpa float64) error {
	const query = `UPDATE results SET grade = $2, gpa = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, grade, gpa, time.Now().UTC()); err != nil {
		return fmt.Errorf("update result grade: %w", err)
	}
	return nil
}

func (r *ResultRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM results WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	return nil
}
