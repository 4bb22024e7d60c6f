package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-results-api/internal/models"
)

const studentDetailSelect = `SELECT s.id, s.roll, s.name, s.father_name, s.mother_name, s.date_of_birth, s.gender, s.address, s.phone, s.class_id, s.created_at, s.updated_at, c.name AS class_name`

var studentSorts = map[string]string{
	"roll":       "s.roll",
	"name":       "s.name",
	"created_at": "s.created_at",
}

// StudentRepository manages persistence for students.
type StudentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students with their class name.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	base := "FROM students s JOIN classes c ON c.id = s.class_id WHERE 1=1"
	var args []interface{}

	if filter.ClassID != "" {
		args = append(args, filter.ClassID)
		base += " AND s.class_id = " + placeholder(args)
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		p := placeholder(args)
		base += fmt.Sprintf(" AND (LOWER(s.name) LIKE %s OR LOWER(s.roll) LIKE %s)", p, p)
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}

	query := fmt.Sprintf("%s %s %s %s", studentDetailSelect, base, orderBy(sortBy, filter.SortOrder, studentSorts, "created_at"), limitOffset(filter.Page, filter.PageSize))
	students := []models.StudentDetail{}
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	query := studentDetailSelect + " FROM students s JOIN classes c ON c.id = s.class_id WHERE s.id = $1"
	var student models.StudentDetail
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// FindByRollAndClass resolves the student identified by roll within a class.
func (r *StudentRepository) FindByRollAndClass(ctx context.Context, roll, classID string) (*models.StudentDetail, error) {
	query := studentDetailSelect + " FROM students s JOIN classes c ON c.id = s.class_id WHERE s.roll = $1 AND s.class_id = $2"
	var student models.StudentDetail
	if err := r.db.GetContext(ctx, &student, query, roll, classID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by roll: %w", err)
	}
	return &student, nil
}

// ExistsByRoll reports whether the roll is taken within the class.
func (r *StudentRepository) ExistsByRoll(ctx context.Context, roll, classID, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE roll = $1 AND class_id = $2"
	args := []interface{}{roll, classID}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student roll: %w", err)
	}
	return true, nil
}

func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	const query = `INSERT INTO students (id, roll, name, father_name, mother_name, date_of_birth, gender, address, phone, class_id, created_at, updated_at)
        VALUES (:id, :roll, :name, :father_name, :mother_name, :date_of_birth, :gender, :address, :phone, :class_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET roll = :roll, name = :name, father_name = :father_name, mother_name = :mother_name, date_of_birth = :date_of_birth,
        gender = :gender, address = :address, phone = :phone, class_id = :class_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student together with their results.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
