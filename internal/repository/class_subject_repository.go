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

const classSubjectDetailSelect = `SELECT cs.id, cs.class_id, cs.subject_id, cs.created_at, c.name AS class_name, s.name AS subject_name, s.code AS subject_code, s.max_marks
        FROM class_subjects cs
        JOIN classes c ON c.id = cs.class_id
        JOIN subjects s ON s.id = cs.subject_id`

// ClassSubjectRepository manages which subjects a class takes.
type ClassSubjectRepository struct {
	db *sqlx.DB
}

func NewClassSubjectRepository(db *sqlx.DB) *ClassSubjectRepository {
	return &ClassSubjectRepository{db: db}
}

func (r *ClassSubjectRepository) List(ctx context.Context, filter models.ClassSubjectFilter) ([]models.ClassSubjectDetail, error) {
	query := classSubjectDetailSelect + " WHERE 1=1"
	var args []interface{}
	if filter.ClassID != "" {
		args = append(args, filter.ClassID)
		query += " AND cs.class_id = " + placeholder(args)
	}
	if filter.SubjectID != "" {
		args = append(args, filter.SubjectID)
		query += " AND cs.subject_id = " + placeholder(args)
	}
	query += " ORDER BY c.name ASC, s.code ASC"

	items := []models.ClassSubjectDetail{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list class subjects: %w", err)
	}
	return items, nil
}

func (r *ClassSubjectRepository) FindByID(ctx context.Context, id string) (*models.ClassSubjectDetail, error) {
	var item models.ClassSubjectDetail
	if err := r.db.GetContext(ctx, &item, classSubjectDetailSelect+" WHERE cs.id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class subject: %w", err)
	}
	return &item, nil
}

// Exists reports whether the subject is already assigned to the class.
func (r *ClassSubjectRepository) Exists(ctx context.Context, classID, subjectID string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM class_subjects WHERE class_id = $1 AND subject_id = $2 LIMIT 1`, classID, subjectID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check class subject: %w", err)
	}
	return true, nil
}

func (r *ClassSubjectRepository) Create(ctx context.Context, item *models.ClassSubject) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO class_subjects (id, class_id, subject_id, created_at) VALUES (:id, :class_id, :subject_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create class subject: %w", err)
	}
	return nil
}

func (r *ClassSubjectRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM class_subjects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete class subject: %w", err)
	}
	return nil
}
