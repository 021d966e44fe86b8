package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/studq/queue-api/internal/models"
)

// SubjectRepository handles persistence for the subject catalog.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns all subjects ordered by name.
func (r *SubjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	const query = `SELECT id, name, created_at, updated_at FROM subjects ORDER BY name ASC`
	subjects := []models.Subject{}
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindByID returns a subject by id.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	const query = `SELECT id, name, created_at, updated_at FROM subjects WHERE id = $1 LIMIT 1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ExistsByName checks case-insensitive name uniqueness, optionally excluding
// one subject (the rename target).
func (r *SubjectRepository) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM subjects WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check subject name: %w", err)
	}
	return true, nil
}

// Create persists a new subject. A unique-index violation on the name maps
// to ErrDuplicate so races with a concurrent create stay detectable.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now

	const query = `INSERT INTO subjects (id, name, created_at, updated_at) VALUES (:id, :name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Rename updates a subject's name and returns the stored update timestamp.
// Returns sql.ErrNoRows when the subject does not exist and ErrDuplicate
// when the new name is taken.
func (r *SubjectRepository) Rename(ctx context.Context, id, name string) (time.Time, error) {
	const query = `UPDATE subjects SET name = $2, updated_at = $3 WHERE id = $1 RETURNING updated_at`
	var updatedAt time.Time
	if err := r.db.QueryRowxContext(ctx, query, id, name, time.Now().UTC()).Scan(&updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, err
		}
		if isUniqueViolation(err) {
			return time.Time{}, ErrDuplicate
		}
		return time.Time{}, fmt.Errorf("rename subject: %w", err)
	}
	return updatedAt, nil
}

// DeleteCascade removes the subject and all of its queue entries in one
// transaction, so no orphaned entry is ever observable. Returns
// sql.ErrNoRows when the subject is already gone.
func (r *SubjectRepository) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete subject: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM queue_entries WHERE subject_id = $1`, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete subject queue entries: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete subject: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete subject rows: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return sql.ErrNoRows
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete subject: %w", err)
	}
	return nil
}
