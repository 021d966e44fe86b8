package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/studq/queue-api/internal/models"
)

// QueueRepository handles persistence of the per-subject queue ledger.
type QueueRepository struct {
	db *sqlx.DB
}

// NewQueueRepository constructs the repository.
func NewQueueRepository(db *sqlx.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

// IsMember reports whether the user already holds an entry for the subject.
func (r *QueueRepository) IsMember(ctx context.Context, userID int64, subjectID string) (bool, error) {
	const query = `SELECT 1 FROM queue_entries WHERE user_id = $1 AND subject_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, userID, subjectID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check queue membership: %w", err)
	}
	return true, nil
}

// ListBySubject returns the subject's queue in arrival order. Ties on
// joined_at fall back to the insertion sequence. Subject existence is the
// caller's responsibility.
func (r *QueueRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.QueueEntryDetail, error) {
	const query = `SELECT q.position, q.user_id, q.subject_id, q.joined_at, u.display_name
        FROM queue_entries q
        JOIN users u ON u.id = q.user_id
        WHERE q.subject_id = $1
        ORDER BY q.joined_at ASC, q.position ASC`
	entries := []models.QueueEntryDetail{}
	if err := r.db.SelectContext(ctx, &entries, query, subjectID); err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}
	return entries, nil
}

// Join inserts a queue entry with joined_at = now. The (user_id, subject_id)
// unique constraint maps to ErrDuplicate, so a duplicate join loses even when
// two joins race past the membership pre-check.
func (r *QueueRepository) Join(ctx context.Context, userID int64, subjectID string) (*models.QueueEntry, error) {
	entry := models.QueueEntry{
		UserID:    userID,
		SubjectID: subjectID,
		JoinedAt:  time.Now().UTC(),
	}

	const query = `INSERT INTO queue_entries (user_id, subject_id, joined_at) VALUES ($1, $2, $3) RETURNING position`
	if err := r.db.QueryRowxContext(ctx, query, entry.UserID, entry.SubjectID, entry.JoinedAt).Scan(&entry.Position); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("join queue: %w", err)
	}
	return &entry, nil
}

// Leave removes the user's entry for the subject. Removing an absent entry
// is a silent no-op.
func (r *QueueRepository) Leave(ctx context.Context, userID int64, subjectID string) error {
	const query = `DELETE FROM queue_entries WHERE user_id = $1 AND subject_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, subjectID); err != nil {
		return fmt.Errorf("leave queue: %w", err)
	}
	return nil
}

// Clear removes every entry for the subject; an empty queue clears fine.
func (r *QueueRepository) Clear(ctx context.Context, subjectID string) error {
	const query = `DELETE FROM queue_entries WHERE subject_id = $1`
	if _, err := r.db.ExecContext(ctx, query, subjectID); err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}
	return nil
}

// ListSubjectNamesByUser returns the names of subjects the user queues for,
// ordered by name.
func (r *QueueRepository) ListSubjectNamesByUser(ctx context.Context, userID int64) ([]string, error) {
	const query = `SELECT s.name FROM queue_entries q
        JOIN subjects s ON s.id = q.subject_id
        WHERE q.user_id = $1
        ORDER BY s.name ASC`
	names := []string{}
	if err := r.db.SelectContext(ctx, &names, query, userID); err != nil {
		return nil, fmt.Errorf("list user queues: %w", err)
	}
	return names, nil
}
