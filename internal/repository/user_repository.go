package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/studq/queue-api/internal/models"
)

// UserRepository provides database access to the user directory.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID returns a user by the platform identifier.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT id, display_name, role, created_at, updated_at FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrCreate inserts the user if absent and returns the stored row. An
// existing display name is never overwritten. Insert-if-absent makes the
// operation safe under concurrent first contacts.
func (r *UserRepository) GetOrCreate(ctx context.Context, id int64, displayName string) (*models.User, error) {
	now := time.Now().UTC()
	const insert = `INSERT INTO users (id, display_name, role, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $4)
        ON CONFLICT (id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, insert, id, displayName, models.RoleStudent, now); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user after upsert: %w", err)
	}
	return user, nil
}

// PromoteAdmins sets role=admin for every listed user that exists. Unknown
// ids are ignored; an empty roster is a no-op.
func (r *UserRepository) PromoteAdmins(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	const query = `UPDATE users SET role = $1, updated_at = $2 WHERE id = ANY($3) AND role <> $1`
	if _, err := r.db.ExecContext(ctx, query, models.RoleAdmin, time.Now().UTC(), pq.Array(ids)); err != nil {
		return fmt.Errorf("promote admins: %w", err)
	}
	return nil
}
