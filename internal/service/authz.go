package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/studq/queue-api/internal/models"
	appErrors "github.com/studq/queue-api/pkg/errors"
)

// userReader resolves caller accounts. Every mutating operation resolves its
// caller here first; handlers never make authorization decisions.
type userReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// resolveCaller loads the caller's account. A caller with no user record is
// unauthenticated, which is distinct from lacking the admin role.
func resolveCaller(ctx context.Context, users userReader, callerID int64) (*models.User, error) {
	user, err := users.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "caller is not registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load caller")
	}
	return user, nil
}

// requireAdmin resolves the caller and rejects non-admins with Forbidden.
func requireAdmin(ctx context.Context, users userReader, callerID int64) (*models.User, error) {
	user, err := resolveCaller(ctx, users, callerID)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin role required")
	}
	return user, nil
}
