package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/studq/queue-api/internal/models"
)

func TestUserRepositoryGetOrCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(int64(7), "Ann", models.RoleStudent, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, display_name, role, created_at, updated_at FROM users WHERE id = $1 LIMIT 1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "role", "created_at", "updated_at"}).
			AddRow(int64(7), "Ann", models.RoleStudent, now, now))

	user, err := repo.GetOrCreate(context.Background(), 7, "Ann")
	require.NoError(t, err)
	require.Equal(t, int64(7), user.ID)
	require.Equal(t, "Ann", user.DisplayName)
	require.Equal(t, models.RoleStudent, user.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetOrCreateExistingKeepsName(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	// ON CONFLICT DO NOTHING: the insert touches no row, the read returns
	// the stored record untouched.
	mock.ExpectExec("INSERT INTO users").
		WithArgs(int64(7), "New Name", models.RoleStudent, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, display_name, role, created_at, updated_at FROM users WHERE id = $1 LIMIT 1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "role", "created_at", "updated_at"}).
			AddRow(int64(7), "Original Name", models.RoleAdmin, now, now))

	user, err := repo.GetOrCreate(context.Background(), 7, "New Name")
	require.NoError(t, err)
	require.Equal(t, "Original Name", user.DisplayName)
	require.Equal(t, models.RoleAdmin, user.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryPromoteAdmins(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET role").
		WithArgs(models.RoleAdmin, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.PromoteAdmins(context.Background(), []int64{1, 2}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryPromoteAdminsEmptyRoster(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	require.NoError(t, repo.PromoteAdmins(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}
