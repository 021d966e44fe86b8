package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studq/queue-api/internal/models"
	appErrors "github.com/studq/queue-api/pkg/errors"
)

type mockUserStore struct {
	users    map[int64]models.User
	promoted [][]int64
}

func newMockUserStore(users ...models.User) *mockUserStore {
	m := &mockUserStore{users: make(map[int64]models.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserStore) GetOrCreate(ctx context.Context, id int64, displayName string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	u := models.User{ID: id, DisplayName: displayName, Role: models.RoleStudent, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.users[id] = u
	return &u, nil
}

func (m *mockUserStore) PromoteAdmins(ctx context.Context, ids []int64) error {
	m.promoted = append(m.promoted, ids)
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			u.Role = models.RoleAdmin
			m.users[id] = u
		}
	}
	return nil
}

func adminUser(id int64) models.User {
	return models.User{ID: id, DisplayName: "Admin", Role: models.RoleAdmin}
}

func studentUser(id int64) models.User {
	return models.User{ID: id, DisplayName: "Student", Role: models.RoleStudent}
}

func TestDirectoryServiceGetOrCreateFallbackName(t *testing.T) {
	store := newMockUserStore()
	svc := NewDirectoryService(store, nil, zap.NewNop())

	user, err := svc.GetOrCreate(context.Background(), 7, "   ")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", user.DisplayName)
	assert.Equal(t, models.RoleStudent, user.Role)
}

func TestDirectoryServiceGetOrCreateTrimsName(t *testing.T) {
	store := newMockUserStore()
	svc := NewDirectoryService(store, nil, zap.NewNop())

	user, err := svc.GetOrCreate(context.Background(), 7, "  Ann  ")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.DisplayName)
}

func TestDirectoryServiceGetOrCreateKeepsStoredName(t *testing.T) {
	store := newMockUserStore(models.User{ID: 7, DisplayName: "Original", Role: models.RoleStudent})
	svc := NewDirectoryService(store, nil, zap.NewNop())

	user, err := svc.GetOrCreate(context.Background(), 7, "Changed")
	require.NoError(t, err)
	assert.Equal(t, "Original", user.DisplayName)
}

func TestDirectoryServiceGetMissing(t *testing.T) {
	svc := NewDirectoryService(newMockUserStore(), nil, zap.NewNop())

	_, err := svc.Get(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestDirectoryServiceApplyRoster(t *testing.T) {
	store := newMockUserStore(studentUser(1), studentUser(2))
	svc := NewDirectoryService(store, []int64{1, 99}, zap.NewNop())

	require.NoError(t, svc.ApplyRoster(context.Background()))
	require.Len(t, store.promoted, 1)

	promoted, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	untouched, err := svc.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, untouched.Role)
}

func TestDirectoryServiceApplyRosterEmpty(t *testing.T) {
	store := newMockUserStore()
	svc := NewDirectoryService(store, nil, zap.NewNop())

	require.NoError(t, svc.ApplyRoster(context.Background()))
	assert.Empty(t, store.promoted)
}
