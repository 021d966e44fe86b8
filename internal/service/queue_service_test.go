package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studq/queue-api/internal/models"
	"github.com/studq/queue-api/internal/repository"
	appErrors "github.com/studq/queue-api/pkg/errors"
)

type mockQueueRepo struct {
	entries []models.QueueEntryDetail
	names   map[int64][]string
	nextPos int64
	joinErr error
	cleared []string
}

func (m *mockQueueRepo) IsMember(ctx context.Context, userID int64, subjectID string) (bool, error) {
	for _, e := range m.entries {
		if e.UserID == userID && e.SubjectID == subjectID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockQueueRepo) ListBySubject(ctx context.Context, subjectID string) ([]models.QueueEntryDetail, error) {
	var list []models.QueueEntryDetail
	for _, e := range m.entries {
		if e.SubjectID == subjectID {
			list = append(list, e)
		}
	}
	return list, nil
}

func (m *mockQueueRepo) Join(ctx context.Context, userID int64, subjectID string) (*models.QueueEntry, error) {
	if m.joinErr != nil {
		return nil, m.joinErr
	}
	for _, e := range m.entries {
		if e.UserID == userID && e.SubjectID == subjectID {
			return nil, repository.ErrDuplicate
		}
	}
	m.nextPos++
	entry := models.QueueEntry{Position: m.nextPos, UserID: userID, SubjectID: subjectID, JoinedAt: time.Now()}
	m.entries = append(m.entries, models.QueueEntryDetail{QueueEntry: entry})
	return &entry, nil
}

func (m *mockQueueRepo) Leave(ctx context.Context, userID int64, subjectID string) error {
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.UserID != userID || e.SubjectID != subjectID {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return nil
}

func (m *mockQueueRepo) Clear(ctx context.Context, subjectID string) error {
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.SubjectID != subjectID {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	m.cleared = append(m.cleared, subjectID)
	return nil
}

func (m *mockQueueRepo) ListSubjectNamesByUser(ctx context.Context, userID int64) ([]string, error) {
	return m.names[userID], nil
}

func newQueueForTest(queues *mockQueueRepo, subjects *mockSubjectRepo, users *mockUserStore) *QueueService {
	return NewQueueService(queues, subjects, users, zap.NewNop())
}

func TestQueueServiceJoin(t *testing.T) {
	queues := &mockQueueRepo{}
	subjects := newMockSubjectRepo(models.Subject{ID: "sub-1", Name: "Math"})
	svc := newQueueForTest(queues, subjects, newMockUserStore(studentUser(7)))

	view, err := svc.Join(context.Background(), 7, "sub-1")
	require.NoError(t, err)
	require.Len(t, view.Entries, 1)
	assert.True(t, view.IsMember)
	assert.Equal(t, "Math", view.Subject.Name)
}

func TestQueueServiceJoinTwice(t *testing.T) {
	queues := &mockQueueRepo{}
	subjects := newMockSubjectRepo(models.Subject{ID: "sub-1", Name: "Math"})
	svc := newQueueForTest(queues, subjects, newMockUserStore(studentUser(7)))

	_, err := svc.Join(context.Background(), 7, "sub-1")
	require.NoError(t, err)

	_, err = svc.Join(context.Background(), 7, "sub-1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrAlreadyMember))
	assert.Len(t, queues.entries, 1)
}

func TestQueueServiceJoinUnknownSubject(t *testing.T) {
	svc := newQueueForTest(&mockQueueRepo{}, newMockSubjectRepo(), newMockUserStore(studentUser(7)))

	_, err := svc.Join(context.Background(), 7, "sub-x")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestQueueServiceJoinUnregisteredCaller(t *testing.T) {
	subjects := newMockSubjectRepo(models.Subject{ID: "sub-1", Name: "Math"})
	svc := newQueueForTest(&mockQueueRepo{}, subjects, newMockUserStore())

	_, err := svc.Join(context.Background(), 404, "sub-1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized))
}

func TestQueueServiceLeaveIdempotent(t *testing.T) {
	queues := &mockQueueRepo{}
	subjects := newMockSubjectRepo(models.Subject{ID: "sub-1", Name: "Math"})
	svc := newQueueForTest(queues, subjects, newMockUserStore(studentUser(7)))

	view, err := svc.Leave(context.Background(), 7, "sub-1")
	require.NoError(t, err)
	assert.Empty(t, view.Entries)
	assert.False(t, view.IsMember)

	_, err = svc.Join(context.Background(), 7, "sub-1")
	require.NoError(t, err)

	view, err = svc.Leave(context.Background(), 7, "sub-1")
	require.NoError(t, err)
	assert.Empty(t, view.Entries)
}

func TestQueueServiceLeaveAfterSubjectDeleted(t *testing.T) {
	queues := &mockQueueRepo{}
	svc := newQueueForTest(queues, newMockSubjectRepo(), newMockUserStore(studentUser(7)))

	view, err := svc.Leave(context.Background(), 7, "sub-gone")
	require.NoError(t, err)
	assert.Empty(t, view.Entries)
	assert.False(t, view.IsMember)
}

func TestQueueServiceLeaveUnregisteredCaller(t *testing.T) {
	subjects := newMockSubjectRepo(models.Subject{ID: "sub-1", Name: "Math"})
	svc := newQueueForTest(&mockQueueRepo{}, subjects, newMockUserStore())

	_, err := svc.Leave(context.Background(), 404, "sub-1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized))
}

func TestQueueServiceListPreservesArrivalOrder(t *testing.T) {
	queues := &mockQueueRepo{}
	subjects := newMockSubjectRepo(models.Subject{ID: "sub-1", Name: "Math"})
	users := newMockUserStore(studentUser(7), studentUser(8), studentUser(9))
	svc := newQueueForTest(queues, subjects, users)

	for _, id := range []int64{9, 7, 8} {
		_, err := svc.Join(context.Background(), id, "sub-1")
		require.NoError(t, err)
	}

	view, err := svc.ListQueue(context.Background(), 7, "sub-1")
	require.NoError(t, err)
	require.Len(t, view.Entries, 3)
	assert.Equal(t, int64(9), view.Entries[0].UserID)
	assert.Equal(t, int64(7), view.Entries[1].UserID)
	assert.Equal(t, int64(8), view.Entries[2].UserID)
}

func TestQueueServiceClearAdminOnly(t *testing.T) {
	queues := &mockQueueRepo{}
	subjects := newMockSubjectRepo(models.Subject{ID: "sub-1", Name: "Math"})
	users := newMockUserStore(adminUser(1), studentUser(7))
	svc := newQueueForTest(queues, subjects, users)

	_, err := svc.Join(context.Background(), 7, "sub-1")
	require.NoError(t, err)

	_, err = svc.Clear(context.Background(), 7, "sub-1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))
	assert.Len(t, queues.entries, 1)

	view, err := svc.Clear(context.Background(), 1, "sub-1")
	require.NoError(t, err)
	assert.Empty(t, view.Entries)
}

func TestQueueServiceClearEmptyQueue(t *testing.T) {
	queues := &mockQueueRepo{}
	subjects := newMockSubjectRepo(models.Subject{ID: "sub-1", Name: "Math"})
	svc := newQueueForTest(queues, subjects, newMockUserStore(adminUser(1)))

	view, err := svc.Clear(context.Background(), 1, "sub-1")
	require.NoError(t, err)
	assert.Empty(t, view.Entries)
	assert.Contains(t, queues.cleared, "sub-1")
}

func TestQueueServiceExportRosterForbiddenForStudent(t *testing.T) {
	subjects := newMockSubjectRepo(models.Subject{ID: "sub-1", Name: "Math"})
	svc := newQueueForTest(&mockQueueRepo{}, subjects, newMockUserStore(studentUser(7)))

	_, err := svc.ExportRoster(context.Background(), 7, "sub-1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))
}

func TestQueueServiceMyQueues(t *testing.T) {
	queues := &mockQueueRepo{names: map[int64][]string{7: {"Algebra", "Physics"}}}
	svc := newQueueForTest(queues, newMockSubjectRepo(), newMockUserStore(studentUser(7)))

	names, err := svc.MyQueues(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"Algebra", "Physics"}, names)
}
