package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestQueueRepositoryJoinReturnsPosition(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewQueueRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO queue_entries (user_id, subject_id, joined_at) VALUES ($1, $2, $3) RETURNING position")).
		WithArgs(int64(7), "sub-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow(42))

	entry, err := repo.Join(context.Background(), 7, "sub-1")
	require.NoError(t, err)
	require.Equal(t, int64(42), entry.Position)
	require.Equal(t, int64(7), entry.UserID)
	require.Equal(t, "sub-1", entry.SubjectID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueRepositoryJoinDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewQueueRepository(db)

	mock.ExpectQuery("INSERT INTO queue_entries").
		WithArgs(int64(7), "sub-1", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Join(context.Background(), 7, "sub-1")
	require.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueRepositoryListBySubject(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewQueueRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"position", "user_id", "subject_id", "joined_at", "display_name"}).
		AddRow(1, int64(7), "sub-1", now.Add(-time.Minute), "Ann").
		AddRow(2, int64(8), "sub-1", now, "Bob")
	mock.ExpectQuery("SELECT q.position, q.user_id, q.subject_id, q.joined_at, u.display_name").
		WithArgs("sub-1").
		WillReturnRows(rows)

	entries, err := repo.ListBySubject(context.Background(), "sub-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "Ann", entries[0].DisplayName)
	require.Equal(t, "Bob", entries[1].DisplayName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueRepositoryIsMemberAbsent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewQueueRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM queue_entries WHERE user_id = $1 AND subject_id = $2 LIMIT 1")).
		WithArgs(int64(7), "sub-1").
		WillReturnError(sql.ErrNoRows)

	member, err := repo.IsMember(context.Background(), 7, "sub-1")
	require.NoError(t, err)
	require.False(t, member)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueRepositoryLeaveAbsentEntry(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewQueueRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM queue_entries WHERE user_id = $1 AND subject_id = $2")).
		WithArgs(int64(7), "sub-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Leave(context.Background(), 7, "sub-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueRepositoryClear(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewQueueRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM queue_entries WHERE subject_id = $1")).
		WithArgs("sub-1").
		WillReturnResult(sqlmock.NewResult(0, 5))

	require.NoError(t, repo.Clear(context.Background(), "sub-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueRepositoryListSubjectNamesByUser(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewQueueRepository(db)

	rows := sqlmock.NewRows([]string{"name"}).AddRow("Algebra").AddRow("Physics")
	mock.ExpectQuery("SELECT s.name FROM queue_entries q").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	names, err := repo.ListSubjectNamesByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, []string{"Algebra", "Physics"}, names)
	require.NoError(t, mock.ExpectationsWereMet())
}
