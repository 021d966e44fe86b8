package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studq/queue-api/internal/middleware"
	"github.com/studq/queue-api/internal/models"
	"github.com/studq/queue-api/internal/service"
	appErrors "github.com/studq/queue-api/pkg/errors"
)

type queueServiceMock struct {
	view       *service.QueueView
	err        error
	names      []string
	lastOp     string
	lastCaller int64
}

func (m *queueServiceMock) ListQueue(ctx context.Context, callerID int64, subjectID string) (*service.QueueView, error) {
	m.lastOp, m.lastCaller = "list", callerID
	return m.view, m.err
}

func (m *queueServiceMock) Join(ctx context.Context, callerID int64, subjectID string) (*service.QueueView, error) {
	m.lastOp, m.lastCaller = "join", callerID
	return m.view, m.err
}

func (m *queueServiceMock) Leave(ctx context.Context, callerID int64, subjectID string) (*service.QueueView, error) {
	m.lastOp, m.lastCaller = "leave", callerID
	return m.view, m.err
}

func (m *queueServiceMock) Clear(ctx context.Context, callerID int64, subjectID string) (*service.QueueView, error) {
	m.lastOp, m.lastCaller = "clear", callerID
	return m.view, m.err
}

func (m *queueServiceMock) ExportRoster(ctx context.Context, callerID int64, subjectID string) (*service.QueueView, error) {
	m.lastOp, m.lastCaller = "export", callerID
	return m.view, m.err
}

func (m *queueServiceMock) MyQueues(ctx context.Context, callerID int64) ([]string, error) {
	m.lastOp, m.lastCaller = "my-queues", callerID
	return m.names, m.err
}

type countersMock struct {
	joins  int
	leaves int
}

func (m *countersMock) CountJoin()  { m.joins++ }
func (m *countersMock) CountLeave() { m.leaves++ }

func sampleView() *service.QueueView {
	return &service.QueueView{
		Subject: models.Subject{ID: "sub-1", Name: "Math"},
		Entries: []models.QueueEntryDetail{
			{QueueEntry: models.QueueEntry{Position: 1, UserID: 7, SubjectID: "sub-1", JoinedAt: time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)}, DisplayName: "Ann"},
		},
		IsMember: true,
	}
}

func TestQueueHandlerJoinCountsMetric(t *testing.T) {
	mockSvc := &queueServiceMock{view: sampleView()}
	counters := &countersMock{}
	handler := NewQueueHandler(mockSvc, counters)

	c, w := testContext(t, http.MethodPost, "/subjects/sub-1/queue", nil)
	c.Params = gin.Params{{Key: "id", Value: "sub-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 7, Role: models.RoleStudent})

	handler.Join(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "join", mockSvc.lastOp)
	assert.Equal(t, int64(7), mockSvc.lastCaller)
	assert.Equal(t, 1, counters.joins)
}

func TestQueueHandlerJoinConflictSkipsMetric(t *testing.T) {
	mockSvc := &queueServiceMock{err: appErrors.ErrAlreadyMember}
	counters := &countersMock{}
	handler := NewQueueHandler(mockSvc, counters)

	c, w := testContext(t, http.MethodPost, "/subjects/sub-1/queue", nil)
	c.Params = gin.Params{{Key: "id", Value: "sub-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 7, Role: models.RoleStudent})

	handler.Join(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Zero(t, counters.joins)
}

func TestQueueHandlerListWithoutClaims(t *testing.T) {
	handler := NewQueueHandler(&queueServiceMock{}, &countersMock{})

	c, w := testContext(t, http.MethodGet, "/subjects/sub-1/queue", nil)
	c.Params = gin.Params{{Key: "id", Value: "sub-1"}}

	handler.List(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestQueueHandlerExportCSV(t *testing.T) {
	mockSvc := &queueServiceMock{view: sampleView()}
	handler := NewQueueHandler(mockSvc, &countersMock{})

	c, w := testContext(t, http.MethodGet, "/subjects/sub-1/queue/export?format=csv", nil)
	c.Params = gin.Params{{Key: "id", Value: "sub-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 1, Role: models.RoleAdmin})

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Math.csv")
	assert.Contains(t, w.Body.String(), "Ann")
	assert.Contains(t, w.Body.String(), "2026-08-27 10:00:00")
}

func TestQueueHandlerExportPDF(t *testing.T) {
	mockSvc := &queueServiceMock{view: sampleView()}
	handler := NewQueueHandler(mockSvc, &countersMock{})

	c, w := testContext(t, http.MethodGet, "/subjects/sub-1/queue/export?format=pdf", nil)
	c.Params = gin.Params{{Key: "id", Value: "sub-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 1, Role: models.RoleAdmin})

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, len(w.Body.Bytes()) > 0)
}

func TestQueueHandlerExportBadFormat(t *testing.T) {
	mockSvc := &queueServiceMock{view: sampleView()}
	handler := NewQueueHandler(mockSvc, &countersMock{})

	c, w := testContext(t, http.MethodGet, "/subjects/sub-1/queue/export?format=xlsx", nil)
	c.Params = gin.Params{{Key: "id", Value: "sub-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 1, Role: models.RoleAdmin})

	handler.Export(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueueHandlerMyQueues(t *testing.T) {
	mockSvc := &queueServiceMock{names: []string{"Algebra", "Physics"}}
	handler := NewQueueHandler(mockSvc, &countersMock{})

	c, w := testContext(t, http.MethodGet, "/me/queues", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 7, Role: models.RoleStudent})

	handler.MyQueues(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Algebra")
}
