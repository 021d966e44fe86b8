package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/studq/queue-api/internal/models"
	"github.com/studq/queue-api/internal/repository"
	appErrors "github.com/studq/queue-api/pkg/errors"
)

type queueRepository interface {
	IsMember(ctx context.Context, userID int64, subjectID string) (bool, error)
	ListBySubject(ctx context.Context, subjectID string) ([]models.QueueEntryDetail, error)
	Join(ctx context.Context, userID int64, subjectID string) (*models.QueueEntry, error)
	Leave(ctx context.Context, userID int64, subjectID string) error
	Clear(ctx context.Context, subjectID string) error
	ListSubjectNamesByUser(ctx context.Context, userID int64) ([]string, error)
}

type subjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// QueueView is the rendered queue for one subject, including whether the
// caller already stands in it (the front end draws join/leave from this).
type QueueView struct {
	Subject  models.Subject            `json:"subject"`
	Entries  []models.QueueEntryDetail `json:"entries"`
	IsMember bool                      `json:"is_member"`
}

// QueueService orchestrates queue membership. Every operation resolves its
// caller first; admin-only operations additionally require the admin role.
type QueueService struct {
	queues   queueRepository
	subjects subjectReader
	users    userReader
	logger   *zap.Logger
}

// NewQueueService constructs a QueueService.
func NewQueueService(queues queueRepository, subjects subjectReader, users userReader, logger *zap.Logger) *QueueService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueService{queues: queues, subjects: subjects, users: users, logger: logger}
}

// ListQueue returns the subject's roster in arrival order plus the caller's
// membership flag.
func (s *QueueService) ListQueue(ctx context.Context, callerID int64, subjectID string) (*QueueView, error) {
	caller, err := resolveCaller(ctx, s.users, callerID)
	if err != nil {
		return nil, err
	}

	subject, err := s.getSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	entries, err := s.queues.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list queue")
	}

	member, err := s.queues.IsMember(ctx, caller.ID, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check membership")
	}

	return &QueueView{Subject: *subject, Entries: entries, IsMember: member}, nil
}

// Join appends the caller to the subject's queue. A second join for the same
// pair fails with AlreadyMember even when two joins race.
func (s *QueueService) Join(ctx context.Context, callerID int64, subjectID string) (*QueueView, error) {
	caller, err := resolveCaller(ctx, s.users, callerID)
	if err != nil {
		return nil, err
	}

	if _, err := s.getSubject(ctx, subjectID); err != nil {
		return nil, err
	}

	if _, err := s.queues.Join(ctx, caller.ID, subjectID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyMember, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to join queue")
	}

	s.logger.Info("queue joined", zap.Int64("user_id", caller.ID), zap.String("subject_id", subjectID))
	return s.ListQueue(ctx, callerID, subjectID)
}

// Leave removes the caller from the subject's queue. Once the caller is
// resolved it always succeeds: leaving a queue never joined, or a subject
// already deleted, changes nothing.
func (s *QueueService) Leave(ctx context.Context, callerID int64, subjectID string) (*QueueView, error) {
	caller, err := resolveCaller(ctx, s.users, callerID)
	if err != nil {
		return nil, err
	}

	if err := s.queues.Leave(ctx, caller.ID, subjectID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to leave queue")
	}

	s.logger.Info("queue left", zap.Int64("user_id", caller.ID), zap.String("subject_id", subjectID))

	view, err := s.ListQueue(ctx, callerID, subjectID)
	if err != nil {
		if appErrors.HasCode(err, appErrors.ErrNotFound) {
			return &QueueView{Subject: models.Subject{ID: subjectID}, Entries: []models.QueueEntryDetail{}}, nil
		}
		return nil, err
	}
	return view, nil
}

// Clear empties the subject's queue. Admin only; clearing an already empty
// queue succeeds.
func (s *QueueService) Clear(ctx context.Context, callerID int64, subjectID string) (*QueueView, error) {
	caller, err := requireAdmin(ctx, s.users, callerID)
	if err != nil {
		return nil, err
	}

	if _, err := s.getSubject(ctx, subjectID); err != nil {
		return nil, err
	}

	if err := s.queues.Clear(ctx, subjectID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to clear queue")
	}

	s.logger.Info("queue cleared", zap.Int64("admin_id", caller.ID), zap.String("subject_id", subjectID))
	return s.ListQueue(ctx, callerID, subjectID)
}

// ExportRoster returns the queue view for roster export. Admin only.
func (s *QueueService) ExportRoster(ctx context.Context, callerID int64, subjectID string) (*QueueView, error) {
	if _, err := requireAdmin(ctx, s.users, callerID); err != nil {
		return nil, err
	}
	return s.ListQueue(ctx, callerID, subjectID)
}

// MyQueues lists the subject names the caller queues for, ordered by name.
func (s *QueueService) MyQueues(ctx context.Context, callerID int64) ([]string, error) {
	caller, err := resolveCaller(ctx, s.users, callerID)
	if err != nil {
		return nil, err
	}

	names, err := s.queues.ListSubjectNamesByUser(ctx, caller.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list caller queues")
	}
	return names, nil
}

func (s *QueueService) getSubject(ctx context.Context, subjectID string) (*models.Subject, error) {
	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load subject")
	}
	return subject, nil
}
