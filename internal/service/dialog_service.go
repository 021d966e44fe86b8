package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/studq/queue-api/internal/models"
	appErrors "github.com/studq/queue-api/pkg/errors"
)

type dialogStore interface {
	Get(ctx context.Context, userID int64) (*models.DialogState, error)
	Set(ctx context.Context, userID int64, state *models.DialogState) error
	Clear(ctx context.Context, userID int64) error
}

// DialogResult is what SubmitName produced: the affected subject and, for
// renames, the previous name.
type DialogResult struct {
	Subject models.Subject `json:"subject"`
	OldName string         `json:"old_name,omitempty"`
}

// DialogService drives the admin subject-management dialog: an explicit
// per-user state tag in the store, entered only by admins, always cleared on
// success or cancellation. Text arriving with no active state is rejected,
// never interpreted.
type DialogService struct {
	store   dialogStore
	catalog *CatalogService
	users   userReader
	logger  *zap.Logger
}

// NewDialogService constructs a DialogService.
func NewDialogService(store dialogStore, catalog *CatalogService, users userReader, logger *zap.Logger) *DialogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DialogService{store: store, catalog: catalog, users: users, logger: logger}
}

// BeginAdd puts the caller into the awaiting-subject-name state.
func (s *DialogService) BeginAdd(ctx context.Context, callerID int64) (*models.DialogState, error) {
	if _, err := requireAdmin(ctx, s.users, callerID); err != nil {
		return nil, err
	}

	state := &models.DialogState{Step: models.StepAwaitingSubjectName}
	if err := s.store.Set(ctx, callerID, state); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to store dialog state")
	}
	return state, nil
}

// BeginRename verifies the target subject and puts the caller into the
// awaiting-new-name state, carrying the target id and its current name.
func (s *DialogService) BeginRename(ctx context.Context, callerID int64, subjectID string) (*models.DialogState, error) {
	if _, err := requireAdmin(ctx, s.users, callerID); err != nil {
		return nil, err
	}

	subject, err := s.catalog.Get(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	state := &models.DialogState{
		Step:      models.StepAwaitingNewName,
		SubjectID: subject.ID,
		OldName:   subject.Name,
	}
	if err := s.store.Set(ctx, callerID, state); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to store dialog state")
	}
	return state, nil
}

// SubmitName routes typed text by the caller's current state. Name
// validation failures keep the state so the front end re-prompts; any other
// outcome clears it.
func (s *DialogService) SubmitName(ctx context.Context, callerID int64, text string) (*DialogResult, error) {
	state, err := s.getState(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no dialog in progress")
	}

	var result *DialogResult
	switch state.Step {
	case models.StepAwaitingSubjectName:
		subject, err := s.catalog.Create(ctx, callerID, CreateSubjectRequest{Name: text})
		if err != nil {
			return nil, s.afterFailure(ctx, callerID, err)
		}
		result = &DialogResult{Subject: *subject}
	case models.StepAwaitingNewName:
		subject, err := s.catalog.Rename(ctx, callerID, state.SubjectID, RenameSubjectRequest{Name: text})
		if err != nil {
			return nil, s.afterFailure(ctx, callerID, err)
		}
		result = &DialogResult{Subject: *subject, OldName: state.OldName}
	default:
		_ = s.store.Clear(ctx, callerID)
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no dialog in progress")
	}

	if err := s.store.Clear(ctx, callerID); err != nil {
		s.logger.Warn("failed to clear dialog state", zap.Int64("user_id", callerID), zap.Error(err))
	}
	return result, nil
}

// Cancel drops the caller's dialog state unconditionally.
func (s *DialogService) Cancel(ctx context.Context, callerID int64) error {
	if err := s.store.Clear(ctx, callerID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to clear dialog state")
	}
	return nil
}

// State returns the caller's current dialog state, or nil when idle.
func (s *DialogService) State(ctx context.Context, callerID int64) (*models.DialogState, error) {
	return s.getState(ctx, callerID)
}

func (s *DialogService) getState(ctx context.Context, callerID int64) (*models.DialogState, error) {
	state, err := s.store.Get(ctx, callerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load dialog state")
	}
	return state, nil
}

// afterFailure keeps the state on recoverable name errors (the user is
// re-prompted) and clears it otherwise, so nothing leaks into later turns.
func (s *DialogService) afterFailure(ctx context.Context, callerID int64, err error) error {
	if appErrors.HasCode(err, appErrors.ErrInvalidName) || appErrors.HasCode(err, appErrors.ErrDuplicateName) {
		return err
	}
	if clearErr := s.store.Clear(ctx, callerID); clearErr != nil {
		s.logger.Warn("failed to clear dialog state", zap.Int64("user_id", callerID), zap.Error(clearErr))
	}
	return err
}
