package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studq/queue-api/internal/models"
	"github.com/studq/queue-api/internal/repository"
	appErrors "github.com/studq/queue-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context) ([]models.Subject, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
	Rename(ctx context.Context, id, name string) (time.Time, error)
	DeleteCascade(ctx context.Context, id string) error
}

// CreateSubjectRequest captures fields for creating a subject.
type CreateSubjectRequest struct {
	Name string `json:"name" validate:"required"`
}

// RenameSubjectRequest captures the new subject name.
type RenameSubjectRequest struct {
	Name string `json:"name" validate:"required"`
}

// CatalogService owns the subject catalog. Mutating operations are
// admin-gated; browsing is open to any caller.
type CatalogService struct {
	repo      subjectRepository
	users     userReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo subjectRepository, users userReader, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, users: users, validator: validate, logger: logger}
}

// List returns the catalog ordered by name. An empty catalog lists fine.
func (s *CatalogService) List(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list subjects")
	}
	return subjects, nil
}

// Get returns a subject by identifier.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load subject")
	}
	return subject, nil
}

// Create adds a subject. The name pre-check yields the friendly duplicate
// error; the unique index catches the concurrent case.
func (s *CatalogService) Create(ctx context.Context, callerID int64, req CreateSubjectRequest) (*models.Subject, error) {
	if _, err := requireAdmin(ctx, s.users, callerID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	name, err := normalizeSubjectName(req.Name)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByName(ctx, name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check subject name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateName, "")
	}

	subject := &models.Subject{Name: name}
	if err := s.repo.Create(ctx, subject); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateName, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create subject")
	}

	s.logger.Info("subject created", zap.String("subject_id", subject.ID), zap.Int64("caller_id", callerID))
	return subject, nil
}

// Rename changes a subject's name, excluding the subject itself from the
// duplicate check.
func (s *CatalogService) Rename(ctx context.Context, callerID int64, id string, req RenameSubjectRequest) (*models.Subject, error) {
	if _, err := requireAdmin(ctx, s.users, callerID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	name, err := normalizeSubjectName(req.Name)
	if err != nil {
		return nil, err
	}

	subject, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByName(ctx, name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check subject name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateName, "")
	}

	updatedAt, err := s.repo.Rename(ctx, id, name)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		case errors.Is(err, repository.ErrDuplicate):
			return nil, appErrors.Clone(appErrors.ErrDuplicateName, "")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to rename subject")
		}
	}

	subject.Name = name
	subject.UpdatedAt = updatedAt
	s.logger.Info("subject renamed", zap.String("subject_id", id), zap.Int64("caller_id", callerID))
	return subject, nil
}

// Delete removes the subject together with its queue entries. A repeat
// delete reports NotFound.
func (s *CatalogService) Delete(ctx context.Context, callerID int64, id string) error {
	if _, err := requireAdmin(ctx, s.users, callerID); err != nil {
		return err
	}

	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete subject")
	}

	s.logger.Info("subject deleted", zap.String("subject_id", id), zap.Int64("caller_id", callerID))
	return nil
}

// normalizeSubjectName trims the candidate and enforces the 1-100 character
// bound. Length counts runes, matching how users see the name.
func normalizeSubjectName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || utf8.RuneCountInString(name) > models.SubjectNameMaxLen {
		return "", appErrors.Clone(appErrors.ErrInvalidName, "")
	}
	return name, nil
}
