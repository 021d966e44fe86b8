package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/studq/queue-api/internal/models"
	appErrors "github.com/studq/queue-api/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	GetOrCreate(ctx context.Context, id int64, displayName string) (*models.User, error)
	PromoteAdmins(ctx context.Context, ids []int64) error
}

const fallbackDisplayName = "Unknown"

// DirectoryService owns user identity records. Registration is implicit:
// accounts are created on first contact and the stored display name is never
// overwritten by later sessions.
type DirectoryService struct {
	repo   userRepository
	roster []int64
	logger *zap.Logger
}

// NewDirectoryService constructs a DirectoryService. roster lists the
// platform ids promoted to admin on every session start.
func NewDirectoryService(repo userRepository, roster []int64, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{repo: repo, roster: roster, logger: logger}
}

// GetOrCreate resolves the user, creating a student record on first contact.
func (s *DirectoryService) GetOrCreate(ctx context.Context, id int64, displayName string) (*models.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = fallbackDisplayName
	}

	user, err := s.repo.GetOrCreate(ctx, id, displayName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to resolve user")
	}
	return user, nil
}

// Get returns the user or NotFound.
func (s *DirectoryService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load user")
	}
	return user, nil
}

// ApplyRoster promotes every configured roster member that has a record.
// Unknown ids are ignored and an empty roster is a no-op.
func (s *DirectoryService) ApplyRoster(ctx context.Context) error {
	if len(s.roster) == 0 {
		return nil
	}
	if err := s.repo.PromoteAdmins(ctx, s.roster); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to apply admin roster")
	}
	return nil
}
