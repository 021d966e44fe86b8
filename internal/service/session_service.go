package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/studq/queue-api/internal/models"
	appErrors "github.com/studq/queue-api/pkg/errors"
)

// SessionConfig defines token issuance parameters and the bcrypt hash of the
// gateway key the messaging front end presents.
type SessionConfig struct {
	Secret         string
	Expiry         time.Duration
	Issuer         string
	GatewayKeyHash string
}

// StartSessionRequest carries the platform identity the gateway resolved
// from the inbound chat update.
type StartSessionRequest struct {
	UserID      int64  `json:"user_id" validate:"required"`
	DisplayName string `json:"display_name"`
}

// SessionService exchanges a platform identity for an access token. Starting
// a session is the bot's /start: the user record is created lazily and the
// configured admin roster is re-applied.
type SessionService struct {
	directory *DirectoryService
	validator *validator.Validate
	logger    *zap.Logger
	config    SessionConfig
}

// NewSessionService constructs a SessionService.
func NewSessionService(directory *DirectoryService, validate *validator.Validate, logger *zap.Logger, config SessionConfig) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{directory: directory, validator: validate, logger: logger, config: config}
}

// Start authenticates the gateway, resolves the user, applies the admin
// roster, and issues an access token.
func (s *SessionService) Start(ctx context.Context, gatewayKey string, req StartSessionRequest) (*models.SessionResponse, error) {
	if err := s.verifyGatewayKey(gatewayKey); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	if _, err := s.directory.GetOrCreate(ctx, req.UserID, req.DisplayName); err != nil {
		return nil, err
	}

	if err := s.directory.ApplyRoster(ctx); err != nil {
		return nil, err
	}

	// Re-read after roster application so a freshly promoted admin gets a
	// token carrying the admin role.
	user, err := s.directory.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	token, issuedAt, err := s.generateToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	return &models.SessionResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.Expiry.Seconds()),
		IssuedAt:    issuedAt,
		User:        *user,
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *SessionService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *SessionService) verifyGatewayKey(key string) error {
	if s.config.GatewayKeyHash == "" || key == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "gateway key required")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.config.GatewayKeyHash), []byte(key)); err != nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "invalid gateway key")
	}
	return nil
}

func (s *SessionService) generateToken(user *models.User) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}
