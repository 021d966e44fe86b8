package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studq/queue-api/internal/models"
)

// DialogRepository keeps per-user dialog state in Redis. State is a tag plus
// a small payload with a TTL, so an abandoned prompt expires on its own.
type DialogRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDialogRepository constructs the repository.
func NewDialogRepository(client *redis.Client, ttl time.Duration) *DialogRepository {
	return &DialogRepository{client: client, ttl: ttl}
}

func dialogKey(userID int64) string {
	return fmt.Sprintf("dialog:%d", userID)
}

// Get returns the user's dialog state, or nil when none is active.
func (r *DialogRepository) Get(ctx context.Context, userID int64) (*models.DialogState, error) {
	raw, err := r.client.Get(ctx, dialogKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dialog state: %w", err)
	}

	var state models.DialogState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode dialog state: %w", err)
	}
	return &state, nil
}

// Set stores the user's dialog state, refreshing the TTL.
func (r *DialogRepository) Set(ctx context.Context, userID int64, state *models.DialogState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode dialog state: %w", err)
	}
	if err := r.client.Set(ctx, dialogKey(userID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("set dialog state: %w", err)
	}
	return nil
}

// Clear drops the user's dialog state. Clearing an absent state is fine.
func (r *DialogRepository) Clear(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, dialogKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear dialog state: %w", err)
	}
	return nil
}
