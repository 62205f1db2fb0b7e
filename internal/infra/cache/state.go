package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const oauthStatePrefix = "oauth:state:"

// StateStore keeps OAuth state values bound to the user that requested them.
type StateStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStateStore(rdb *redis.Client, ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateStore{rdb: rdb, ttl: ttl}
}

func (s *StateStore) Save(ctx context.Context, state string, userID uuid.UUID) error {
	return s.rdb.Set(ctx, oauthStatePrefix+state, userID.String(), s.ttl).Err()
}

// Consume removes the state and returns the user it was issued to. A state
// can be consumed at most once; unknown or expired values return ok=false.
func (s *StateStore) Consume(ctx context.Context, state string) (uuid.UUID, bool, error) {
	raw, err := s.rdb.GetDel(ctx, oauthStatePrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt oauth state: %w", err)
	}
	return id, true, nil
}
