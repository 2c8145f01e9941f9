package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const recoveryKeyPrefix = "recovery:"

// RecoveryStore records that an account passed the security question, so
// the reset step can check it server-side. A grant is single use and bound
// to the account id, never to the email text the client sent.
type RecoveryStore struct {
	client *redis.Client
}

func NewRecoveryStore(client *redis.Client) *RecoveryStore {
	return &RecoveryStore{client: client}
}

func recoveryKey(userID int64) string {
	return recoveryKeyPrefix + strconv.FormatInt(userID, 10)
}

func (s *RecoveryStore) Grant(ctx context.Context, userID int64, ttl time.Duration) error {
	return s.client.Set(ctx, recoveryKey(userID), "1", ttl).Err()
}

// Consume removes the grant and reports whether one existed.
func (s *RecoveryStore) Consume(ctx context.Context, userID int64) (bool, error) {
	err := s.client.GetDel(ctx, recoveryKey(userID)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
