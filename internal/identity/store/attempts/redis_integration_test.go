//go:build integration

package attempts_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"hotelchain/internal/identity/store/attempts"
	"hotelchain/pkg/testutil/containers"
)

type RedisAttemptsSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *attempts.RedisStore
}

func TestRedisAttemptsSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisAttemptsSuite))
}

func (s *RedisAttemptsSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = attempts.NewRedis(s.redis.Client)
}

func (s *RedisAttemptsSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisAttemptsSuite) TestEachFailureRestartsTTL() {
	ctx := context.Background()
	const key = "guest@example.com"

	_, err := s.store.RecordFailure(ctx, key, time.Now(), time.Minute)
	s.Require().NoError(err)
	n, err := s.store.RecordFailure(ctx, key, time.Now(), time.Hour)
	s.Require().NoError(err)
	s.Equal(2, n)

	ttl, err := s.redis.Client.TTL(ctx, "login_failures:"+key).Result()
	s.Require().NoError(err)
	s.Greater(ttl, 59*time.Minute, "ttl follows the latest failure")

	s.Require().NoError(s.store.Reset(ctx, key))
	n, err = s.store.Failures(ctx, key, time.Now())
	s.Require().NoError(err)
	s.Zero(n)
}
