//go:build integration

package lockout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"qrgen/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRecordFailureCountsAndExpires() {
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, err := s.store.RecordFailure(ctx, "a@example.com", time.Second)
		s.Require().NoError(err)
		s.Equal(i, n)
	}

	n, err := s.store.Failures(ctx, "a@example.com")
	s.Require().NoError(err)
	s.Equal(3, n)

	ttl, err := s.redis.Client.TTL(ctx, keyPrefix+"a@example.com").Result()
	s.Require().NoError(err)
	s.Positive(ttl)

	s.Eventually(func() bool {
		n, err := s.store.Failures(ctx, "a@example.com")
		return err == nil && n == 0
	}, 3*time.Second, 100*time.Millisecond)
}

func (s *RedisStoreSuite) TestClear() {
	ctx := context.Background()
	_, err := s.store.RecordFailure(ctx, "b@example.com", time.Minute)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Clear(ctx, "b@example.com"))
	n, err := s.store.Failures(ctx, "b@example.com")
	s.Require().NoError(err)
	s.Zero(n)
}
