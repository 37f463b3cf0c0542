//go:build integration

package user

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"qrgen/pkg/platform/sentinel"
	"qrgen/pkg/testutil/containers"
)

type PostgresUserStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *PostgresStore
}

func TestPostgresUserStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresUserStoreSuite))
}

func (s *PostgresUserStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.postgres.DB)
}

func (s *PostgresUserStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "qr_codes", "users"))
}

func (s *PostgresUserStoreSuite) TestSaveAndFind() {
	ctx := context.Background()
	user := newUser("pg@example.com")
	user.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.store.Save(ctx, user))

	found, err := s.store.FindByEmail(ctx, user.Email)
	s.Require().NoError(err)
	s.Equal(user.ID, found.ID)
	s.True(user.CreatedAt.Equal(found.CreatedAt))
}

func (s *PostgresUserStoreSuite) TestConcurrentSignupSameEmail() {
	ctx := context.Background()
	const workers = 20
	var wg sync.WaitGroup
	var successes, conflicts atomic.Int32
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch err := s.store.Save(ctx, newUser("race@example.com")); err {
			case nil:
				successes.Add(1)
			case sentinel.ErrConflict:
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(1), successes.Load())
	s.Equal(int32(workers-1), conflicts.Load())
}
