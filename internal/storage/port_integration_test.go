//go:build integration

package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"docroute/internal/storage"
	"docroute/pkg/platform/sentinel"
	"docroute/pkg/testutil/containers"
)

type RedisPortSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	port  *storage.Redis
}

func TestRedisPortSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisPortSuite))
}

func (s *RedisPortSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.port = storage.NewRedis(s.redis.Client)
}

func (s *RedisPortSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisPortSuite) TestGetPut() {
	ctx := context.Background()

	s.Run("missing key returns ErrNotFound", func() {
		_, err := s.port.Get(ctx, "absent")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("round-trips a blob", func() {
		s.Require().NoError(s.port.Put(ctx, "transfers", []byte(`[{"id":"1"}]`)))
		got, err := s.port.Get(ctx, "transfers")
		s.Require().NoError(err)
		s.JSONEq(`[{"id":"1"}]`, string(got))
	})

	s.Run("overwrite keeps the last write", func() {
		s.Require().NoError(s.port.Put(ctx, "forms", []byte(`["a"]`)))
		s.Require().NoError(s.port.Put(ctx, "forms", []byte(`["b"]`)))
		got, err := s.port.Get(ctx, "forms")
		s.Require().NoError(err)
		s.JSONEq(`["b"]`, string(got))
	})
}

type PostgresPortSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	port     *storage.Postgres
}

func TestPostgresPortSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresPortSuite))
}

func (s *PostgresPortSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.port = storage.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.port.EnsureSchema(context.Background()))
}

func (s *PostgresPortSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "kv_blobs"))
}

func (s *PostgresPortSuite) TestGetPut() {
	ctx := context.Background()

	s.Run("missing key returns ErrNotFound", func() {
		_, err := s.port.Get(ctx, "absent")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("round-trips a blob", func() {
		s.Require().NoError(s.port.Put(ctx, "recipients", []byte(`[{"id":"r1"}]`)))
		got, err := s.port.Get(ctx, "recipients")
		s.Require().NoError(err)
		s.JSONEq(`[{"id":"r1"}]`, string(got))
	})

	s.Run("upsert keeps the last write", func() {
		s.Require().NoError(s.port.Put(ctx, "links", []byte(`["a"]`)))
		s.Require().NoError(s.port.Put(ctx, "links", []byte(`["b"]`)))
		got, err := s.port.Get(ctx, "links")
		s.Require().NoError(err)
		s.JSONEq(`["b"]`, string(got))
	})
}
