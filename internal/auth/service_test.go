package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dirmodels "docroute/internal/directory/models"
	dirstore "docroute/internal/directory/store"
	"docroute/internal/storage"
	dErrors "docroute/pkg/domain-errors"
)

type AuthSuite struct {
	suite.Suite
	users   *dirstore.UserStore
	tokens  *TokenService
	service *Service
	ctx     context.Context
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthSuite))
}

func (s *AuthSuite) SetupTest() {
	s.users = dirstore.NewUserStore(storage.NewMemory())
	s.tokens = NewTokenService("test-signing-key", time.Hour)
	s.ctx = context.Background()

	var err error
	s.service, err = New(s.users, s.tokens)
	s.Require().NoError(err)

	s.Require().NoError(s.users.Create(s.ctx, dirmodels.User{
		ID:       "u1",
		Username: "finance",
		Password: "secret",
		Role:     dirmodels.RoleUser,
		Division: "Finance",
		Name:     "Finance User",
	}))
}

func (s *AuthSuite) TestLogin() {
	s.Run("valid credentials return a token and the identity", func() {
		result, err := s.service.Login(s.ctx, "finance", "secret")
		s.Require().NoError(err)
		s.NotEmpty(result.Token)
		s.Equal("u1", result.User.ID)
	})

	s.Run("username and password are trimmed", func() {
		result, err := s.service.Login(s.ctx, "  finance  ", "  secret  ")
		s.Require().NoError(err)
		s.Equal("u1", result.User.ID)
	})

	s.Run("wrong password and unknown user are indistinguishable", func() {
		_, badPassword := s.service.Login(s.ctx, "finance", "nope")
		_, unknownUser := s.service.Login(s.ctx, "nobody", "secret")

		s.Require().True(dErrors.HasCode(badPassword, dErrors.CodeUnauthorized))
		s.Require().True(dErrors.HasCode(unknownUser, dErrors.CodeUnauthorized))
		s.Equal(dErrors.MessageOf(badPassword), dErrors.MessageOf(unknownUser))
		s.Equal("Invalid credentials", dErrors.MessageOf(badPassword))
	})
}

func (s *AuthSuite) TestTokenRoundTrip() {
	token, err := s.tokens.Generate("u1", "finance", "user", "Finance")
	s.Require().NoError(err)

	claims, err := s.tokens.Validate(token)
	s.Require().NoError(err)
	s.Equal("u1", claims.UserID)
	s.Equal("finance", claims.Username)
	s.Equal("user", claims.Role)
	s.Equal("Finance", claims.Division)
}

func (s *AuthSuite) TestTokenValidation() {
	s.Run("expired tokens are rejected", func() {
		expired := NewTokenService("test-signing-key", -time.Minute)
		token, err := expired.Generate("u1", "finance", "user", "Finance")
		s.Require().NoError(err)

		_, err = s.tokens.Validate(token)
		s.Require().True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.Equal("token has expired", dErrors.MessageOf(err))
	})

	s.Run("tokens signed with another key are rejected", func() {
		other := NewTokenService("other-key", time.Hour)
		token, err := other.Generate("u1", "finance", "user", "Finance")
		s.Require().NoError(err)

		_, err = s.tokens.Validate(token)
		s.Require().True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("garbage is rejected", func() {
		_, err := s.tokens.Validate("not-a-token")
		s.Require().True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
