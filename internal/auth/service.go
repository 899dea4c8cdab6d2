package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	dirmodels "docroute/internal/directory/models"
	dErrors "docroute/pkg/domain-errors"
	"docroute/pkg/platform/sentinel"
)

// UserLookup resolves accounts at sign-in.
type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (dirmodels.User, error)
}

// Service verifies credentials and issues tokens.
type Service struct {
	users  UserLookup
	tokens *TokenService
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(users UserLookup, tokens *TokenService, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user lookup is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token service is required")
	}
	svc := &Service{
		users:  users,
		tokens: tokens,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// LoginResult is the signed-in identity plus its access token.
type LoginResult struct {
	Token string
	User  dirmodels.User
}

// Login matches on the trimmed username; the password must match the stored
// (trimmed) value exactly. Failures are indistinguishable on purpose.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, sentinel.ErrNotFound) {
		return LoginResult{}, dErrors.New(dErrors.CodeUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return LoginResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	if strings.TrimSpace(user.Password) != password {
		return LoginResult{}, dErrors.New(dErrors.CodeUnauthorized, "Invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID, user.Username, string(user.Role), user.Division)
	if err != nil {
		return LoginResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.logger.InfoContext(ctx, "user signed in", "user_id", user.ID, "role", user.Role)
	return LoginResult{Token: token, User: user}, nil
}
