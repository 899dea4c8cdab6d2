// Package service orchestrates directory operations: recipient and user
// management plus the startup seed.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"docroute/internal/directory/models"
	"docroute/internal/platform/metrics"
	dErrors "docroute/pkg/domain-errors"
	"docroute/pkg/platform/sentinel"
	"docroute/pkg/requestcontext"
)

// RecipientStore is the persistence contract the service needs for recipients.
type RecipientStore interface {
	List(ctx context.Context) ([]models.Recipient, error)
	FindByID(ctx context.Context, id string) (models.Recipient, error)
	Create(ctx context.Context, recipient models.Recipient) error
	EnsureBuiltin(ctx context.Context, builtin models.Recipient) error
	Update(ctx context.Context, id string, patch models.RecipientPatch) (models.Recipient, error)
	Delete(ctx context.Context, id string) error
}

// UserStore is the persistence contract the service needs for users.
type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	ListByDivision(ctx context.Context, division string) ([]models.User, error)
	Create(ctx context.Context, user models.User) error
	Update(ctx context.Context, id string, patch models.UserPatch) (models.User, error)
	Replace(ctx context.Context, user models.User) error
	Delete(ctx context.Context, id string) error
}

// Service owns directory business rules: user validation, the protected
// built-in recipient, and startup seeding.
type Service struct {
	recipients RecipientStore
	users      UserStore
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(recipients RecipientStore, users UserStore, opts ...Option) (*Service, error) {
	if recipients == nil {
		return nil, fmt.Errorf("recipient store is required")
	}
	if users == nil {
		return nil, fmt.Errorf("user store is required")
	}
	svc := &Service{
		recipients: recipients,
		users:      users,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Recipients lists all routing targets, the built-in "User" entry included.
func (s *Service) Recipients(ctx context.Context) ([]models.Recipient, error) {
	list, err := s.recipients.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list recipients")
	}
	return list, nil
}

func (s *Service) CreateRecipient(ctx context.Context, name string) (models.Recipient, error) {
	recipient := models.Recipient{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.recipients.Create(ctx, recipient); err != nil {
		return models.Recipient{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create recipient")
	}
	return recipient, nil
}

func (s *Service) UpdateRecipient(ctx context.Context, id string, patch models.RecipientPatch) (models.Recipient, error) {
	updated, err := s.recipients.Update(ctx, id, patch)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Recipient{}, dErrors.New(dErrors.CodeNotFound, "recipient not found")
	}
	if err != nil {
		return models.Recipient{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update recipient")
	}
	return updated, nil
}

// DeleteRecipient removes a division. The built-in "User" recipient can never
// be deleted; links and transfers referencing the removed id are left dangling
// on purpose (lookups treat them as "no recipient").
func (s *Service) DeleteRecipient(ctx context.Context, id string) error {
	err := s.recipients.Delete(ctx, id)
	if errors.Is(err, sentinel.ErrProtected) {
		return dErrors.New(dErrors.CodeProtected, `The default "User" recipient cannot be deleted.`)
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete recipient")
	}
	return nil
}

func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	list, err := s.users.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return list, nil
}

func (s *Service) User(ctx context.Context, id string) (models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return u, nil
}

// UsersByDivision returns the users linked to a division by exact,
// whitespace-trimmed name match.
func (s *Service) UsersByDivision(ctx context.Context, division string) ([]models.User, error) {
	list, err := s.users.ListByDivision(ctx, division)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users by division")
	}
	return list, nil
}

// CreateUserInput carries the fields accepted when creating an account.
type CreateUserInput struct {
	Username string
	Password string
	Role     models.Role
	Division string
	Name     string
}

// CreateUser validates and stores a new account. Validation messages are
// stable and shown to the end user verbatim.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (models.User, error) {
	username := strings.TrimSpace(in.Username)
	password := strings.TrimSpace(in.Password)
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}

	if username == "" {
		return models.User{}, dErrors.New(dErrors.CodeValidation, "Username is required.")
	}
	if !role.Valid() {
		return models.User{}, dErrors.New(dErrors.CodeValidation, "Unknown role.")
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return models.User{}, dErrors.New(dErrors.CodeValidation, "That username is already in use.")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check username")
	}

	division := strings.TrimSpace(in.Division)
	if role != models.RoleAdmin {
		count, err := s.divisionCount(ctx)
		if err != nil {
			return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count divisions")
		}
		if count == 0 {
			return models.User{}, dErrors.New(dErrors.CodeValidation, "Create at least one division before adding users.")
		}
		if division == "" {
			return models.User{}, dErrors.New(dErrors.CodeValidation, "Division is required for this role.")
		}
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = username
	}

	user := models.User{
		ID:        uuid.NewString(),
		Username:  username,
		Password:  password,
		Role:      role,
		Division:  division,
		Name:      name,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	if s.metrics != nil {
		s.metrics.UsersCreated.Inc()
	}
	s.logger.InfoContext(ctx, "user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (models.User, error) {
	updated, err := s.users.Update(ctx, id, patch)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
	}
	return updated, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete user")
	}
	return nil
}

// divisionCount counts recipients other than the built-in "User" entry.
func (s *Service) divisionCount(ctx context.Context) (int, error) {
	list, err := s.recipients.List(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range list {
		if !r.IsProtected() {
			count++
		}
	}
	return count, nil
}
