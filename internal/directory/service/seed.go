package service

import (
	"context"
	"errors"
	"fmt"

	"docroute/internal/directory/models"
	"docroute/pkg/platform/sentinel"
	"docroute/pkg/requestcontext"
)

// Sample sign-in accounts asserted by the startup seed. The ids are stable so
// data written against earlier deployments keeps resolving.
var sampleUsers = []models.User{
	{ID: "1", Username: "admin", Password: "admin", Role: models.RoleAdmin, Division: "Admin", Name: "System Administrator"},
	{ID: "2", Username: "secretary", Password: "password", Role: models.RoleSecretary, Division: "Secretary", Name: "Secretary"},
	{ID: "3", Username: "ddg-t0", Password: "password", Role: models.RoleUser, Division: "DDG-T0", Name: "DDG-T0 User"},
	{ID: "4", Username: "dg", Password: "password", Role: models.RoleUser, Division: "DG", Name: "DG User"},
	{ID: "5", Username: "all-units", Password: "password", Role: models.RoleUser, Division: "ALL UNITS", Name: "All Units User"},
	{ID: "6", Username: "finance", Password: "password", Role: models.RoleUser, Division: "Finance", Name: "Finance User"},
	{ID: "7", Username: "hr", Password: "password", Role: models.RoleUser, Division: "HR", Name: "HR User"},
	{ID: "8", Username: "it", Password: "password", Role: models.RoleUser, Division: "IT", Name: "IT User"},
	{ID: "9", Username: "operations", Password: "password", Role: models.RoleUser, Division: "Operations", Name: "Operations User"},
	{ID: "10", Username: "marketing", Password: "password", Role: models.RoleUser, Division: "Marketing", Name: "Marketing User"},
}

// Demo accounts whose credentials and role are reset to the canonical values
// on every seed run (ids are preserved). The rest are only created if missing.
var demoUsernames = map[string]bool{
	"admin":     true,
	"secretary": true,
	"finance":   true,
}

// Seed asserts the built-in "User" recipient and the sample accounts. It runs
// once at startup and is idempotent; it never touches accounts created by
// administrators.
func (s *Service) Seed(ctx context.Context) error {
	now := requestcontext.Now(ctx)

	builtin := models.Recipient{
		ID:        models.UserRecipientID,
		Name:      models.UserRecipientName,
		CreatedAt: now,
	}
	if err := s.recipients.EnsureBuiltin(ctx, builtin); err != nil {
		return fmt.Errorf("seed builtin recipient: %w", err)
	}

	for _, sample := range sampleUsers {
		existing, err := s.users.FindByUsername(ctx, sample.Username)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			user := sample
			user.CreatedAt = now
			if err := s.users.Create(ctx, user); err != nil {
				return fmt.Errorf("seed user %s: %w", sample.Username, err)
			}
		case err != nil:
			return fmt.Errorf("seed lookup %s: %w", sample.Username, err)
		case demoUsernames[sample.Username]:
			reset := sample
			reset.ID = existing.ID
			reset.CreatedAt = existing.CreatedAt
			if err := s.users.Replace(ctx, reset); err != nil {
				return fmt.Errorf("seed reset %s: %w", sample.Username, err)
			}
		}
	}

	s.logger.InfoContext(ctx, "directory seed complete", "sample_users", len(sampleUsers))
	return nil
}
