package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"docroute/internal/directory/models"
	"docroute/internal/storage"
	"docroute/pkg/platform/sentinel"
)

type RecipientStoreSuite struct {
	suite.Suite
	store *RecipientStore
	ctx   context.Context
}

func TestRecipientStoreSuite(t *testing.T) {
	suite.Run(t, new(RecipientStoreSuite))
}

func (s *RecipientStoreSuite) SetupTest() {
	s.store = NewRecipientStore(storage.NewMemory())
	s.ctx = context.Background()
}

func (s *RecipientStoreSuite) builtin() models.Recipient {
	return models.Recipient{
		ID:        models.UserRecipientID,
		Name:      models.UserRecipientName,
		CreatedAt: time.Now(),
	}
}

func (s *RecipientStoreSuite) TestEnsureBuiltin() {
	s.Run("prepends the builtin recipient to an empty directory", func() {
		s.Require().NoError(s.store.EnsureBuiltin(s.ctx, s.builtin()))
		list, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(list, 1)
		s.Equal(models.UserRecipientID, list[0].ID)
	})

	s.Run("is idempotent", func() {
		s.Require().NoError(s.store.EnsureBuiltin(s.ctx, s.builtin()))
		s.Require().NoError(s.store.EnsureBuiltin(s.ctx, s.builtin()))
		list, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Len(list, 1)
	})

	s.Run("keeps the builtin first among existing recipients", func() {
		s.Require().NoError(s.store.Create(s.ctx, models.Recipient{ID: "r1", Name: "Finance"}))
		s.Require().NoError(s.store.EnsureBuiltin(s.ctx, s.builtin()))
		list, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(list, 2)
		s.Equal(models.UserRecipientID, list[0].ID)
	})
}

func (s *RecipientStoreSuite) TestDelete() {
	s.Run("deleting the builtin recipient is refused", func() {
		s.Require().NoError(s.store.EnsureBuiltin(s.ctx, s.builtin()))
		err := s.store.Delete(s.ctx, models.UserRecipientID)
		s.Require().ErrorIs(err, sentinel.ErrProtected)
	})

	s.Run("deleting an unknown id is a no-op", func() {
		s.Require().NoError(s.store.Delete(s.ctx, "ghost"))
	})

	s.Run("deletes an ordinary recipient", func() {
		s.Require().NoError(s.store.Create(s.ctx, models.Recipient{ID: "r1", Name: "Finance"}))
		s.Require().NoError(s.store.Delete(s.ctx, "r1"))
		_, err := s.store.FindByID(s.ctx, "r1")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

type UserStoreSuite struct {
	suite.Suite
	store *UserStore
	ctx   context.Context
}

func TestUserStoreSuite(t *testing.T) {
	suite.Run(t, new(UserStoreSuite))
}

func (s *UserStoreSuite) SetupTest() {
	s.store = NewUserStore(storage.NewMemory())
	s.ctx = context.Background()
}

func (s *UserStoreSuite) seedUser(id, username, division string) models.User {
	user := models.User{
		ID:       id,
		Username: username,
		Password: "password",
		Role:     models.RoleUser,
		Division: division,
		Name:     username,
	}
	s.Require().NoError(s.store.Create(s.ctx, user))
	return user
}

func (s *UserStoreSuite) TestFindByUsername() {
	s.seedUser("1", "finance", "Finance")

	s.Run("matches on trimmed username", func() {
		user, err := s.store.FindByUsername(s.ctx, "  finance  ")
		s.Require().NoError(err)
		s.Equal("1", user.ID)
	})

	s.Run("matches case-insensitively", func() {
		user, err := s.store.FindByUsername(s.ctx, "FINANCE")
		s.Require().NoError(err)
		s.Equal("1", user.ID)
	})

	s.Run("unknown username returns ErrNotFound", func() {
		_, err := s.store.FindByUsername(s.ctx, "nobody")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *UserStoreSuite) TestListByDivision() {
	s.seedUser("1", "fin-a", "Finance")
	s.seedUser("2", "fin-b", "Finance")
	s.seedUser("3", "hr-a", "HR")

	list, err := s.store.ListByDivision(s.ctx, " Finance ")
	s.Require().NoError(err)
	s.Len(list, 2)
}

func (s *UserStoreSuite) TestUpdate() {
	s.seedUser("1", "finance", "Finance")

	s.Run("blank password in patch keeps the stored one", func() {
		blank := "   "
		_, err := s.store.Update(s.ctx, "1", models.UserPatch{Password: &blank})
		s.Require().NoError(err)

		user, err := s.store.FindByID(s.ctx, "1")
		s.Require().NoError(err)
		s.Equal("password", user.Password)
	})

	s.Run("set fields are trimmed and stored", func() {
		name := "  New Name  "
		user, err := s.store.Update(s.ctx, "1", models.UserPatch{Name: &name})
		s.Require().NoError(err)
		s.Equal("New Name", user.Name)
	})

	s.Run("unknown id returns ErrNotFound", func() {
		name := "x"
		_, err := s.store.Update(s.ctx, "ghost", models.UserPatch{Name: &name})
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *UserStoreSuite) TestReplace() {
	original := s.seedUser("1", "admin", "Admin")

	replacement := original
	replacement.Password = "reset"
	replacement.Name = "System Administrator"
	s.Require().NoError(s.store.Replace(s.ctx, replacement))

	user, err := s.store.FindByID(s.ctx, "1")
	s.Require().NoError(err)
	s.Equal("reset", user.Password)
	s.Equal("System Administrator", user.Name)
}
