package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"docroute/internal/registry/models"
	"docroute/internal/registry/store"
	"docroute/internal/storage"
	dErrors "docroute/pkg/domain-errors"
)

type RegistryServiceSuite struct {
	suite.Suite
	service *Service
	ctx     context.Context
}

func TestRegistryServiceSuite(t *testing.T) {
	suite.Run(t, new(RegistryServiceSuite))
}

func (s *RegistryServiceSuite) SetupTest() {
	var err error
	s.service, err = New(store.NewDocumentStore(storage.NewMemory()))
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *RegistryServiceSuite) log(category, sentTo string, status models.DocumentStatus) models.Document {
	doc, err := s.service.CreateDocument(s.ctx, CreateDocumentInput{
		Category:       category,
		RegistryNumber: "REG-2024-001",
		Subject:        "Quarterly report",
		Status:         status,
		SentTo:         sentTo,
	})
	s.Require().NoError(err)
	return doc
}

func (s *RegistryServiceSuite) TestCreateDocument() {
	s.Run("blank category is rejected", func() {
		_, err := s.service.CreateDocument(s.ctx, CreateDocumentInput{})
		s.Require().True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal("Category is required.", dErrors.MessageOf(err))
	})

	s.Run("status defaults to pending", func() {
		doc := s.log("DG", "DG", "")
		s.Equal(models.DocumentPending, doc.Status)
		s.False(doc.Rejected)
		s.Empty(doc.RejectionNote)
	})

	s.Run("unknown status is rejected", func() {
		_, err := s.service.CreateDocument(s.ctx, CreateDocumentInput{
			Category: "DG",
			Status:   "archived",
		})
		s.Require().True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *RegistryServiceSuite) TestDocuments() {
	s.log("DG", "DG", models.DocumentPending)
	s.log("DDG-T0", "DDG-T0", models.DocumentPending)

	s.Run("lists everything without a category", func() {
		docs, err := s.service.Documents(s.ctx, "")
		s.Require().NoError(err)
		s.Len(docs, 2)
	})

	s.Run("narrows by category", func() {
		docs, err := s.service.Documents(s.ctx, "DG")
		s.Require().NoError(err)
		s.Require().Len(docs, 1)
		s.Equal("DG", docs[0].Category)
	})
}

func (s *RegistryServiceSuite) TestReject() {
	doc := s.log("DG", "DG", models.DocumentPending)

	rejected, err := s.service.Reject(s.ctx, doc.ID, "Missing signature")
	s.Require().NoError(err)
	s.True(rejected.Rejected)
	s.Equal("Missing signature", rejected.RejectionNote)

	s.Run("unknown id returns not found", func() {
		_, err := s.service.Reject(s.ctx, "ghost", "note")
		s.Require().True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *RegistryServiceSuite) TestIncoming() {
	kept := s.log("DG", "Finance", models.DocumentPending)
	rejected := s.log("DG", "Finance", models.DocumentPending)
	s.log("DG", "HR", models.DocumentPending)

	_, err := s.service.Reject(s.ctx, rejected.ID, "wrong division")
	s.Require().NoError(err)

	incoming, err := s.service.Incoming(s.ctx, "Finance")
	s.Require().NoError(err)
	s.Require().Len(incoming, 1)
	s.Equal(kept.ID, incoming[0].ID)
}

func (s *RegistryServiceSuite) TestRejected() {
	first := s.log("DG", "Finance", models.DocumentPending)
	second := s.log("DG", "HR", models.DocumentPending)
	for _, id := range []string{first.ID, second.ID} {
		_, err := s.service.Reject(s.ctx, id, "note")
		s.Require().NoError(err)
	}

	s.Run("all rejected documents without a division", func() {
		docs, err := s.service.Rejected(s.ctx, "")
		s.Require().NoError(err)
		s.Len(docs, 2)
	})

	s.Run("narrowed to one division", func() {
		docs, err := s.service.Rejected(s.ctx, "Finance")
		s.Require().NoError(err)
		s.Require().Len(docs, 1)
		s.Equal(first.ID, docs[0].ID)
	})
}

func (s *RegistryServiceSuite) TestCompleted() {
	byRoute := s.log("DG", "Finance", models.DocumentConfirmed)
	byCategory := s.log("Finance", "DG", models.DocumentConfirmed)
	s.log("DG", "HR", models.DocumentConfirmed)
	s.log("DG", "Finance", models.DocumentPending)

	s.Run("all confirmed documents without a division", func() {
		docs, err := s.service.Completed(s.ctx, "")
		s.Require().NoError(err)
		s.Len(docs, 3)
	})

	s.Run("division matches by route or category", func() {
		docs, err := s.service.Completed(s.ctx, "Finance")
		s.Require().NoError(err)
		s.Require().Len(docs, 2)
		ids := map[string]bool{docs[0].ID: true, docs[1].ID: true}
		s.True(ids[byRoute.ID])
		s.True(ids[byCategory.ID])
	})
}

func (s *RegistryServiceSuite) TestUpdateDocument() {
	doc := s.log("DG", "DG", models.DocumentPending)

	confirmed := models.DocumentConfirmed
	subject := "Amended subject"
	updated, err := s.service.UpdateDocument(s.ctx, doc.ID, models.DocumentPatch{
		Status:  &confirmed,
		Subject: &subject,
	})
	s.Require().NoError(err)
	s.Equal(models.DocumentConfirmed, updated.Status)
	s.Equal("Amended subject", updated.Subject)
	s.Equal("REG-2024-001", updated.RegistryNumber)

	s.Run("unknown status in patch is rejected", func() {
		bad := models.DocumentStatus("archived")
		_, err := s.service.UpdateDocument(s.ctx, doc.ID, models.DocumentPatch{Status: &bad})
		s.Require().True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown id returns not found", func() {
		_, err := s.service.UpdateDocument(s.ctx, "ghost", models.DocumentPatch{})
		s.Require().True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *RegistryServiceSuite) TestDeleteDocument() {
	doc := s.log("DG", "DG", models.DocumentPending)

	s.Require().NoError(s.service.DeleteDocument(s.ctx, doc.ID))
	_, err := s.service.Document(s.ctx, doc.ID)
	s.Require().True(dErrors.HasCode(err, dErrors.CodeNotFound))

	s.Run("deleting an unknown id is a no-op", func() {
		s.Require().NoError(s.service.DeleteDocument(s.ctx, "ghost"))
	})
}
