package policy

import (
	"context"
	"errors"
	"fmt"

	dirmodels "docroute/internal/directory/models"
	formmodels "docroute/internal/forms/models"
	tmodels "docroute/internal/transfer/models"
	tservice "docroute/internal/transfer/service"
	"docroute/pkg/platform/sentinel"
)

// TransferEngine is the slice of the transfer engine the resolver executes
// queries against.
type TransferEngine interface {
	ListForRecipient(ctx context.Context, recipientID string) ([]tmodels.Transfer, error)
	ListInternalAll(ctx context.Context) ([]tmodels.Transfer, error)
	ListInternalForUser(ctx context.Context, viewer tservice.ViewerRef) ([]tmodels.Transfer, error)
}

// FormResolver supplies the form bound to a recipient (nil when unbound or
// dangling).
type FormResolver interface {
	FormForRecipient(ctx context.Context, recipientID string) (*formmodels.Form, error)
}

// UserLookup resolves a selected user for internal-axis queries.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (dirmodels.User, error)
}

// View is a resolved records view: the matching transfers and the form whose
// questions define the column layout (nil when no form is bound).
type View struct {
	Transfers []tmodels.Transfer
	Form      *formmodels.Form
}

// Columns returns the question list defining the table layout, empty when no
// form is bound.
func (v View) Columns() []formmodels.Question {
	if v.Form == nil {
		return nil
	}
	return v.Form.Questions
}

// Resolver executes resolved transfer queries against the engine and
// reconstructs the column form through the link registry.
type Resolver struct {
	engine TransferEngine
	forms  FormResolver
	users  UserLookup
}

func NewResolver(engine TransferEngine, forms FormResolver, users UserLookup) (*Resolver, error) {
	if engine == nil {
		return nil, fmt.Errorf("transfer engine is required")
	}
	if forms == nil {
		return nil, fmt.Errorf("form resolver is required")
	}
	if users == nil {
		return nil, fmt.Errorf("user lookup is required")
	}
	return &Resolver{engine: engine, forms: forms, users: users}, nil
}

// Execute resolves and runs the query for a view axis and selection.
func (r *Resolver) Execute(ctx context.Context, axis ViewAxis, selection string) (View, error) {
	query, err := ResolveTransferQuery(axis, selection)
	if err != nil {
		return View{}, err
	}

	var transfers []tmodels.Transfer
	switch query.Kind {
	case QueryForRecipient:
		transfers, err = r.engine.ListForRecipient(ctx, query.RecipientID)
	case QueryInternalAll:
		transfers, err = r.engine.ListInternalAll(ctx)
	case QueryInternalForUser:
		viewer := tservice.ViewerRef{ID: query.UserID}
		// A deleted user still has historical transfers; match on id alone
		// when the account is gone.
		if u, lookupErr := r.users.FindByID(ctx, query.UserID); lookupErr == nil {
			viewer.Username = u.Username
			viewer.Division = u.Division
		} else if !errors.Is(lookupErr, sentinel.ErrNotFound) {
			return View{}, lookupErr
		}
		transfers, err = r.engine.ListInternalForUser(ctx, viewer)
	}
	if err != nil {
		return View{}, err
	}

	form, err := r.forms.FormForRecipient(ctx, query.ColumnsRecipientID)
	if err != nil {
		return View{}, err
	}
	return View{Transfers: transfers, Form: form}, nil
}
