// Package policy computes what a viewer may do and which transfer query a
// chosen view maps to. Everything here is a pure function of the viewer's
// role and selection; execution against the stores lives in the resolver.
package policy

import (
	dirmodels "docroute/internal/directory/models"
	dErrors "docroute/pkg/domain-errors"
)

// Capabilities is the viewer's capability set, derived solely from role.
//
//	role      | send/receive | configure forms+links | recipients | users
//	admin     | no           | yes                   | yes        | yes
//	secretary | yes          | yes                   | no         | no
//	user      | yes          | no                    | no         | no
type Capabilities struct {
	CanSend                bool
	CanReceive             bool
	CanConfigure           bool
	CanConfigureRecipients bool
	CanConfigureUsers      bool
}

// ForRole derives the capability set for a role. Unknown roles get no
// capabilities.
func ForRole(role dirmodels.Role) Capabilities {
	switch role {
	case dirmodels.RoleAdmin:
		return Capabilities{
			CanConfigure:           true,
			CanConfigureRecipients: true,
			CanConfigureUsers:      true,
		}
	case dirmodels.RoleSecretary:
		return Capabilities{
			CanSend:      true,
			CanReceive:   true,
			CanConfigure: true,
		}
	case dirmodels.RoleUser:
		return Capabilities{
			CanSend:    true,
			CanReceive: true,
		}
	default:
		return Capabilities{}
	}
}

// ViewAxis is the grouping a records view is scoped by.
type ViewAxis string

const (
	AxisDivision ViewAxis = "division"
	AxisInternal ViewAxis = "internal"
)

// SelectionAll selects every internal record on the internal axis.
const SelectionAll = "all"

// QueryKind names the transfer engine query a view resolves to.
type QueryKind string

const (
	QueryForRecipient    QueryKind = "for_recipient"
	QueryInternalAll     QueryKind = "internal_all"
	QueryInternalForUser QueryKind = "internal_for_user"
)

// TransferQuery is the resolved plan for a records view: which engine query
// to run and which recipient's linked form defines the result table columns.
type TransferQuery struct {
	Kind QueryKind
	// RecipientID scopes QueryForRecipient; UserID scopes QueryInternalForUser.
	RecipientID string
	UserID      string
	// ColumnsRecipientID is the recipient whose linked form supplies the
	// column layout: the selected division, or the built-in "User" recipient
	// for all internal traffic regardless of which person is selected.
	ColumnsRecipientID string
}

// ResolveTransferQuery maps a view axis and selection to the engine query to
// invoke. For the division axis the selection is a recipient id; for the
// internal axis it is a user id or SelectionAll.
func ResolveTransferQuery(axis ViewAxis, selection string) (TransferQuery, error) {
	switch axis {
	case AxisDivision:
		if selection == "" {
			return TransferQuery{}, dErrors.New(dErrors.CodeBadRequest, "division selection is required")
		}
		return TransferQuery{
			Kind:               QueryForRecipient,
			RecipientID:        selection,
			ColumnsRecipientID: selection,
		}, nil
	case AxisInternal:
		if selection == "" {
			return TransferQuery{}, dErrors.New(dErrors.CodeBadRequest, "internal selection is required")
		}
		if selection == SelectionAll {
			return TransferQuery{
				Kind:               QueryInternalAll,
				ColumnsRecipientID: dirmodels.UserRecipientID,
			}, nil
		}
		return TransferQuery{
			Kind:               QueryInternalForUser,
			UserID:             selection,
			ColumnsRecipientID: dirmodels.UserRecipientID,
		}, nil
	default:
		return TransferQuery{}, dErrors.New(dErrors.CodeBadRequest, "unknown view axis")
	}
}
