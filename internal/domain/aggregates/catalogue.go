package aggregates

import (
	"context"

	"github.com/yungbote/daghub-backend/internal/domain/entry"
	"github.com/yungbote/daghub-backend/internal/domain/ownership"
)

// Contract documents how an aggregate manages transactions and reads.
type Contract struct {
	Name string
	// AggregateOwnedTx is true when every write method opens its own transaction.
	AggregateOwnedTx bool
	Notes            string
}

// Aggregate is implemented by every write boundary.
type Aggregate interface {
	Contract() Contract
}

var OrganisationAggregateContract = Contract{
	Name:             "Catalogue.OrganisationAggregate",
	AggregateOwnedTx: true,
	Notes:            "Owns organisation rows, owners and translations; delete cascades through SolutionAggregate semantics.",
}

var SolutionAggregateContract = Contract{
	Name:             "Catalogue.SolutionAggregate",
	AggregateOwnedTx: true,
	Notes:            "Owns solution rows, owners, and the full replacement of every solution association set.",
}

// OrganisationAggregate owns organisation write invariants.
//
// Failures carry codes CodeValidation, CodeNotFound, CodeForbidden,
// CodeConflict, CodeRetryable or CodeInternal.
type OrganisationAggregate interface {
	Aggregate

	Create(ctx context.Context, in CreateOrganisationInput) (WriteResult, error)
	Update(ctx context.Context, in UpdateOrganisationInput) (WriteResult, error)
	// Delete soft-deletes the organisation and every active solution it owns.
	Delete(ctx context.Context, in DeleteInput) (DeleteResult, error)
}

// SolutionAggregate owns solution write invariants.
type SolutionAggregate interface {
	Aggregate

	Create(ctx context.Context, in CreateSolutionInput) (WriteResult, error)
	Update(ctx context.Context, in UpdateSolutionInput) (WriteResult, error)
	Delete(ctx context.Context, in DeleteInput) (DeleteResult, error)
}

type CreateOrganisationInput struct {
	Actor ownership.Identity
	Draft entry.OrganisationDraft
}

type UpdateOrganisationInput struct {
	Actor ownership.Identity
	ID    int
	// ExpectedVersion is the version the caller read; stale values conflict.
	ExpectedVersion int
	Draft           entry.OrganisationDraft
}

type CreateSolutionInput struct {
	Actor ownership.Identity
	Draft entry.SolutionDraft
}

type UpdateSolutionInput struct {
	Actor           ownership.Identity
	ID              int
	ExpectedVersion int
	Draft           entry.SolutionDraft
}

type DeleteInput struct {
	Actor ownership.Identity
	ID    int
}

type WriteResult struct {
	ID      int          `json:"id"`
	Version int          `json:"version"`
	Owners  entry.Owners `json:"owners"`
}

type DeleteResult struct {
	ID int `json:"id"`
	// CascadedSolutionIDs lists solutions soft-deleted with an organisation.
	CascadedSolutionIDs []int `json:"cascadedSolutions,omitempty"`
}
