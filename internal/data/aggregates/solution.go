package aggregates

import (
	"context"
	"time"

	"github.com/yungbote/daghub-backend/internal/data/repos"
	domainagg "github.com/yungbote/daghub-backend/internal/domain/aggregates"
	"github.com/yungbote/daghub-backend/internal/domain/entry"
	"github.com/yungbote/daghub-backend/internal/domain/ownership"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
)

type SolutionAggregateDeps struct {
	Base BaseDeps

	Organisations repos.OrganisationRepo
	Solutions     repos.SolutionRepo
	Owners        repos.OwnersRepo
	Dimensions    repos.DimensionRepo
	Synchronizer  *Synchronizer
	Authorizer    ownership.Authorizer
	Now           func() time.Time
}

type solutionAggregate struct {
	deps SolutionAggregateDeps
	refs referenceChecker
}

func NewSolutionAggregate(deps SolutionAggregateDeps) domainagg.SolutionAggregate {
	deps.Base = deps.Base.withDefaults()
	if deps.Authorizer == nil {
		deps.Authorizer = ownership.NewAuthorizer()
	}
	if deps.Now == nil {
		deps.Now = utcNow
	}
	return &solutionAggregate{deps: deps, refs: referenceChecker{dims: deps.Dimensions}}
}

func (a *solutionAggregate) Contract() domainagg.Contract {
	return domainagg.SolutionAggregateContract
}

func (a *solutionAggregate) configured() bool {
	d := a.deps
	return d.Organisations != nil && d.Solutions != nil && d.Owners != nil && d.Dimensions != nil && d.Synchronizer != nil
}

// Create inserts the solution and merges the caller into the owning
// organisation's owners; the merged list becomes the solution's owners.
func (a *solutionAggregate) Create(ctx context.Context, in domainagg.CreateSolutionInput) (domainagg.WriteResult, error) {
	const op = "Catalogue.Solution.Create"
	var out domainagg.WriteResult
	if !in.Actor.Valid() {
		return out, domainagg.Forbidden(op)
	}
	if err := in.Draft.Validate(); err != nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "solution aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		orgID := *in.Draft.Organisation
		org, err := a.deps.Organisations.LockActive(dbc, orgID)
		if err != nil {
			return err
		}
		if org == nil {
			return domainagg.NotFound(op, "organisation %d not found", orgID)
		}
		if err := a.refs.solution(dbc, in.Draft); err != nil {
			return err
		}

		orgOwners, err := a.deps.Owners.Load(dbc, entry.KindOrganisation, org.ID)
		if err != nil {
			return err
		}
		owners := orgOwners.Add(in.Actor.OwnerID())
		if err := a.deps.Owners.Append(dbc, entry.KindOrganisation, org.ID, owners); err != nil {
			return err
		}

		now := a.deps.Now()
		sol := &entry.Solution{}
		in.Draft.Apply(sol)
		if in.Actor.Registered() {
			sol.DateModifiedOwner = &now
		}
		if err := a.deps.Solutions.Create(dbc, sol); err != nil {
			return err
		}
		if err := a.deps.Owners.Append(dbc, entry.KindSolution, sol.ID, owners); err != nil {
			return err
		}
		if _, err := a.deps.Synchronizer.ReplaceAssociations(dbc, sol.ID, DesiredFromDraft(in.Draft)); err != nil {
			return err
		}

		out = domainagg.WriteResult{ID: sol.ID, Version: sol.Version, Owners: owners}
		return nil
	})
	return out, err
}

// Update overwrites the solution's scalars and replaces every association
// set. The caller must own the solution and hold its current version.
func (a *solutionAggregate) Update(ctx context.Context, in domainagg.UpdateSolutionInput) (domainagg.WriteResult, error) {
	const op = "Catalogue.Solution.Update"
	var out domainagg.WriteResult
	if in.ID <= 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing solution id", nil)
	}
	if err := in.Draft.Validate(); err != nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "solution aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		cur, err := a.deps.Solutions.LockActive(dbc, in.ID)
		if err != nil {
			return err
		}
		if cur == nil {
			return domainagg.NotFound(op, "solution %d not found", in.ID)
		}
		owners, err := a.deps.Owners.Load(dbc, entry.KindSolution, cur.ID)
		if err != nil {
			return err
		}
		if !a.deps.Authorizer.Authorize(in.Actor, owners).Allowed() {
			return domainagg.Forbidden(op)
		}
		if err := RequireVersionMatch(cur.Version, in.ExpectedVersion); err != nil {
			return err
		}

		if orgID := *in.Draft.Organisation; orgID != cur.OrganisationID {
			org, err := a.deps.Organisations.GetActive(dbc, orgID)
			if err != nil {
				return err
			}
			if org == nil {
				return domainagg.NotFound(op, "organisation %d not found", orgID)
			}
		}
		if err := a.refs.solution(dbc, in.Draft); err != nil {
			return err
		}

		now := a.deps.Now()
		updates := in.Draft.Columns()
		updates["date_modified"] = now
		if in.Actor.Registered() {
			updates["date_modified_owner"] = now
		}
		ok, err := a.deps.Base.CASGuard.UpdateByVersion(dbc, "solutions", cur.ID, in.ExpectedVersion, updates)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "solution changed since it was read"); err != nil {
			return err
		}
		if _, err := a.deps.Synchronizer.ReplaceAssociations(dbc, cur.ID, DesiredFromDraft(in.Draft)); err != nil {
			return err
		}

		out = domainagg.WriteResult{ID: cur.ID, Version: in.ExpectedVersion + 1, Owners: owners}
		return nil
	})
	return out, err
}

// Delete soft-deletes the solution. Its association rows stay in place.
func (a *solutionAggregate) Delete(ctx context.Context, in domainagg.DeleteInput) (domainagg.DeleteResult, error) {
	const op = "Catalogue.Solution.Delete"
	var out domainagg.DeleteResult
	if in.ID <= 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing solution id", nil)
	}
	if a.deps.Solutions == nil || a.deps.Owners == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "solution aggregate repos not configured", nil)
	}
	remover := solutionRemover{
		solutions:  a.deps.Solutions,
		owners:     a.deps.Owners,
		authorizer: a.deps.Authorizer,
	}
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if err := remover.remove(dbc, op, in.Actor, in.ID, a.deps.Now()); err != nil {
			return err
		}
		out.ID = in.ID
		return nil
	})
	return out, err
}

// solutionRemover is the per-solution delete step shared with the
// organisation cascade.
type solutionRemover struct {
	solutions  repos.SolutionRepo
	owners     repos.OwnersRepo
	authorizer ownership.Authorizer
}

func (r solutionRemover) remove(dbc dbctx.Context, op string, actor ownership.Identity, id int, at time.Time) error {
	cur, err := r.solutions.LockActive(dbc, id)
	if err != nil {
		return err
	}
	if cur == nil {
		return domainagg.NotFound(op, "solution %d not found", id)
	}
	owners, err := r.owners.Load(dbc, entry.KindSolution, id)
	if err != nil {
		return err
	}
	if !r.authorizer.Authorize(actor, owners).Allowed() {
		return domainagg.Forbidden(op)
	}
	return r.solutions.SoftDelete(dbc, id, at)
}

func utcNow() time.Time { return time.Now().UTC() }
