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

type OrganisationAggregateDeps struct {
	Base BaseDeps

	Organisations repos.OrganisationRepo
	Solutions     repos.SolutionRepo
	Owners        repos.OwnersRepo
	Dimensions    repos.DimensionRepo
	Translations  repos.TranslationRepo
	// Sweeper drops a user-origin headquarters region an update leaves unused.
	Sweeper    DimensionSweeper
	Authorizer ownership.Authorizer
	Now        func() time.Time
}

type organisationAggregate struct {
	deps OrganisationAggregateDeps
	refs referenceChecker
}

func NewOrganisationAggregate(deps OrganisationAggregateDeps) domainagg.OrganisationAggregate {
	deps.Base = deps.Base.withDefaults()
	if deps.Authorizer == nil {
		deps.Authorizer = ownership.NewAuthorizer()
	}
	if deps.Now == nil {
		deps.Now = utcNow
	}
	return &organisationAggregate{deps: deps, refs: referenceChecker{dims: deps.Dimensions}}
}

func (a *organisationAggregate) Contract() domainagg.Contract {
	return domainagg.OrganisationAggregateContract
}

func (a *organisationAggregate) configured() bool {
	d := a.deps
	return d.Organisations != nil && d.Solutions != nil && d.Owners != nil && d.Dimensions != nil && d.Translations != nil
}

// Create inserts the organisation. Its owners are copied from the first
// organisation the caller already co-owns, or are just the caller.
func (a *organisationAggregate) Create(ctx context.Context, in domainagg.CreateOrganisationInput) (domainagg.WriteResult, error) {
	const op = "Catalogue.Organisation.Create"
	var out domainagg.WriteResult
	if !in.Actor.Valid() {
		return out, domainagg.Forbidden(op)
	}
	if err := in.Draft.Validate(); err != nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "organisation aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if err := a.refs.organisation(dbc, in.Draft); err != nil {
			return err
		}
		owners, err := a.deps.Owners.FirstCoOwnedOrganisation(dbc, in.Actor.OwnerID())
		if err != nil {
			return err
		}
		if len(owners) == 0 {
			owners = entry.Owners{in.Actor.OwnerID()}
		}

		now := a.deps.Now()
		org := &entry.Organisation{}
		in.Draft.Apply(org)
		if in.Actor.Registered() {
			org.DateModifiedOwner = &now
		}
		if err := a.deps.Organisations.Create(dbc, org); err != nil {
			return err
		}
		if err := a.deps.Owners.Append(dbc, entry.KindOrganisation, org.ID, owners); err != nil {
			return err
		}
		if err := a.deps.Translations.ReplaceOrganisation(dbc, org.ID, in.Draft.Translations); err != nil {
			return err
		}
		out = domainagg.WriteResult{ID: org.ID, Version: org.Version, Owners: owners}
		return nil
	})
	return out, err
}

// Update overwrites the organisation's scalars and replaces its translations.
func (a *organisationAggregate) Update(ctx context.Context, in domainagg.UpdateOrganisationInput) (domainagg.WriteResult, error) {
	const op = "Catalogue.Organisation.Update"
	var out domainagg.WriteResult
	if in.ID <= 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing organisation id", nil)
	}
	if err := in.Draft.Validate(); err != nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "organisation aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		cur, err := a.deps.Organisations.LockActive(dbc, in.ID)
		if err != nil {
			return err
		}
		if cur == nil {
			return domainagg.NotFound(op, "organisation %d not found", in.ID)
		}
		owners, err := a.deps.Owners.Load(dbc, entry.KindOrganisation, cur.ID)
		if err != nil {
			return err
		}
		if !a.deps.Authorizer.Authorize(in.Actor, owners).Allowed() {
			return domainagg.Forbidden(op)
		}
		if err := RequireVersionMatch(cur.Version, in.ExpectedVersion); err != nil {
			return err
		}
		if err := a.refs.organisation(dbc, in.Draft); err != nil {
			return err
		}

		now := a.deps.Now()
		updates := in.Draft.Columns()
		updates["date_modified"] = now
		if in.Actor.Registered() {
			updates["date_modified_owner"] = now
		}
		ok, err := a.deps.Base.CASGuard.UpdateByVersion(dbc, "organisations", cur.ID, in.ExpectedVersion, updates)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "organisation changed since it was read"); err != nil {
			return err
		}
		if err := a.deps.Translations.ReplaceOrganisation(dbc, cur.ID, in.Draft.Translations); err != nil {
			return err
		}
		if a.deps.Sweeper != nil && in.Draft.HQRegion != nil && *in.Draft.HQRegion != cur.HQRegionID {
			if _, err := a.deps.Sweeper.SweepRegions(dbc, []int{cur.HQRegionID}); err != nil {
				return err
			}
		}

		out = domainagg.WriteResult{ID: cur.ID, Version: in.ExpectedVersion + 1, Owners: owners}
		return nil
	})
	return out, err
}

// Delete soft-deletes the organisation and then each of its active
// solutions. Every solution is authorized on its own; one denial aborts the
// whole cascade.
func (a *organisationAggregate) Delete(ctx context.Context, in domainagg.DeleteInput) (domainagg.DeleteResult, error) {
	const op = "Catalogue.Organisation.Delete"
	var out domainagg.DeleteResult
	if in.ID <= 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing organisation id", nil)
	}
	if a.deps.Organisations == nil || a.deps.Solutions == nil || a.deps.Owners == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "organisation aggregate repos not configured", nil)
	}
	remover := solutionRemover{
		solutions:  a.deps.Solutions,
		owners:     a.deps.Owners,
		authorizer: a.deps.Authorizer,
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		cur, err := a.deps.Organisations.LockActive(dbc, in.ID)
		if err != nil {
			return err
		}
		if cur == nil {
			return domainagg.NotFound(op, "organisation %d not found", in.ID)
		}
		owners, err := a.deps.Owners.Load(dbc, entry.KindOrganisation, cur.ID)
		if err != nil {
			return err
		}
		if !a.deps.Authorizer.Authorize(in.Actor, owners).Allowed() {
			return domainagg.Forbidden(op)
		}

		now := a.deps.Now()
		if err := a.deps.Organisations.SoftDelete(dbc, cur.ID, now); err != nil {
			return err
		}
		ids, err := a.deps.Solutions.ActiveIDsByOrganisation(dbc, cur.ID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := remover.remove(dbc, op, in.Actor, id, now); err != nil {
				return err
			}
		}
		out = domainagg.DeleteResult{ID: cur.ID, CascadedSolutionIDs: ids}
		return nil
	})
	return out, err
}
