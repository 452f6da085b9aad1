package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/daghub-backend/internal/data/repos"
	domainagg "github.com/yungbote/daghub-backend/internal/domain/aggregates"
	"github.com/yungbote/daghub-backend/internal/domain/entry"
	"github.com/yungbote/daghub-backend/internal/domain/ownership"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

// ChangePublisher announces committed writes to other API instances.
type ChangePublisher interface {
	Publish(ctx context.Context, ev entry.ChangeEvent) error
}

// BulkResult reports how far a bulk import got. FailedIndex is set when an
// item was rejected; the items before it stay applied.
type BulkResult struct {
	Applied     int                     `json:"applied"`
	Results     []domainagg.WriteResult `json:"results"`
	FailedIndex *int                    `json:"failedIndex,omitempty"`
}

type DataEntryService interface {
	CreateOrganisation(ctx context.Context, actor ownership.Identity, d entry.OrganisationDraft) (domainagg.WriteResult, error)
	// UpdateOrganisation expects d.Version to be the version the caller read.
	UpdateOrganisation(ctx context.Context, actor ownership.Identity, id int, d entry.OrganisationDraft) (domainagg.WriteResult, error)
	DeleteOrganisation(ctx context.Context, actor ownership.Identity, id int) (domainagg.DeleteResult, error)
	BulkOrganisations(ctx context.Context, actor ownership.Identity, drafts []entry.OrganisationDraft) (BulkResult, error)

	CreateSolution(ctx context.Context, actor ownership.Identity, d entry.SolutionDraft) (domainagg.WriteResult, error)
	UpdateSolution(ctx context.Context, actor ownership.Identity, id int, d entry.SolutionDraft) (domainagg.WriteResult, error)
	DeleteSolution(ctx context.Context, actor ownership.Identity, id int) (domainagg.DeleteResult, error)
	BulkSolutions(ctx context.Context, actor ownership.Identity, drafts []entry.SolutionDraft) (BulkResult, error)
}

type dataEntryService struct {
	log           *logger.Logger
	organisations domainagg.OrganisationAggregate
	solutions     domainagg.SolutionAggregate
	orgRepo       repos.OrganisationRepo
	solRepo       repos.SolutionRepo
	lookups       LookupService
	publisher     ChangePublisher
	now           func() time.Time
}

// NewDataEntryService wires the write path. With a nil publisher the lookup
// cache is invalidated in-process after every write.
func NewDataEntryService(
	log *logger.Logger,
	organisations domainagg.OrganisationAggregate,
	solutions domainagg.SolutionAggregate,
	orgRepo repos.OrganisationRepo,
	solRepo repos.SolutionRepo,
	lookups LookupService,
	publisher ChangePublisher,
) DataEntryService {
	return &dataEntryService{
		log:           log.With("service", "DataEntryService"),
		organisations: organisations,
		solutions:     solutions,
		orgRepo:       orgRepo,
		solRepo:       solRepo,
		lookups:       lookups,
		publisher:     publisher,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *dataEntryService) CreateOrganisation(ctx context.Context, actor ownership.Identity, d entry.OrganisationDraft) (domainagg.WriteResult, error) {
	res, err := s.organisations.Create(ctx, domainagg.CreateOrganisationInput{Actor: actor, Draft: d})
	if err != nil {
		return res, err
	}
	s.changed(ctx, entry.ChangeEvent{Kind: entry.KindOrganisation, ID: res.ID, Op: entry.OpCreated})
	return res, nil
}

func (s *dataEntryService) UpdateOrganisation(ctx context.Context, actor ownership.Identity, id int, d entry.OrganisationDraft) (domainagg.WriteResult, error) {
	res, err := s.organisations.Update(ctx, domainagg.UpdateOrganisationInput{
		Actor:           actor,
		ID:              id,
		ExpectedVersion: d.Version,
		Draft:           d,
	})
	if err != nil {
		return res, err
	}
	s.changed(ctx, entry.ChangeEvent{Kind: entry.KindOrganisation, ID: res.ID, Op: entry.OpUpdated})
	return res, nil
}

func (s *dataEntryService) DeleteOrganisation(ctx context.Context, actor ownership.Identity, id int) (domainagg.DeleteResult, error) {
	res, err := s.organisations.Delete(ctx, domainagg.DeleteInput{Actor: actor, ID: id})
	if err != nil {
		return res, err
	}
	s.changed(ctx, entry.ChangeEvent{Kind: entry.KindOrganisation, ID: res.ID, Op: entry.OpDeleted, Cascaded: res.CascadedSolutionIDs})
	return res, nil
}

func (s *dataEntryService) CreateSolution(ctx context.Context, actor ownership.Identity, d entry.SolutionDraft) (domainagg.WriteResult, error) {
	res, err := s.solutions.Create(ctx, domainagg.CreateSolutionInput{Actor: actor, Draft: d})
	if err != nil {
		return res, err
	}
	s.changed(ctx, entry.ChangeEvent{Kind: entry.KindSolution, ID: res.ID, Op: entry.OpCreated})
	return res, nil
}

func (s *dataEntryService) UpdateSolution(ctx context.Context, actor ownership.Identity, id int, d entry.SolutionDraft) (domainagg.WriteResult, error) {
	res, err := s.solutions.Update(ctx, domainagg.UpdateSolutionInput{
		Actor:           actor,
		ID:              id,
		ExpectedVersion: d.Version,
		Draft:           d,
	})
	if err != nil {
		return res, err
	}
	s.changed(ctx, entry.ChangeEvent{Kind: entry.KindSolution, ID: res.ID, Op: entry.OpUpdated})
	return res, nil
}

func (s *dataEntryService) DeleteSolution(ctx context.Context, actor ownership.Identity, id int) (domainagg.DeleteResult, error) {
	res, err := s.solutions.Delete(ctx, domainagg.DeleteInput{Actor: actor, ID: id})
	if err != nil {
		return res, err
	}
	s.changed(ctx, entry.ChangeEvent{Kind: entry.KindSolution, ID: res.ID, Op: entry.OpDeleted})
	return res, nil
}

func (s *dataEntryService) BulkOrganisations(ctx context.Context, actor ownership.Identity, drafts []entry.OrganisationDraft) (BulkResult, error) {
	const op = "DataEntry.Organisation.Bulk"
	validate := make([]func() error, len(drafts))
	for i := range drafts {
		validate[i] = drafts[i].Validate
	}
	if err := validateAll(op, validate); err != nil {
		return BulkResult{Results: []domainagg.WriteResult{}}, err
	}
	return s.applyAll(ctx, op, len(drafts), func(i int) (domainagg.WriteResult, error) {
		d := drafts[i]
		cur, err := s.existing(ctx, d.ID, func(dbc dbctx.Context, id int) (int, bool, error) {
			o, err := s.orgRepo.GetActive(dbc, id)
			if err != nil || o == nil {
				return 0, false, err
			}
			return o.Version, true, nil
		})
		if err != nil {
			return domainagg.WriteResult{}, err
		}
		if cur == nil {
			return s.CreateOrganisation(ctx, actor, d)
		}
		d.Version = s.bulkVersion(op, *d.ID, d.Version, *cur)
		return s.UpdateOrganisation(ctx, actor, *d.ID, d)
	})
}

func (s *dataEntryService) BulkSolutions(ctx context.Context, actor ownership.Identity, drafts []entry.SolutionDraft) (BulkResult, error) {
	const op = "DataEntry.Solution.Bulk"
	validate := make([]func() error, len(drafts))
	for i := range drafts {
		validate[i] = drafts[i].Validate
	}
	if err := validateAll(op, validate); err != nil {
		return BulkResult{Results: []domainagg.WriteResult{}}, err
	}
	return s.applyAll(ctx, op, len(drafts), func(i int) (domainagg.WriteResult, error) {
		d := drafts[i]
		cur, err := s.existing(ctx, d.ID, func(dbc dbctx.Context, id int) (int, bool, error) {
			sol, err := s.solRepo.GetActive(dbc, id)
			if err != nil || sol == nil {
				return 0, false, err
			}
			return sol.Version, true, nil
		})
		if err != nil {
			return domainagg.WriteResult{}, err
		}
		if cur == nil {
			return s.CreateSolution(ctx, actor, d)
		}
		d.Version = s.bulkVersion(op, *d.ID, d.Version, *cur)
		return s.UpdateSolution(ctx, actor, *d.ID, d)
	})
}

// existing returns the stored version of an active entry with the draft's
// id, or nil when the draft should create a new entry.
func (s *dataEntryService) existing(ctx context.Context, id *int, get func(dbc dbctx.Context, id int) (int, bool, error)) (*int, error) {
	if id == nil || *id <= 0 {
		return nil, nil
	}
	version, ok, err := get(dbctx.Context{Ctx: ctx}, *id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &version, nil
}

func (s *dataEntryService) applyAll(ctx context.Context, op string, n int, apply func(i int) (domainagg.WriteResult, error)) (BulkResult, error) {
	out := BulkResult{Results: make([]domainagg.WriteResult, 0, n)}
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			idx := i
			out.FailedIndex = &idx
			return out, err
		}
		res, err := apply(i)
		if err != nil {
			idx := i
			out.FailedIndex = &idx
			s.log.Warn("bulk import stopped", "op", op, "index", i, "applied", out.Applied, "code", domainagg.CodeOf(err))
			return out, err
		}
		out.Results = append(out.Results, res)
		out.Applied++
	}
	s.log.Info("bulk import applied", "op", op, "applied", out.Applied)
	return out, nil
}

// bulkVersion fills a missing item version with the stored one, so
// re-importing an export overwrites whatever is current.
func (s *dataEntryService) bulkVersion(op string, id, version, stored int) int {
	if version != 0 {
		return version
	}
	s.log.Info("bulk item takes stored version", "op", op, "id", id, "version", stored)
	return stored
}

// validateAll rejects the batch when any item is invalid, naming each one.
func validateAll(op string, validate []func() error) error {
	var bad []string
	for i, v := range validate {
		if err := v(); err != nil {
			bad = append(bad, fmt.Sprintf("item %d: %v", i, err))
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return domainagg.NewError(domainagg.CodeValidation, op, strings.Join(bad, "; "), nil)
}

// changed fans a committed write out. Publish failures are logged; the write
// itself already succeeded.
func (s *dataEntryService) changed(ctx context.Context, ev entry.ChangeEvent) {
	ev.At = s.now()
	if s.publisher != nil {
		err := s.publisher.Publish(ctx, ev)
		if err == nil {
			return
		}
		s.log.Warn("change publish failed", "kind", ev.Kind, "id", ev.ID, "error", err)
	}
	if s.lookups != nil {
		_ = s.lookups.Invalidate(ctx)
	}
}
