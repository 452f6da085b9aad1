package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yungbote/daghub-backend/internal/data/repos"
	repotest "github.com/yungbote/daghub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/daghub-backend/internal/domain"
	domainagg "github.com/yungbote/daghub-backend/internal/domain/aggregates"
	"github.com/yungbote/daghub-backend/internal/domain/entry"
	"github.com/yungbote/daghub-backend/internal/domain/ownership"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

type fakeOrganisationAggregate struct {
	domainagg.OrganisationAggregate
	nextID  int
	created []entry.OrganisationDraft
	updated []domainagg.UpdateOrganisationInput
	// denyID makes updates of that id fail as forbidden
	denyID int
	// staleID makes updates of that id fail as a version conflict
	staleID int
}

func (f *fakeOrganisationAggregate) Create(_ context.Context, in domainagg.CreateOrganisationInput) (domainagg.WriteResult, error) {
	f.nextID++
	f.created = append(f.created, in.Draft)
	return domainagg.WriteResult{ID: f.nextID, Owners: entry.Owners{in.Actor.OwnerID()}}, nil
}

func (f *fakeOrganisationAggregate) Update(_ context.Context, in domainagg.UpdateOrganisationInput) (domainagg.WriteResult, error) {
	if in.ID == f.denyID {
		return domainagg.WriteResult{}, domainagg.Forbidden("Catalogue.Organisation.Update")
	}
	if in.ID == f.staleID {
		return domainagg.WriteResult{}, domainagg.NewError(domainagg.CodeConflict, "Catalogue.Organisation.Update", "version is stale", nil)
	}
	f.updated = append(f.updated, in)
	return domainagg.WriteResult{ID: in.ID, Version: in.ExpectedVersion + 1}, nil
}

func (f *fakeOrganisationAggregate) Delete(_ context.Context, in domainagg.DeleteInput) (domainagg.DeleteResult, error) {
	return domainagg.DeleteResult{ID: in.ID, CascadedSolutionIDs: []int{7, 8}}, nil
}

type fakeOrganisationRepo struct {
	repos.OrganisationRepo
	active map[int]int
}

func (r fakeOrganisationRepo) GetActive(_ dbctx.Context, id int) (*types.Organisation, error) {
	v, ok := r.active[id]
	if !ok {
		return nil, nil
	}
	o := &types.Organisation{}
	o.ID = id
	o.Version = v
	return o, nil
}

type recordingPublisher struct {
	events []entry.ChangeEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev entry.ChangeEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

type invalidationCounter struct {
	LookupService
	calls int
}

func (c *invalidationCounter) Invalidate(context.Context) error {
	c.calls++
	return nil
}

func validOrgDraft(name string) entry.OrganisationDraft {
	return entry.OrganisationDraft{
		Name:                 name,
		URL:                  "example.org",
		OrganisationType:     repotest.IntPtr(repotest.OrgTypePrivate),
		HQCountry:            "KEN",
		HQRegion:             repotest.IntPtr(repotest.RegionNairobi),
		BusinessFundingStage: repotest.IntPtr(repotest.FundingSeed),
		BusinessGrowthStage:  repotest.IntPtr(repotest.StageScaling),
	}
}

func newDataEntry(t *testing.T, agg *fakeOrganisationAggregate, active map[int]int, pub ChangePublisher, lookups LookupService) DataEntryService {
	t.Helper()
	return NewDataEntryService(repotest.Logger(t), agg, nil, fakeOrganisationRepo{active: active}, nil, lookups, pub)
}

var caller = ownership.Identity{UserID: 20001, Roles: []ownership.Role{ownership.RoleOwner}}

func TestBulkOrganisationsRejectsInvalidBatch(t *testing.T) {
	agg := &fakeOrganisationAggregate{}
	svc := newDataEntry(t, agg, nil, nil, nil)

	bad := validOrgDraft("")
	res, err := svc.BulkOrganisations(context.Background(), caller, []entry.OrganisationDraft{validOrgDraft("a"), bad})
	require.True(t, domainagg.IsCode(err, domainagg.CodeValidation), "want validation, got %v", err)
	require.Contains(t, domainagg.MessageOf(err), "item 1")
	require.Zero(t, res.Applied)
	require.Empty(t, agg.created)
}

func TestBulkOrganisationsCreatesOrUpdates(t *testing.T) {
	agg := &fakeOrganisationAggregate{nextID: 100}
	pub := &recordingPublisher{}
	svc := newDataEntry(t, agg, map[int]int{5: 3}, pub, nil)

	existing := validOrgDraft("existing")
	existing.ID = repotest.IntPtr(5)
	removed := validOrgDraft("removed")
	removed.ID = repotest.IntPtr(6)

	res, err := svc.BulkOrganisations(context.Background(), caller, []entry.OrganisationDraft{existing, removed})
	require.NoError(t, err)
	require.Equal(t, 2, res.Applied)
	require.Nil(t, res.FailedIndex)

	require.Len(t, agg.updated, 1)
	require.Equal(t, 5, agg.updated[0].ID)
	// drafts without a version update against the stored one
	require.Equal(t, 3, agg.updated[0].ExpectedVersion)
	require.Len(t, agg.created, 1)
	require.Equal(t, "removed", agg.created[0].Name)

	require.Len(t, pub.events, 2)
	require.Equal(t, entry.OpUpdated, pub.events[0].Op)
	require.Equal(t, entry.OpCreated, pub.events[1].Op)
	require.Equal(t, 101, pub.events[1].ID)
}

func TestBulkOrganisationsStopsAtForbidden(t *testing.T) {
	agg := &fakeOrganisationAggregate{denyID: 9}
	svc := newDataEntry(t, agg, map[int]int{9: 1}, nil, nil)

	denied := validOrgDraft("denied")
	denied.ID = repotest.IntPtr(9)
	res, err := svc.BulkOrganisations(context.Background(), caller, []entry.OrganisationDraft{
		validOrgDraft("first"), denied, validOrgDraft("never"),
	})
	require.True(t, domainagg.IsCode(err, domainagg.CodeForbidden), "want forbidden, got %v", err)
	require.Equal(t, 1, res.Applied)
	require.NotNil(t, res.FailedIndex)
	require.Equal(t, 1, *res.FailedIndex)
	require.Len(t, agg.created, 1)
}

func TestBulkOrganisationsStopsAtConflict(t *testing.T) {
	agg := &fakeOrganisationAggregate{staleID: 4}
	svc := newDataEntry(t, agg, map[int]int{4: 2}, nil, nil)

	stale := validOrgDraft("stale")
	stale.ID = repotest.IntPtr(4)
	stale.Version = 1
	res, err := svc.BulkOrganisations(context.Background(), caller, []entry.OrganisationDraft{
		validOrgDraft("first"), validOrgDraft("second"), stale, validOrgDraft("never"),
	})
	require.True(t, domainagg.IsCode(err, domainagg.CodeConflict), "want conflict, got %v", err)
	require.Equal(t, 2, res.Applied)
	require.NotNil(t, res.FailedIndex)
	require.Equal(t, 2, *res.FailedIndex)
	require.Len(t, agg.created, 2)
}

func TestBulkVersionFallbackIsLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	agg := &fakeOrganisationAggregate{}
	svc := NewDataEntryService(&logger.Logger{SugaredLogger: zap.New(core).Sugar()}, agg, nil, fakeOrganisationRepo{active: map[int]int{5: 3, 6: 4}}, nil, nil, nil)

	implicit := validOrgDraft("implicit")
	implicit.ID = repotest.IntPtr(5)
	explicit := validOrgDraft("explicit")
	explicit.ID = repotest.IntPtr(6)
	explicit.Version = 4

	_, err := svc.BulkOrganisations(context.Background(), caller, []entry.OrganisationDraft{implicit, explicit})
	require.NoError(t, err)
	require.Equal(t, 3, agg.updated[0].ExpectedVersion)
	require.Equal(t, 4, agg.updated[1].ExpectedVersion)

	fallbacks := logs.FilterMessage("bulk item takes stored version").All()
	require.Len(t, fallbacks, 1)
	require.Equal(t, zap.InfoLevel, fallbacks[0].Level)
	fields := fallbacks[0].ContextMap()
	require.EqualValues(t, 5, fields["id"])
	require.EqualValues(t, 3, fields["version"])
	require.Equal(t, "DataEntry.Organisation.Bulk", fields["op"])
}

func TestWritesInvalidateLookupsWithoutPublisher(t *testing.T) {
	agg := &fakeOrganisationAggregate{}
	lookups := &invalidationCounter{}
	svc := newDataEntry(t, agg, nil, nil, lookups)

	_, err := svc.CreateOrganisation(context.Background(), caller, validOrgDraft("a"))
	require.NoError(t, err)
	del, err := svc.DeleteOrganisation(context.Background(), caller, 1)
	require.NoError(t, err)
	require.Equal(t, []int{7, 8}, del.CascadedSolutionIDs)
	require.Equal(t, 2, lookups.calls)
}

func TestPublishFailureFallsBackToInvalidation(t *testing.T) {
	agg := &fakeOrganisationAggregate{}
	lookups := &invalidationCounter{}
	svc := newDataEntry(t, agg, nil, &recordingPublisher{err: errors.New("redis down")}, lookups)

	_, err := svc.CreateOrganisation(context.Background(), caller, validOrgDraft("a"))
	require.NoError(t, err)
	require.Equal(t, 1, lookups.calls)
}
