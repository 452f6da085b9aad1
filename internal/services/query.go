package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/daghub-backend/internal/data/repos"
	types "github.com/yungbote/daghub-backend/internal/domain"
	"github.com/yungbote/daghub-backend/internal/domain/dimension"
	"github.com/yungbote/daghub-backend/internal/domain/facet"
	"github.com/yungbote/daghub-backend/internal/observability"
	"github.com/yungbote/daghub-backend/internal/platform/ctxutil"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

// QueryRecorder accepts query log entries without blocking.
type QueryRecorder interface {
	Record(entry *types.QueryLog) bool
}

type QueryService interface {
	// Query matches solutions against sel and computes every aggregate over
	// the matched set. All fields of the result are nil when nothing matched.
	Query(ctx context.Context, sel facet.Selection) (facet.Result, error)
}

type queryService struct {
	log          *logger.Logger
	facets       repos.FacetRepo
	translations repos.TranslationRepo
	recorder     QueryRecorder
	metrics      *observability.Metrics
	concurrency  int
	now          func() time.Time
}

func NewQueryService(
	log *logger.Logger,
	facets repos.FacetRepo,
	translations repos.TranslationRepo,
	recorder QueryRecorder,
	metrics *observability.Metrics,
	concurrency int,
) QueryService {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &queryService{
		log:          log.With("service", "QueryService"),
		facets:       facets,
		translations: translations,
		recorder:     recorder,
		metrics:      metrics,
		concurrency:  concurrency,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *queryService) Query(ctx context.Context, sel facet.Selection) (facet.Result, error) {
	ctx, span := otel.Tracer("daghub/query").Start(ctx, "QueryService.Query")
	defer span.End()

	var out facet.Result
	sel = sel.Normalized()
	span.SetAttributes(attribute.Bool("query.unfiltered", sel.Empty()))

	ids, err := s.facets.MatchingSolutionIDs(dbctx.Context{Ctx: ctx}, sel)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "match")
		return out, fmt.Errorf("match solutions: %w", err)
	}
	span.SetAttributes(attribute.Int("query.matched", len(ids)))
	s.metrics.ObserveQueryMatches(len(ids))
	s.record(ctx, sel, ids)

	if len(ids) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	dbc := dbctx.Context{Ctx: gctx}

	counts := []struct {
		name string
		dst  *[]dimension.KeyValue
		run  func() ([]dimension.KeyValue, error)
	}{
		{"countSolutionByCountry", &out.CountSolutionByCountry, func() ([]dimension.KeyValue, error) {
			return s.facets.CountByCountry(dbc, ids, sel.Countries)
		}},
		{"countSolutionByLaunch", &out.CountSolutionByLaunch, func() ([]dimension.KeyValue, error) {
			return s.facets.CountByLaunch(dbc, ids)
		}},
		{"countSolutionByOrganisationType", &out.CountSolutionByOrganisationType, func() ([]dimension.KeyValue, error) {
			return s.facets.CountByOrganisationType(dbc, ids)
		}},
		{"countSolutionByTechnology", &out.CountSolutionByTechnology, func() ([]dimension.KeyValue, error) {
			return s.facets.CountByTechnology(dbc, ids)
		}},
		{"countSolutionByUseCase", &out.CountSolutionByUseCase, func() ([]dimension.KeyValue, error) {
			return s.facets.CountByUseCase(dbc, ids)
		}},
		{"countSolutionByUseCaseNumber", &out.CountSolutionByUseCaseNumber, func() ([]dimension.KeyValue, error) {
			return s.facets.CountByUseCaseNumber(dbc, ids)
		}},
	}
	for _, c := range counts {
		c := c
		g.Go(func() error {
			rows, err := c.run()
			if err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
			*c.dst = nonNil(rows)
			return nil
		})
	}
	g.Go(func() error {
		rows, err := s.facets.MetricRows(dbc, ids)
		if err != nil {
			return fmt.Errorf("statistics: %w", err)
		}
		out.Statistics = Statistics(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.solutions(dbc, ids)
		if err != nil {
			return fmt.Errorf("solutions: %w", err)
		}
		out.Solutions = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "aggregate")
		s.log.Error("query aggregate failed", "error", err, "matched", len(ids))
		return facet.Result{}, err
	}
	return out, nil
}

// solutions lists the matched solutions, then attaches translations from a
// second query.
func (s *queryService) solutions(dbc dbctx.Context, ids []int) ([]facet.SolutionSummary, error) {
	rows, err := s.facets.SolutionRows(dbc, ids)
	if err != nil {
		return nil, err
	}
	named, err := s.translations.NamedBySolution(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("translations: %w", err)
	}
	for i := range rows {
		if ts, ok := named[rows[i].ID]; ok && len(ts) > 0 {
			rows[i].Translations = ts
		}
	}
	return nonNil(rows), nil
}

func (s *queryService) record(ctx context.Context, sel facet.Selection, ids []int) {
	if s.recorder == nil {
		return
	}
	requestID := ctxutil.RequestID(ctx)
	if !s.recorder.Record(NewQueryLog(sel, ids, requestID, s.now())) {
		s.log.Debug("query log entry dropped", "request_id", requestID)
	}
}

// Statistics builds the min, max and avg rows of every paired metric. Rows
// whose paired metric is null are ignored; min and max are omitted when no
// row remains, avg is always present.
func Statistics(rows []repos.MetricRow) []facet.StatisticRow {
	out := make([]facet.StatisticRow, 0, len(facet.Metrics)*3)
	for _, m := range facet.Metrics {
		var (
			minRow, maxRow *repos.MetricRow
			regSum, usrSum float64
			regN, usrN     int
		)
		for i := range rows {
			r := &rows[i]
			users := pairedMetric(r, m)
			if users == nil {
				continue
			}
			if minRow == nil || *users < *pairedMetric(minRow, m) {
				minRow = r
			}
			if maxRow == nil || *users > *pairedMetric(maxRow, m) {
				maxRow = r
			}
			usrSum += float64(*users)
			usrN++
			if r.RegisteredUsers != nil {
				regSum += float64(*r.RegisteredUsers)
				regN++
			}
		}
		if minRow != nil {
			out = append(out, statRow(m, facet.StatisticMin, minRow.RegisteredUsers, pairedMetric(minRow, m)))
			out = append(out, statRow(m, facet.StatisticMax, maxRow.RegisteredUsers, pairedMetric(maxRow, m)))
		}
		avg := facet.StatisticRow{Label: m, Statistic: facet.StatisticAvg}
		if regN > 0 {
			v := round3(regSum / float64(regN))
			avg.RegisteredUsers = &v
		}
		if usrN > 0 {
			v := round3(usrSum / float64(usrN))
			avg.Users = &v
		}
		out = append(out, avg)
	}
	return out
}

func pairedMetric(r *repos.MetricRow, m facet.Metric) *int {
	switch m {
	case facet.MetricWomen:
		return r.WomenUsers
	case facet.MetricYouth:
		return r.YouthUsers
	default:
		return r.SHFUsers
	}
}

func statRow(m facet.Metric, st facet.Statistic, registered, users *int) facet.StatisticRow {
	return facet.StatisticRow{Label: m, Statistic: st, RegisteredUsers: floatPtr(registered), Users: floatPtr(users)}
}

func floatPtr(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// NewQueryLog builds the analytics row of one query.
func NewQueryLog(sel facet.Selection, ids []int, requestID string, at time.Time) *types.QueryLog {
	return &types.QueryLog{
		LoggedAt:          at,
		RequestID:         requestID,
		Technologies:      sel.Technologies,
		Channels:          sel.Channels,
		UseCases:          sel.UseCases,
		OrganisationTypes: sel.OrganisationTypes,
		Stages:            sel.Stages,
		Tags:              sel.Tags,
		Countries:         sel.Countries,
		SolutionIDs:       ids,
	}
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
