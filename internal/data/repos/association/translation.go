package association

import (
	"gorm.io/gorm"

	types "github.com/yungbote/daghub-backend/internal/domain"
	"github.com/yungbote/daghub-backend/internal/domain/entry"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

// TranslationRepo manages the per-language texts of organisations and
// solutions. Replace is a full delete then insert.
type TranslationRepo interface {
	ReplaceOrganisation(dbc dbctx.Context, organisationID int, in []entry.Translation) error
	ReplaceSolution(dbc dbctx.Context, solutionID int, in []entry.Translation) error
	ListOrganisation(dbc dbctx.Context, organisationID int) ([]entry.Translation, error)
	ListSolution(dbc dbctx.Context, solutionID int) ([]entry.Translation, error)
	// NamedBySolution groups the translations of solutionIDs by solution,
	// carrying the language description.
	NamedBySolution(dbc dbctx.Context, solutionIDs []int) (map[int][]entry.NamedTranslation, error)
}

type translationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTranslationRepo(db *gorm.DB, baseLog *logger.Logger) TranslationRepo {
	return &translationRepo{db: db, log: baseLog.With("repo", "TranslationRepo")}
}

func (r *translationRepo) ReplaceOrganisation(dbc dbctx.Context, organisationID int, in []entry.Translation) error {
	db := dbc.DB(r.db)
	if err := db.Where("organisation_id = ?", organisationID).Delete(&types.OrganisationTranslation{}).Error; err != nil {
		return err
	}
	if len(in) == 0 {
		return nil
	}
	rows := make([]types.OrganisationTranslation, 0, len(in))
	for _, t := range in {
		rows = append(rows, types.OrganisationTranslation{OrganisationID: organisationID, LanguageID: t.LanguageID, Translation: t.Translation})
	}
	return db.Create(&rows).Error
}

func (r *translationRepo) ReplaceSolution(dbc dbctx.Context, solutionID int, in []entry.Translation) error {
	db := dbc.DB(r.db)
	if err := db.Where("solution_id = ?", solutionID).Delete(&types.SolutionTranslation{}).Error; err != nil {
		return err
	}
	if len(in) == 0 {
		return nil
	}
	rows := make([]types.SolutionTranslation, 0, len(in))
	for _, t := range in {
		rows = append(rows, types.SolutionTranslation{SolutionID: solutionID, LanguageID: t.LanguageID, Translation: t.Translation})
	}
	return db.Create(&rows).Error
}

func (r *translationRepo) ListOrganisation(dbc dbctx.Context, organisationID int) ([]entry.Translation, error) {
	out := []entry.Translation{}
	err := dbc.DB(r.db).Model(&types.OrganisationTranslation{}).
		Select("language_id, translation").
		Where("organisation_id = ?", organisationID).
		Order("language_id ASC").
		Scan(&out).Error
	return out, err
}

func (r *translationRepo) ListSolution(dbc dbctx.Context, solutionID int) ([]entry.Translation, error) {
	out := []entry.Translation{}
	err := dbc.DB(r.db).Model(&types.SolutionTranslation{}).
		Select("language_id, translation").
		Where("solution_id = ?", solutionID).
		Order("language_id ASC").
		Scan(&out).Error
	return out, err
}

func (r *translationRepo) NamedBySolution(dbc dbctx.Context, solutionIDs []int) (map[int][]entry.NamedTranslation, error) {
	out := map[int][]entry.NamedTranslation{}
	if len(solutionIDs) == 0 {
		return out, nil
	}
	type row struct {
		SolutionID  int
		Language    string
		Translation string
	}
	var rows []row
	err := dbc.DB(r.db).Table("solution_translations t").
		Select("t.solution_id AS solution_id, COALESCE(l.description, '') AS language, t.translation AS translation").
		Joins("LEFT JOIN languages l ON l.id = t.language_id").
		Where("t.solution_id IN ?", solutionIDs).
		Order("t.solution_id ASC, t.language_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		out[rw.SolutionID] = append(out[rw.SolutionID], entry.NamedTranslation{Language: rw.Language, Translation: rw.Translation})
	}
	return out, nil
}
