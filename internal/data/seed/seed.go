package seed

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/daghub-backend/internal/domain/dimension"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

//go:embed reference.yaml
var referenceYAML []byte

// Reference is the seed data set of every dimension table.
type Reference struct {
	BusinessFundingStages []dimension.BusinessFundingStage `yaml:"businessFundingStages"`
	BusinessGrowthStages  []dimension.BusinessGrowthStage  `yaml:"businessGrowthStages"`
	BusinessModels        []dimension.BusinessModel        `yaml:"businessModels"`
	Channels              []dimension.Channel              `yaml:"channels"`
	Countries             []dimension.Country              `yaml:"countries"`
	Languages             []dimension.Language             `yaml:"languages"`
	OrganisationTypes     []dimension.OrganisationType     `yaml:"organisationTypes"`
	Sectors               []dimension.Sector               `yaml:"sectors"`
	Tags                  []dimension.Tag                  `yaml:"tags"`
	Technologies          []dimension.Technology           `yaml:"technologies"`
	UseCases              []dimension.UseCase              `yaml:"useCases"`
}

// Default returns the embedded reference data set.
func Default() (*Reference, error) {
	return Parse(referenceYAML)
}

// Parse decodes a reference data set and stamps every row as seed origin.
func Parse(raw []byte) (*Reference, error) {
	var ref Reference
	if err := yaml.Unmarshal(raw, &ref); err != nil {
		return nil, fmt.Errorf("decode reference data: %w", err)
	}
	if err := ref.validate(); err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *Reference) validate() error {
	check := func(kind dimension.Kind, id int) error {
		if id <= 0 || id >= dimension.UserIDFloor {
			return fmt.Errorf("%s: seed id %d outside 1..%d", kind, id, dimension.UserIDFloor-1)
		}
		return nil
	}
	for _, c := range r.Countries {
		if len(c.ID) != 3 {
			return fmt.Errorf("countries: %q is not an ISO alpha-3 code", c.ID)
		}
		for _, reg := range c.Regions {
			if err := check(dimension.KindRegion, reg.ID); err != nil {
				return err
			}
		}
	}
	for _, uc := range r.UseCases {
		if err := check(dimension.KindUseCase, uc.ID); err != nil {
			return err
		}
		for _, suc := range uc.SubUseCases {
			if err := check(dimension.KindSubUseCase, suc.ID); err != nil {
				return err
			}
		}
	}
	for _, l := range r.Languages {
		if err := check(dimension.KindLanguage, l.ID); err != nil {
			return err
		}
	}
	return nil
}

// Loader writes a reference data set idempotently: rows whose id already
// exists are left untouched.
type Loader struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLoader(db *gorm.DB, baseLog *logger.Logger) *Loader {
	return &Loader{db: db, log: baseLog.With("service", "SeedLoader")}
}

func (l *Loader) Load(ctx context.Context, ref *Reference) error {
	if ref == nil {
		return nil
	}
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Session(&gorm.Session{})

		var regions []dimension.Region
		for _, c := range ref.Countries {
			for _, r := range c.Regions {
				r.CountryID = c.ID
				r.Origin = dimension.OriginSeed
				regions = append(regions, r)
			}
		}
		var subUseCases []dimension.SubUseCase
		for _, uc := range ref.UseCases {
			for _, s := range uc.SubUseCases {
				s.UseCaseID = uc.ID
				s.Origin = dimension.OriginSeed
				subUseCases = append(subUseCases, s)
			}
		}

		steps := []struct {
			name string
			rows any
			n    int
		}{
			{"business_funding_stages", &ref.BusinessFundingStages, len(ref.BusinessFundingStages)},
			{"business_growth_stages", &ref.BusinessGrowthStages, len(ref.BusinessGrowthStages)},
			{"business_models", &ref.BusinessModels, len(ref.BusinessModels)},
			{"channels", &ref.Channels, len(ref.Channels)},
			{"countries", &ref.Countries, len(ref.Countries)},
			{"regions", &regions, len(regions)},
			{"languages", &ref.Languages, len(ref.Languages)},
			{"organisation_types", &ref.OrganisationTypes, len(ref.OrganisationTypes)},
			{"sectors", &ref.Sectors, len(ref.Sectors)},
			{"tags", &ref.Tags, len(ref.Tags)},
			{"technologies", &ref.Technologies, len(ref.Technologies)},
			{"use_cases", &ref.UseCases, len(ref.UseCases)},
			{"sub_use_cases", &subUseCases, len(subUseCases)},
		}
		for _, st := range steps {
			if st.n == 0 {
				continue
			}
			if err := ins.Create(st.rows).Error; err != nil {
				return fmt.Errorf("seed %s: %w", st.name, err)
			}
			l.log.Debug("Seeded reference table", "table", st.name, "rows", st.n)
		}
		return nil
	})
}
