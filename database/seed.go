package database

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/sahilchouksey/pandiu-api/model"
)

//go:embed seeds/reference.yaml
var defaultSeed []byte

// SeedData is the reference data loaded before the API is usable
type SeedData struct {
	Faculties []struct {
		Name     string   `yaml:"name"`
		Programs []string `yaml:"programs"`
	} `yaml:"faculties"`
	UserTypes        []string `yaml:"user_types"`
	PublicationTypes []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"publication_types"`
	Keywords       []string `yaml:"keywords"`
	ResearchGroups []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"research_groups"`
}

// ParseSeedData decodes a YAML seed file
func ParseSeedData(raw []byte) (*SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &data, nil
}

// LoadSeedData reads path, or the bundled reference data when path is empty
func LoadSeedData(path string) (*SeedData, error) {
	if path == "" {
		return ParseSeedData(defaultSeed)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSeedData(raw)
}

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll inserts every row of data that does not exist yet, matched by name.
// Running it twice is a no-op.
func (s *Seeder) SeedAll(data *SeedData) error {
	log.Info().Msg("starting database seeding")

	return s.db.Transaction(func(tx *gorm.DB) error {
		created := 0

		for _, f := range data.Faculties {
			faculty := model.Faculty{Name: f.Name}
			n, err := firstOrCreate(tx, &faculty, model.Faculty{Name: f.Name})
			if err != nil {
				return fmt.Errorf("failed to seed faculty %q: %w", f.Name, err)
			}
			created += n

			for _, name := range f.Programs {
				program := model.Program{Name: name, FacultyID: faculty.ID}
				n, err := firstOrCreate(tx, &program, model.Program{Name: name, FacultyID: faculty.ID})
				if err != nil {
					return fmt.Errorf("failed to seed program %q: %w", name, err)
				}
				created += n
			}
		}

		for _, name := range data.UserTypes {
			n, err := firstOrCreate(tx, &model.UserType{Name: name}, model.UserType{Name: name})
			if err != nil {
				return fmt.Errorf("failed to seed user type %q: %w", name, err)
			}
			created += n
		}

		for _, t := range data.PublicationTypes {
			n, err := firstOrCreate(tx, &model.PublicationType{Name: t.Name, Description: t.Description}, model.PublicationType{Name: t.Name})
			if err != nil {
				return fmt.Errorf("failed to seed publication type %q: %w", t.Name, err)
			}
			created += n
		}

		for _, word := range data.Keywords {
			n, err := firstOrCreate(tx, &model.Keyword{Word: word}, model.Keyword{Word: word})
			if err != nil {
				return fmt.Errorf("failed to seed keyword %q: %w", word, err)
			}
			created += n
		}

		for _, g := range data.ResearchGroups {
			n, err := firstOrCreate(tx, &model.ResearchGroup{Name: g.Name, Description: g.Description}, model.ResearchGroup{Name: g.Name})
			if err != nil {
				return fmt.Errorf("failed to seed research group %q: %w", g.Name, err)
			}
			created += n
		}

		log.Info().Int("created", created).Msg("database seeding completed")
		return nil
	})
}

// firstOrCreate loads the row matching where into dest, inserting dest when
// none exists. It returns 1 when a row was inserted.
func firstOrCreate[T any](tx *gorm.DB, dest *T, where T) (int, error) {
	err := tx.Where(&where).First(dest).Error
	if err == nil {
		return 0, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	if err := tx.Create(dest).Error; err != nil {
		return 0, err
	}
	return 1, nil
}

// RunSeeds is a convenience function to seed from path (empty for the bundled data)
func RunSeeds(db *gorm.DB, path string) error {
	data, err := LoadSeedData(path)
	if err != nil {
		return err
	}
	return NewSeeder(db).SeedAll(data)
}
