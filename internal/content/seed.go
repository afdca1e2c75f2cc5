package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"

	"github.com/mehmetcc/nursery/pkg/id"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SeedData mirrors the layout of the nursery data file.
type SeedData struct {
	CompanyInfo *CompanyInfo `json:"companyInfo"`
	Services    []Service    `json:"services"`
	Projects    []Project    `json:"projects"`
	Clients     []Client     `json:"clients"`
}

func ReadSeedData(r io.Reader) (*SeedData, error) {
	var data SeedData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(err, "failed to decode seed data")
	}
	return &data, nil
}

type Seeder interface {
	// Replace empties all four collections and inserts data in one transaction.
	Replace(ctx context.Context, data *SeedData) error
}

const (
	insertCompanySeedQuery = `
						INSERT INTO company_info (id, name, established, experience, area, location, turnover, mission, vision, contact)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
						`
	insertServiceSeedQuery = `
						INSERT INTO services (id, name, description, icon, features)
						VALUES ($1, $2, $3, $4, $5)
						`
	insertProjectSeedQuery = `
						INSERT INTO projects (id, name, location, description, image, category, plant_species, featured)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
						`
	insertClientSeedQuery = `
						INSERT INTO clients (id, name, type, full_name, location, project_value, project)
						VALUES ($1, $2, $3, $4, $5, $6, $7)
						`
)

type seeder struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewSeeder(db *sql.DB, logger *zap.Logger) Seeder {
	return &seeder{db: db, logger: logger}
}

func (s *seeder) Replace(ctx context.Context, data *SeedData) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin seed transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range []string{"company_info", "services", "projects", "clients"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.Wrapf(err, "failed to clear %s", table)
		}
	}

	if c := data.CompanyInfo; c != nil {
		_, err := tx.ExecContext(ctx, insertCompanySeedQuery,
			orNew(c.ID), c.Name, c.Established, c.Experience, c.Area, c.Location, c.Turnover, c.Mission, c.Vision, c.Contact)
		if err != nil {
			return errors.Wrap(err, "failed to insert company info")
		}
	}
	for _, svc := range data.Services {
		_, err := tx.ExecContext(ctx, insertServiceSeedQuery,
			orNew(svc.ID), svc.Name, svc.Description, svc.Icon, svc.Features)
		if err != nil {
			return errors.Wrapf(err, "failed to insert service %q", svc.Name)
		}
	}
	for _, p := range data.Projects {
		_, err := tx.ExecContext(ctx, insertProjectSeedQuery,
			orNew(p.ID), p.Name, p.Location, p.Description, p.Image, p.Category, p.PlantSpecies, p.Featured)
		if err != nil {
			return errors.Wrapf(err, "failed to insert project %q", p.Name)
		}
	}
	for _, cl := range data.Clients {
		_, err := tx.ExecContext(ctx, insertClientSeedQuery,
			orNew(cl.ID), cl.Name, cl.Type, cl.FullName, cl.Location, cl.ProjectValue, cl.Project)
		if err != nil {
			return errors.Wrapf(err, "failed to insert client %q", cl.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit seed transaction")
	}

	s.logger.Info("database seeded",
		zap.Bool("company_info", data.CompanyInfo != nil),
		zap.Int("services", len(data.Services)),
		zap.Int("projects", len(data.Projects)),
		zap.Int("clients", len(data.Clients)),
	)
	return nil
}

// orNew keeps a well-formed id from the data file and replaces anything else,
// such as legacy ObjectId strings.
func orNew(pid id.PublicID) id.PublicID {
	if parsed, ok := id.Parse(pid.String()); ok {
		return parsed
	}
	return id.New()
}
