package content

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mehmetcc/nursery/pkg/id"
	"go.uber.org/zap"
)

type ProjectRepo interface {
	// List filters by a case-insensitive substring of the category when
	// category is not empty.
	List(ctx context.Context, category string) ([]Project, error)
	GetByID(ctx context.Context, rawID string) (*Project, error)
	Create(ctx context.Context, dto *ProjectDTO) (*Project, error)
	Update(ctx context.Context, rawID string, dto *ProjectDTO) (*Project, error)
	Categories(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
}

const projectColumns = `id, name, location, description, image, category, plant_species, featured, created_at, updated_at`

const (
	selectProjectsQuery = `
						SELECT ` + projectColumns + `
						FROM projects
						WHERE ($1 = '' OR category ILIKE '%' || $1 || '%')
						ORDER BY created_at DESC, name
						`
	selectProjectByIDQuery = `
						SELECT ` + projectColumns + `
						FROM projects
						WHERE id = $1
						`
	insertProjectQuery = `
						INSERT INTO projects (id, name, location, description, image, category, plant_species, featured)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
						RETURNING ` + projectColumns + `
						`
	updateProjectQuery = `
						UPDATE projects
						SET name = $2, location = $3, description = $4, image = $5, category = $6,
							plant_species = $7, featured = $8, updated_at = now()
						WHERE id = $1
						RETURNING ` + projectColumns + `
						`
	selectCategoriesQuery = `
						SELECT DISTINCT category
						FROM projects
						WHERE category <> ''
						ORDER BY category
						`
	countProjectsQuery = `SELECT COUNT(*) FROM projects`
)

type projectRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewProjectRepo(db *sql.DB, logger *zap.Logger) ProjectRepo {
	return &projectRepo{db: db, logger: logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*Project, error) {
	var p Project
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Location,
		&p.Description,
		&p.Image,
		&p.Category,
		&p.PlantSpecies,
		&p.Featured,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *projectRepo) List(ctx context.Context, category string) ([]Project, error) {
	rows, err := p.db.QueryContext(ctx, selectProjectsQuery, escapeLike(category))
	if err != nil {
		p.logger.Error("failed to list projects", zap.Error(err))
		return nil, mapPgError(err, "select projects")
	}
	defer rows.Close()

	out := make([]Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, mapPgError(err, "scan project")
		}
		out = append(out, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate projects")
	}
	return out, nil
}

func (p *projectRepo) GetByID(ctx context.Context, rawID string) (*Project, error) {
	pid, ok := id.Parse(rawID)
	if !ok {
		return nil, ErrNotFound
	}

	project, err := scanProject(p.db.QueryRowContext(ctx, selectProjectByIDQuery, pid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		p.logger.Error("failed to get project", zap.String("id", rawID), zap.Error(err))
		return nil, mapPgError(err, "select project")
	}
	return project, nil
}

func (p *projectRepo) Create(ctx context.Context, dto *ProjectDTO) (*Project, error) {
	dto = normalizeProject(dto)
	row := p.db.QueryRowContext(ctx, insertProjectQuery,
		id.New(),
		dto.Name,
		dto.Location,
		dto.Description,
		dto.Image,
		dto.Category,
		StringList(dto.PlantSpecies),
		dto.Featured,
	)

	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			p.logger.Warn("create project canceled/timed out", zap.Error(err))
			return nil, err
		}
		p.logger.Error("failed to insert project", zap.Error(err))
		return nil, mapPgError(err, "insert project")
	}

	p.logger.Debug("project created",
		zap.String("id", project.ID.String()),
		zap.String("name", project.Name),
	)
	return project, nil
}

func (p *projectRepo) Update(ctx context.Context, rawID string, dto *ProjectDTO) (*Project, error) {
	pid, ok := id.Parse(rawID)
	if !ok {
		return nil, ErrNotFound
	}

	dto = normalizeProject(dto)
	row := p.db.QueryRowContext(ctx, updateProjectQuery,
		pid,
		dto.Name,
		dto.Location,
		dto.Description,
		dto.Image,
		dto.Category,
		StringList(dto.PlantSpecies),
		dto.Featured,
	)

	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		p.logger.Error("failed to update project", zap.String("id", rawID), zap.Error(err))
		return nil, mapPgError(err, "update project")
	}

	p.logger.Debug("project updated", zap.String("id", project.ID.String()))
	return project, nil
}

func (p *projectRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, selectCategoriesQuery)
	if err != nil {
		p.logger.Error("failed to list categories", zap.Error(err))
		return nil, mapPgError(err, "select categories")
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, mapPgError(err, "scan category")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate categories")
	}
	return out, nil
}

func (p *projectRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.db.QueryRowContext(ctx, countProjectsQuery).Scan(&n); err != nil {
		return 0, mapPgError(err, "count projects")
	}
	return n, nil
}

// normalizeProject trims every text field and drops blank plant species.
func normalizeProject(dto *ProjectDTO) *ProjectDTO {
	out := &ProjectDTO{
		Name:         strings.TrimSpace(dto.Name),
		Location:     strings.TrimSpace(dto.Location),
		Description:  strings.TrimSpace(dto.Description),
		Image:        strings.TrimSpace(dto.Image),
		Category:     strings.TrimSpace(dto.Category),
		PlantSpecies: make([]string, 0, len(dto.PlantSpecies)),
		Featured:     dto.Featured,
	}
	for _, s := range dto.PlantSpecies {
		if s = strings.TrimSpace(s); s != "" {
			out.PlantSpecies = append(out.PlantSpecies, s)
		}
	}
	return out
}
