package content

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mehmetcc/nursery/pkg/id"
	"go.uber.org/zap"
)

type ServiceRepo interface {
	List(ctx context.Context) ([]Service, error)
	GetByID(ctx context.Context, rawID string) (*Service, error)
	Count(ctx context.Context) (int, error)
}

const (
	selectServicesQuery = `
						SELECT id, name, description, icon, features
						FROM services
						ORDER BY name
						`
	selectServiceByIDQuery = `
						SELECT id, name, description, icon, features
						FROM services
						WHERE id = $1
						`
	countServicesQuery = `SELECT COUNT(*) FROM services`
)

type serviceRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewServiceRepo(db *sql.DB, logger *zap.Logger) ServiceRepo {
	return &serviceRepo{db: db, logger: logger}
}

func (s *serviceRepo) List(ctx context.Context) ([]Service, error) {
	rows, err := s.db.QueryContext(ctx, selectServicesQuery)
	if err != nil {
		s.logger.Error("failed to list services", zap.Error(err))
		return nil, mapPgError(err, "select services")
	}
	defer rows.Close()

	out := make([]Service, 0)
	for rows.Next() {
		var svc Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Description, &svc.Icon, &svc.Features); err != nil {
			return nil, mapPgError(err, "scan service")
		}
		out = append(out, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate services")
	}
	return out, nil
}

func (s *serviceRepo) GetByID(ctx context.Context, rawID string) (*Service, error) {
	pid, ok := id.Parse(rawID)
	if !ok {
		return nil, ErrNotFound
	}

	var svc Service
	err := s.db.QueryRowContext(ctx, selectServiceByIDQuery, pid).
		Scan(&svc.ID, &svc.Name, &svc.Description, &svc.Icon, &svc.Features)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error("failed to get service", zap.String("id", rawID), zap.Error(err))
		return nil, mapPgError(err, "select service")
	}
	return &svc, nil
}

func (s *serviceRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, countServicesQuery).Scan(&n); err != nil {
		return 0, mapPgError(err, "count services")
	}
	return n, nil
}
