package content

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

type ClientRepo interface {
	// List filters by a case-insensitive substring of the client type when
	// clientType is not empty.
	List(ctx context.Context, clientType string) ([]Client, error)
	Count(ctx context.Context) (int, error)
}

const (
	selectClientsQuery = `
						SELECT id, name, type, full_name, location, project_value, project
						FROM clients
						WHERE ($1 = '' OR type ILIKE '%' || $1 || '%')
						ORDER BY name
						`
	countClientsQuery = `SELECT COUNT(*) FROM clients`
)

type clientRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewClientRepo(db *sql.DB, logger *zap.Logger) ClientRepo {
	return &clientRepo{db: db, logger: logger}
}

func (c *clientRepo) List(ctx context.Context, clientType string) ([]Client, error) {
	rows, err := c.db.QueryContext(ctx, selectClientsQuery, escapeLike(clientType))
	if err != nil {
		c.logger.Error("failed to list clients", zap.Error(err))
		return nil, mapPgError(err, "select clients")
	}
	defer rows.Close()

	out := make([]Client, 0)
	for rows.Next() {
		var cl Client
		if err := rows.Scan(&cl.ID, &cl.Name, &cl.Type, &cl.FullName, &cl.Location, &cl.ProjectValue, &cl.Project); err != nil {
			return nil, mapPgError(err, "scan client")
		}
		out = append(out, cl)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate clients")
	}
	return out, nil
}

func (c *clientRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, countClientsQuery).Scan(&n); err != nil {
		return 0, mapPgError(err, "count clients")
	}
	return n, nil
}
