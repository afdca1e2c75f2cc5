package content

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"
)

type CompanyRepo interface {
	Get(ctx context.Context) (*CompanyInfo, error)
}

const (
	selectCompanyQuery = `
						SELECT id, name, established, experience, area, location, turnover, mission, vision, contact
						FROM company_info
						LIMIT 1
						`
)

type companyRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewCompanyRepo(db *sql.DB, logger *zap.Logger) CompanyRepo {
	return &companyRepo{db: db, logger: logger}
}

func (c *companyRepo) Get(ctx context.Context) (*CompanyInfo, error) {
	var info CompanyInfo
	err := c.db.QueryRowContext(ctx, selectCompanyQuery).Scan(
		&info.ID,
		&info.Name,
		&info.Established,
		&info.Experience,
		&info.Area,
		&info.Location,
		&info.Turnover,
		&info.Mission,
		&info.Vision,
		&info.Contact,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		c.logger.Error("failed to load company info", zap.Error(err))
		return nil, mapPgError(err, "select company info")
	}
	return &info, nil
}
