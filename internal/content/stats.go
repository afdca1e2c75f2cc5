package content

import (
	"context"
	"errors"
)

func collectStats(ctx context.Context, repos Repos) (*Stats, error) {
	stats := &Stats{Area: "N/A", Turnover: "N/A"}

	info, err := repos.Company.Get(ctx)
	switch {
	case err == nil:
		stats.Experience = info.Experience
		if info.Area != "" {
			stats.Area = info.Area
		}
		if info.Turnover != "" {
			stats.Turnover = info.Turnover
		}
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	if stats.TotalProjects, err = repos.Projects.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalServices, err = repos.Services.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalClients, err = repos.Clients.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Categories, err = repos.Projects.Categories(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}
