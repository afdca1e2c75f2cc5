// Package contenttest provides in-memory content repositories for handler and
// router tests.
package contenttest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mehmetcc/nursery/internal/content"
	"github.com/mehmetcc/nursery/pkg/id"
)

type Store struct {
	mu       sync.Mutex
	company  *content.CompanyInfo
	services []content.Service
	projects []content.Project
	clients  []content.Client
	now      func() time.Time

	// Err, when set, is returned by every repository call.
	Err error
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

func (s *Store) Repos() content.Repos {
	return content.Repos{
		Company:  companyRepo{s},
		Services: serviceRepo{s},
		Projects: projectRepo{s},
		Clients:  clientRepo{s},
	}
}

func (s *Store) SetCompany(c content.CompanyInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = id.New()
	}
	s.company = &c
}

func (s *Store) AddService(svc content.Service) content.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	if svc.ID == "" {
		svc.ID = id.New()
	}
	s.services = append(s.services, svc)
	return svc
}

func (s *Store) AddProject(p content.Project) content.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = id.New()
	}
	s.projects = append(s.projects, p)
	return p
}

func (s *Store) AddClient(c content.Client) content.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = id.New()
	}
	s.clients = append(s.clients, c)
	return c
}

func containsFold(haystack, needle string) bool {
	return needle == "" || strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

type companyRepo struct{ s *Store }

func (r companyRepo) Get(ctx context.Context) (*content.CompanyInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if r.s.company == nil {
		return nil, content.ErrNotFound
	}
	c := *r.s.company
	return &c, nil
}

type serviceRepo struct{ s *Store }

func (r serviceRepo) List(ctx context.Context) ([]content.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return append([]content.Service{}, r.s.services...), nil
}

func (r serviceRepo) GetByID(ctx context.Context, rawID string) (*content.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, svc := range r.s.services {
		if svc.ID.String() == rawID {
			out := svc
			return &out, nil
		}
	}
	return nil, content.ErrNotFound
}

func (r serviceRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.services), r.s.Err
}

type projectRepo struct{ s *Store }

func (r projectRepo) List(ctx context.Context, category string) ([]content.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]content.Project, 0, len(r.s.projects))
	for _, p := range r.s.projects {
		if containsFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r projectRepo) GetByID(ctx context.Context, rawID string) (*content.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, p := range r.s.projects {
		if p.ID.String() == rawID {
			out := p
			return &out, nil
		}
	}
	return nil, content.ErrNotFound
}

func (r projectRepo) Create(ctx context.Context, dto *content.ProjectDTO) (*content.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	now := r.s.now().UTC()
	p := content.Project{
		ID:           id.New(),
		Name:         dto.Name,
		Location:     dto.Location,
		Description:  dto.Description,
		Image:        dto.Image,
		Category:     dto.Category,
		PlantSpecies: content.StringList(dto.PlantSpecies),
		Featured:     dto.Featured,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.s.projects = append(r.s.projects, p)
	return &p, nil
}

func (r projectRepo) Update(ctx context.Context, rawID string, dto *content.ProjectDTO) (*content.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for i, p := range r.s.projects {
		if p.ID.String() != rawID {
			continue
		}
		p.Name = dto.Name
		p.Location = dto.Location
		p.Description = dto.Description
		p.Image = dto.Image
		p.Category = dto.Category
		p.PlantSpecies = content.StringList(dto.PlantSpecies)
		p.Featured = dto.Featured
		p.UpdatedAt = r.s.now().UTC()
		r.s.projects[i] = p
		return &p, nil
	}
	return nil, content.ErrNotFound
}

func (r projectRepo) Categories(ctx context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, p := range r.s.projects {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r projectRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.projects), r.s.Err
}

type clientRepo struct{ s *Store }

func (r clientRepo) List(ctx context.Context, clientType string) ([]content.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]content.Client, 0, len(r.s.clients))
	for _, c := range r.s.clients {
		if containsFold(c.Type, clientType) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r clientRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.clients), r.s.Err
}
