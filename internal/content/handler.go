package content

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/mehmetcc/nursery/internal/httpx"
	"go.uber.org/zap"
)

type Repos struct {
	Company  CompanyRepo
	Services ServiceRepo
	Projects ProjectRepo
	Clients  ClientRepo
}

type ContentHandler interface {
	Register(r chi.Router)
	Routes() chi.Router
}

type contentHandler struct {
	logger       *zap.Logger
	repos        Repos
	requireAdmin func(http.Handler) http.Handler
	validator    *validator.Validate
}

// NewContentHandler wires the public read routes and the project writes,
// which are wrapped by requireAdmin.
func NewContentHandler(repos Repos, requireAdmin func(http.Handler) http.Handler, l *zap.Logger) ContentHandler {
	return &contentHandler{
		logger:       l,
		repos:        repos,
		requireAdmin: requireAdmin,
		validator:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *contentHandler) Register(r chi.Router) {
	r.Get("/company", h.GetCompany)
	r.Get("/services", h.ListServices)
	r.Get("/services/{id}", h.GetService)
	r.Get("/projects", h.ListProjects)
	r.Get("/projects/{id}", h.GetProject)
	r.Get("/clients", h.ListClients)
	r.Get("/categories", h.ListCategories)
	r.Get("/stats", h.GetStats)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAdmin)
		r.Post("/projects", h.CreateProject)
		r.Put("/projects/{id}", h.UpdateProject)
	})
}

func (h *contentHandler) Routes() chi.Router {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func (h *contentHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	info, err := h.repos.Company.Get(r.Context())
	if err != nil {
		h.writeRepoError(w, err, "Company info not found")
		return
	}
	httpx.WriteData(w, http.StatusOK, info)
}

func (h *contentHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.repos.Services.List(r.Context())
	if err != nil {
		h.writeRepoError(w, err, "")
		return
	}
	httpx.WriteData(w, http.StatusOK, services)
}

func (h *contentHandler) GetService(w http.ResponseWriter, r *http.Request) {
	svc, err := h.repos.Services.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeRepoError(w, err, "Service not found")
		return
	}
	httpx.WriteData(w, http.StatusOK, svc)
}

func (h *contentHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	projects, err := h.repos.Projects.List(r.Context(), category)
	if err != nil {
		h.writeRepoError(w, err, "")
		return
	}
	httpx.WriteData(w, http.StatusOK, projects)
}

func (h *contentHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.repos.Projects.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeRepoError(w, err, "Project not found")
		return
	}
	httpx.WriteData(w, http.StatusOK, project)
}

func (h *contentHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	dto, ok := h.decodeProject(w, r)
	if !ok {
		return
	}

	project, err := h.repos.Projects.Create(ctx, dto)
	if err != nil {
		h.writeRepoError(w, err, "")
		return
	}
	h.logger.Info("project created", zap.String("id", project.ID.String()))
	httpx.WriteData(w, http.StatusCreated, project)
}

func (h *contentHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	dto, ok := h.decodeProject(w, r)
	if !ok {
		return
	}

	project, err := h.repos.Projects.Update(ctx, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.writeRepoError(w, err, "Project not found")
		return
	}
	h.logger.Info("project updated", zap.String("id", project.ID.String()))
	httpx.WriteData(w, http.StatusOK, project)
}

func (h *contentHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clientType := strings.TrimSpace(r.URL.Query().Get("type"))
	clients, err := h.repos.Clients.List(r.Context(), clientType)
	if err != nil {
		h.writeRepoError(w, err, "")
		return
	}
	httpx.WriteData(w, http.StatusOK, clients)
}

func (h *contentHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repos.Projects.Categories(r.Context())
	if err != nil {
		h.writeRepoError(w, err, "")
		return
	}
	httpx.WriteData(w, http.StatusOK, categories)
}

func (h *contentHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := collectStats(r.Context(), h.repos)
	if err != nil {
		h.writeRepoError(w, err, "")
		return
	}
	httpx.WriteData(w, http.StatusOK, stats)
}

func (h *contentHandler) decodeProject(w http.ResponseWriter, r *http.Request) (*ProjectDTO, bool) {
	var req projectRequest
	if !httpx.DecodeJSON(w, r, &req, h.logger) {
		return nil, false
	}
	req.trim()
	if !httpx.Validate(w, h.validator, &req, h.logger) {
		return nil, false
	}
	return &ProjectDTO{
		Name:         req.Name,
		Location:     req.Location,
		Description:  req.Description,
		Image:        req.Image,
		Category:     req.Category,
		PlantSpecies: req.PlantSpecies,
		Featured:     req.Featured,
	}, true
}

func (h *contentHandler) writeRepoError(w http.ResponseWriter, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, ErrNotFound):
		if notFoundMessage == "" {
			notFoundMessage = "not found"
		}
		httpx.Fail(w, http.StatusNotFound, httpx.ErrNotFound, notFoundMessage)
	default:
		h.logger.Error("content request failed", zap.Error(err))
		httpx.Fail(w, http.StatusInternalServerError, httpx.ErrInternal, "internal server error")
	}
}

type projectRequest struct {
	Name         string   `json:"name"         validate:"required,max=200"`
	Location     string   `json:"location"     validate:"required,max=200"`
	Description  string   `json:"description"  validate:"max=5000"`
	Image        string   `json:"image"        validate:"max=1024"`
	Category     string   `json:"category"     validate:"required,max=100"`
	PlantSpecies []string `json:"plantSpecies" validate:"max=200,dive,max=100"`
	Featured     bool     `json:"featured"`
}

func (p *projectRequest) trim() {
	p.Name = strings.TrimSpace(p.Name)
	p.Location = strings.TrimSpace(p.Location)
	p.Description = strings.TrimSpace(p.Description)
	p.Image = strings.TrimSpace(p.Image)
	p.Category = strings.TrimSpace(p.Category)
}
