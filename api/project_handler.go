package api

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aliraza-a/portfolio-backend/auth"
	"github.com/aliraza-a/portfolio-backend/database"
	"github.com/aliraza-a/portfolio-backend/errs"
	"github.com/aliraza-a/portfolio-backend/models"
	"github.com/aliraza-a/portfolio-backend/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	gate        *auth.Gate
	blobs       *storage.Client
}

func newProjectHandler(projectRepo *database.ProjectRepo, gate *auth.Gate, blobs *storage.Client) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		gate:        gate,
		blobs:       blobs,
	}
}

// projectRequest is the submitted form of a project. Order is declared as any
// because the admin form has historically sent it as either a number or a
// string; parseOrder normalizes it.
type projectRequest struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Description     string   `json:"description"`
	LongDescription string   `json:"longDescription"`
	Category        string   `json:"category"`
	Technologies    []string `json:"technologies"`
	Thumbnail       string   `json:"thumbnail"`
	Images          []string `json:"images"`
	LiveURL         string   `json:"liveUrl"`
	GithubURL       string   `json:"githubUrl"`
	Featured        bool     `json:"featured"`
	Status          string   `json:"status"`
	Order           any      `json:"order"`
}

var nonAlphanumRuns = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a URL-safe slug from a title: lowercase, non-alphanumeric
// runs collapsed to single hyphens, leading/trailing hyphens stripped.
func slugify(title string) string {
	slug := nonAlphanumRuns.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// uniqueSlugSuffix returns a short time-derived token used to disambiguate
// colliding slugs.
func uniqueSlugSuffix() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36)
}

// parseOrder coerces the submitted sort key to a non-negative integer.
// Malformed or negative input becomes 0.
func parseOrder(v any) int {
	var order int
	switch val := v.(type) {
	case float64:
		order = int(val)
	case int:
		order = val
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0
		}
		order = parsed
	case json.Number:
		parsed, err := val.Int64()
		if err != nil {
			return 0
		}
		order = int(parsed)
	default:
		return 0
	}

	if order < 0 {
		return 0
	}
	return order
}

// optionalText trims s and returns nil for the empty string.
func optionalText(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// normalizeProject maps a submitted project onto a model, applying the
// normalization rules: fields trimmed, category defaulted to "Other", status
// defaulted to DRAFT, arrays never nil, order coerced to a non-negative int.
// The slug is taken verbatim (trimmed); callers decide how it is derived.
func normalizeProject(req projectRequest, slug string) models.Project {
	technologies := make([]string, 0, len(req.Technologies))
	for _, t := range req.Technologies {
		technologies = append(technologies, strings.TrimSpace(t))
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}

	category := req.Category
	if category == "" {
		category = "Other"
	}

	status := req.Status
	if !models.ValidProjectStatus(status) {
		status = models.ProjectStatusDraft
	}

	return models.Project{
		Title:           strings.TrimSpace(req.Title),
		Slug:            strings.TrimSpace(slug),
		Description:     strings.TrimSpace(req.Description),
		LongDescription: optionalText(req.LongDescription),
		Category:        category,
		Technologies:    datatypes.NewJSONSlice(technologies),
		Thumbnail:       req.Thumbnail,
		Images:          datatypes.NewJSONSlice(images),
		LiveURL:         optionalText(req.LiveURL),
		GithubURL:       optionalText(req.GithubURL),
		Featured:        req.Featured,
		Order:           parseOrder(req.Order),
		Status:          status,
	}
}

// removedImageURLs returns every URL referenced by existing but absent from
// updated: a replaced thumbnail and any gallery image dropped from the list.
func removedImageURLs(existing, updated models.Project) []string {
	var removed []string

	if existing.Thumbnail != "" && existing.Thumbnail != updated.Thumbnail {
		removed = append(removed, existing.Thumbnail)
	}

	kept := make(map[string]bool, len(updated.Images))
	for _, img := range updated.Images {
		kept[img] = true
	}
	for _, img := range existing.Images {
		if img != "" && !kept[img] {
			removed = append(removed, img)
		}
	}
	return removed
}

// deleteBlobs issues one independent deletion attempt per URL. Failures are
// logged and discarded; blob cleanup never fails the surrounding operation.
func (h projectHandler) deleteBlobs(ctx context.Context, urls []string) {
	if h.blobs == nil || len(urls) == 0 {
		return
	}

	var g errgroup.Group
	for _, url := range urls {
		url := url
		g.Go(func() error {
			if err := h.blobs.Delete(ctx, url); err != nil {
				h.logger.Error().Err(err).Str("url", url).Msg("Failed to delete image from object storage")
			}
			return nil
		})
	}
	g.Wait()
}

// listProjects returns all projects. The public view is limited to PUBLISHED
// records; admin=true returns every status and requires a valid session.
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminView := r.URL.Query().Get("admin") == "true"

		if adminView && sessionIdentity(r, h.gate) == "" {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		projects, err := h.projectRepo.FindAll(!adminView)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find projects", "projects", err))
			return
		}

		if projects == nil {
			projects = []*models.Project{}
		}
		h.responder.WriteJSON(w, projects)
	}
}

// getProject retrieves a specific project by ID
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		project, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project. The slug is derived from the title
// when not supplied; a collision never fails the request, it is disambiguated
// with a time-derived suffix instead.
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req projectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" || req.Thumbnail == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("title, description, and thumbnail are required"))
			return
		}

		slug := strings.TrimSpace(req.Slug)
		if slug == "" {
			slug = slugify(req.Title)
		}

		existing, err := h.projectRepo.FindBySlug(slug)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project by slug", "project", err))
			return
		}
		if existing != nil {
			slug = slug + "-" + uniqueSlugSuffix()
		}

		project := normalizeProject(req, slug)
		project.ID = uuid.New()

		if err := h.projectRepo.Add(&project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create project", "project", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, project)
	}
}

// updateProject replaces an existing project with the submitted document.
// Image URLs dropped by the update are removed from the object store on a
// best-effort basis before the record is written.
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		existing, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		var req projectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		project := normalizeProject(req, req.Slug)
		project.ID = existing.ID
		project.CreatedAt = existing.CreatedAt

		h.deleteBlobs(r.Context(), removedImageURLs(*existing, project))

		if err := h.projectRepo.Update(&project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update project", "project", err))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// deleteProject removes a project and issues a best-effort deletion for its
// thumbnail and every gallery image. The record is deleted regardless of how
// the blob cleanup fares.
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		project, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		h.deleteBlobs(r.Context(), project.AllImageURLs())

		if err := h.projectRepo.Delete(projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete project", "project", err))
			return
		}

		h.responder.WriteJSON(w, successResponse{Success: true})
	}
}
