package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/models"
	smodels "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/errors"
)

// CreateProjectRequest тело запроса создания проекта.
//
// Tasks хранятся как есть, сервер их структуру не проверяет.
type CreateProjectRequest struct {
	Title      string        `json:"title" validate:"required"`
	Body       string        `json:"body" validate:"required"`
	Underbody  string        `json:"underbody"`
	Tasks      []models.Task `json:"tasks"`
	AuthorsIDs []int64       `json:"authors_ids" validate:"required,min=1"`
}

// CreateProject создаёт проект. Все авторы должны существовать.
//
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body CreateProjectRequest true "Create project request"
// @Success      201 {object} models.Project
// @Failure      400 {object} ErrorResponse "Invalid input or bad JSON"
// @Failure      404 {object} ErrorResponse "Author not found"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /projects [post]
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	p, err := h.Svc.Projects.Create(r.Context(), models.Project{
		Title:      req.Title,
		Body:       req.Body,
		Underbody:  req.Underbody,
		Tasks:      req.Tasks,
		AuthorsIDs: req.AuthorsIDs,
	})
	if err != nil {
		h.writeServiceError(w, r, "create project", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ListProjects возвращает все проекты или проекты одного автора (?author_id=).
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Param        author_id query int false "Only projects with this author"
// @Success      200 {array} models.Project
// @Failure      400 {object} ErrorResponse "Bad author_id"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /projects [get]
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	var authorID *int64
	if raw := r.URL.Query().Get("author_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Errorf("%w: author_id must be an integer", serr.ErrInvalidInput))
			return
		}
		authorID = &id
	}

	projects, err := h.Svc.Projects.List(r.Context(), authorID)
	if err != nil {
		h.writeServiceError(w, r, "list projects", err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// GetProject godoc
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Param        id path int true "Project ID"
// @Success      200 {object} models.Project
// @Failure      400 {object} ErrorResponse "Bad id"
// @Failure      404 {object} ErrorResponse "Project not found"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /projects/{id} [get]
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	p, err := h.Svc.Projects.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "get project", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProject частично обновляет проект.
//
// authors_ids заменяет список авторов целиком, author_id добавляет одного.
// Передавать оба поля сразу нельзя. При ошибке проверки авторов проект не меняется.
//
// @Summary      Update project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path int true "Project ID"
// @Param        request body smodels.UpdateProjectRequest true "Fields to change"
// @Success      200 {object} models.Project
// @Failure      400 {object} ErrorResponse "Invalid input or bad JSON"
// @Failure      404 {object} ErrorResponse "Project or author not found"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /projects/{id} [put]
// @Router       /projects/{id} [patch]
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	var req smodels.UpdateProjectRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	p, err := h.Svc.Projects.Update(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, "update project", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProject godoc
// @Summary      Delete project
// @Tags         projects
// @Param        id path int true "Project ID"
// @Success      204 "Deleted"
// @Failure      400 {object} ErrorResponse "Bad id"
// @Failure      404 {object} ErrorResponse "Project not found"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /projects/{id} [delete]
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Svc.Projects.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "delete project", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAllProjects godoc
// @Summary      Delete all projects
// @Tags         projects
// @Produce      json
// @Success      200 {object} DeletedResponse
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /projects [delete]
func (h *Handler) DeleteAllProjects(w http.ResponseWriter, r *http.Request) {
	n, err := h.Svc.Projects.DeleteAll(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "delete all projects", err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Deleted: n})
}

// SearchProjects ищет проекты по подстроке в title. Пустой q даёт пустой список.
//
// @Summary      Search projects
// @Tags         projects
// @Produce      json
// @Param        q query string false "Substring of title"
// @Success      200 {array} models.Project
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /search [get]
func (h *Handler) SearchProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Svc.Projects.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeServiceError(w, r, "search projects", err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}
