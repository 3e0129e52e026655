// В этом файле описаны методы клиента для эндпоинтов /projects и /search.
package api

import (
	"fmt"
	"net/url"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/models"
)

// CreateProject создаёт проект. Все авторы должны существовать.
//
//	POST /projects
func (c *Client) CreateProject(req models.CreateProjectRequest) (models.Project, error) {
	var resp models.Project
	err := c.PostJSON("/projects", req, &resp)
	return resp, err
}

// ListProjects возвращает проекты. authorID != nil — только проекты этого автора.
//
//	GET /projects[?author_id=N]
func (c *Client) ListProjects(authorID *int64) ([]models.Project, error) {
	path := "/projects"
	if authorID != nil {
		path = fmt.Sprintf("/projects?author_id=%d", *authorID)
	}
	resp := []models.Project{}
	err := c.GetJSON(path, &resp)
	return resp, err
}

// GetProject возвращает проект по ID.
//
//	GET /projects/{id}
func (c *Client) GetProject(id int64) (models.Project, error) {
	var resp models.Project
	err := c.GetJSON(fmt.Sprintf("/projects/%d", id), &resp)
	return resp, err
}

// UpdateProject частично обновляет проект и возвращает его новое состояние.
//
//	PATCH /projects/{id}
func (c *Client) UpdateProject(id int64, req models.UpdateProjectRequest) (models.Project, error) {
	var resp models.Project
	err := c.PatchJSON(fmt.Sprintf("/projects/%d", id), req, &resp)
	return resp, err
}

// DeleteProject удаляет проект.
//
//	DELETE /projects/{id}
func (c *Client) DeleteProject(id int64) error {
	return c.DeleteJSON(fmt.Sprintf("/projects/%d", id), nil)
}

// DeleteAllProjects удаляет все проекты и возвращает их количество.
//
//	DELETE /projects
func (c *Client) DeleteAllProjects() (int64, error) {
	var resp models.DeletedResponse
	err := c.DeleteJSON("/projects", &resp)
	return resp.Deleted, err
}

// SearchProjects ищет проекты по подстроке в названии. Пустая q — пустой список.
//
//	GET /search?q=...
func (c *Client) SearchProjects(q string) ([]models.Project, error) {
	resp := []models.Project{}
	err := c.GetJSON("/search?q="+url.QueryEscape(q), &resp)
	return resp, err
}
