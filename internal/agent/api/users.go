// В этом файле описаны методы клиента для эндпоинтов /users.
package api

import (
	"fmt"
	"net/url"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/models"
)

// CreateUser создаёт пользователя.
//
//	POST /users
func (c *Client) CreateUser(req models.CreateUserRequest) (models.User, error) {
	var resp models.User
	err := c.PostJSON("/users", req, &resp)
	return resp, err
}

// SearchUsers ищет пользователей по строке q. Пустая q — все пользователи.
//
//	GET /users?q=...
func (c *Client) SearchUsers(q string) ([]models.User, error) {
	path := "/users"
	if q != "" {
		path += "?q=" + url.QueryEscape(q)
	}
	resp := []models.User{}
	err := c.GetJSON(path, &resp)
	return resp, err
}

// GetUser возвращает пользователя по ID.
//
//	GET /users/{id}
func (c *Client) GetUser(id int64) (models.User, error) {
	var resp models.User
	err := c.GetJSON(fmt.Sprintf("/users/%d", id), &resp)
	return resp, err
}

// DeleteUser удаляет пользователя. Сервер убирает его из авторов всех проектов.
//
//	DELETE /users/{id}
func (c *Client) DeleteUser(id int64) error {
	return c.DeleteJSON(fmt.Sprintf("/users/%d", id), nil)
}

// DeleteAllUsers удаляет всех пользователей и возвращает их количество.
//
//	DELETE /users
func (c *Client) DeleteAllUsers() (int64, error) {
	var resp models.DeletedResponse
	err := c.DeleteJSON("/users", &resp)
	return resp.Deleted, err
}
