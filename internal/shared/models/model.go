// Package models содержит плоские модели HTTP API, которыми пользуется CLI-клиент.
//
// Формат совпадает с JSON, который отдаёт сервер: пользователи и проекты
// передаются как есть, без обёрток.
package models

// User — пользователь в ответах сервера.
type User struct {
	ID         int64   `json:"id"`
	Nickname   string  `json:"nickname"`
	Fullname   string  `json:"fullname"`
	Class      float64 `json:"class"`
	Speciality *string `json:"speciality"`
	Email      string  `json:"email"`
}

// Task — задача проекта, сервер хранит её как произвольный JSON-объект.
type Task map[string]any

// Project — проект в ответах сервера.
type Project struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Body       string  `json:"body"`
	Underbody  string  `json:"underbody"`
	Tasks      []Task  `json:"tasks"`
	AuthorsIDs []int64 `json:"authors_ids"`
}

// CreateUserRequest — запрос на создание пользователя.
//
// Используется в:
//
//	POST /users
type CreateUserRequest struct {
	Nickname   string  `json:"nickname"`
	Fullname   string  `json:"fullname"`
	Class      float64 `json:"class"`
	Speciality *string `json:"speciality,omitempty"`
	Email      string  `json:"email"`
}

// CreateProjectRequest — запрос на создание проекта.
//
// Используется в:
//
//	POST /projects
type CreateProjectRequest struct {
	Title      string  `json:"title"`
	Body       string  `json:"body"`
	Underbody  string  `json:"underbody,omitempty"`
	Tasks      []Task  `json:"tasks,omitempty"`
	AuthorsIDs []int64 `json:"authors_ids"`
}

// UpdateProjectRequest — частичное обновление проекта.
//
// Передаются только заданные поля. AuthorsIDs и AuthorID вместе сервер не примет.
type UpdateProjectRequest struct {
	Title      *string  `json:"title,omitempty"`
	Body       *string  `json:"body,omitempty"`
	Underbody  *string  `json:"underbody,omitempty"`
	Tasks      *[]Task  `json:"tasks,omitempty"`
	AuthorsIDs *[]int64 `json:"authors_ids,omitempty"`
	AuthorID   *int64   `json:"author_id,omitempty"`
}

// DeletedResponse — ответ массового удаления.
type DeletedResponse struct {
	Deleted int64 `json:"deleted"`
}

// ErrorResponse — тело ошибки сервера.
type ErrorResponse struct {
	Error string `json:"error"`
}
