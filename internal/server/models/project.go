package models

// Task — произвольная запись задачи проекта.
//
// Обычно содержит ключи title, status, body, timeline, но сервер
// структуру не проверяет и хранит как есть (jsonb).
type Task map[string]any

// Project — проект с упорядоченным списком авторов.
//
// AuthorsIDs — список ID пользователей. Порядок сохраняется,
// но для проверки членства список рассматривается как множество.
type Project struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Body       string  `json:"body"`
	Underbody  string  `json:"underbody"`
	Tasks      []Task  `json:"tasks"`
	AuthorsIDs []int64 `json:"authors_ids"`
}

// HasAuthor сообщает, есть ли userID среди авторов проекта.
func (p Project) HasAuthor(userID int64) bool {
	return ContainsAuthor(p.AuthorsIDs, userID)
}
