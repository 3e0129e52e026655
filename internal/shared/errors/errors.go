// Package errors содержит общие доменные ошибки приложения
// и утилиты для error wrapping.
//
// Эти ошибки используются в service и repository слоях
// и маппятся на HTTP-статусы в api слое.
package errors

import (
	"errors"
	"fmt"
)

var (
	// Входные данные невалидны (пустые поля, неправильный формат и т.п.)
	ErrInvalidInput = errors.New("invalid input")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("internal error")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
	// Ресурс уже существует (например nickname уже занят)
	ErrAlreadyExists = errors.New("already exists")
	// Ресурс не найден
	ErrNotFound = errors.New("not found")
	// ожидаемая ошибка
	ErrExpectedError = errors.New("expected error")
	// неожидаемая ошибка
	ErrUnexpectedError = errors.New("unexpected error")
)

// для связи проектов и пользователей
var (
	// одновременно переданы authors_ids и author_id
	ErrAuthorsModeConflict = fmt.Errorf("%w: authors_ids and author_id are mutually exclusive", ErrInvalidInput)
	// у проекта должен быть хотя бы один автор
	ErrAuthorsEmpty = fmt.Errorf("%w: authors_ids cannot be empty", ErrInvalidInput)
)

// UserNotFound оборачивает ErrNotFound идентификатором пользователя.
func UserNotFound(id int64) error {
	return fmt.Errorf("%w: user %d", ErrNotFound, id)
}

// ProjectNotFound оборачивает ErrNotFound идентификатором проекта.
func ProjectNotFound(id int64) error {
	return fmt.Errorf("%w: project %d", ErrNotFound, id)
}

// AuthorNotFound возвращается на первой несуществующей ссылке в списке авторов.
// Остальные идентификаторы списка не проверяются и не перечисляются.
func AuthorNotFound(id int64) error {
	return fmt.Errorf("%w: author %d", ErrNotFound, id)
}
