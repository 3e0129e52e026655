package service

import (
	"context"
	"errors"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/errors"
)

// Правила согласованности users <-> projects.
//
// Порядок блокировок везде одинаковый: сначала строки users, потом projects.
// Так удаление пользователя и обновление проекта не ловят deadlock друг на друге.

// ensureAuthorsExist проверяет авторов по порядку и останавливается на первом
// несуществующем. Вызывать внутри транзакции: FOR SHARE держит пользователей
// до commit, и параллельный DELETE не успеет удалить проверенного автора.
func ensureAuthorsExist(ctx context.Context, users UsersRepo, ids []int64) error {
	for _, id := range ids {
		if err := users.LockShared(ctx, id); err != nil {
			if errors.Is(err, serr.ErrNotFound) {
				return serr.AuthorNotFound(id)
			}
			return err
		}
	}
	return nil
}

// detachAuthor убирает userID из списков авторов всех проектов,
// сохраняя порядок остальных авторов.
func detachAuthor(ctx context.Context, projects ProjectsRepo, userID int64) error {
	list, err := projects.ListByAuthorForUpdate(ctx, userID)
	if err != nil {
		return err
	}
	for _, p := range list {
		if err := projects.SetAuthors(ctx, p.ID, models.RemoveAuthor(p.AuthorsIDs, userID)); err != nil {
			return err
		}
	}
	return nil
}
