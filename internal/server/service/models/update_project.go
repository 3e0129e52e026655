package models

import serverModels "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/models"

// UpdateProjectRequest — частичное обновление проекта.
//
// nil-поле означает «не менять». AuthorsIDs (полная замена списка) и
// AuthorID (добавить одного автора) взаимоисключающие.
type UpdateProjectRequest struct {
	Title      *string              `json:"title,omitempty" validate:"omitempty,min=1"`
	Body       *string              `json:"body,omitempty" validate:"omitempty,min=1"`
	Underbody  *string              `json:"underbody,omitempty"`
	Tasks      *[]serverModels.Task `json:"tasks,omitempty"`
	AuthorsIDs *[]int64             `json:"authors_ids,omitempty"`
	AuthorID   *int64               `json:"author_id,omitempty"`
}
