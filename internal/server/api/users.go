package api

import (
	"net/http"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/models"
)

// CreateUserRequest тело запроса создания пользователя.
type CreateUserRequest struct {
	Nickname   string  `json:"nickname" validate:"required"`
	Fullname   string  `json:"fullname" validate:"required"`
	Class      float64 `json:"class" validate:"gte=0"`
	Speciality *string `json:"speciality,omitempty"`
	Email      string  `json:"email" validate:"required,email"`
}

// CreateUser создаёт пользователя.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "Create user request"
// @Success      201 {object} models.User
// @Failure      400 {object} ErrorResponse "Invalid input or bad JSON"
// @Failure      409 {object} ErrorResponse "Nickname already taken"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /users [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	u, err := h.Svc.Users.Create(r.Context(), models.User{
		Nickname:   req.Nickname,
		Fullname:   req.Fullname,
		Class:      req.Class,
		Speciality: req.Speciality,
		Email:      req.Email,
	})
	if err != nil {
		h.writeServiceError(w, r, "create user", err)
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

// SearchUsers ищет пользователей.
//
// Без q (или с пустым q) возвращает всех. Числовой q совпадает и с ID,
// и с подстрокой nickname/fullname/email.
//
// @Summary      Search users
// @Tags         users
// @Produce      json
// @Param        q query string false "Search query"
// @Success      200 {array} models.User
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /users [get]
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Svc.Users.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeServiceError(w, r, "search users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUser godoc
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} models.User
// @Failure      400 {object} ErrorResponse "Bad id"
// @Failure      404 {object} ErrorResponse "User not found"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /users/{id} [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	u, err := h.Svc.Users.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "get user", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// DeleteUser удаляет пользователя и убирает его из авторов всех проектов.
//
// @Summary      Delete user
// @Tags         users
// @Param        id path int true "User ID"
// @Success      204 "Deleted"
// @Failure      400 {object} ErrorResponse "Bad id"
// @Failure      404 {object} ErrorResponse "User not found"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /users/{id} [delete]
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Svc.Users.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAllUsers удаляет всех пользователей, списки авторов проектов очищаются.
//
// @Summary      Delete all users
// @Tags         users
// @Produce      json
// @Success      200 {object} DeletedResponse
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /users [delete]
func (h *Handler) DeleteAllUsers(w http.ResponseWriter, r *http.Request) {
	n, err := h.Svc.Users.DeleteAll(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "delete all users", err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Deleted: n})
}
