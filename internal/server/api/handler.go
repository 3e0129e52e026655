// Package api реализует HTTP-слой сервера projecthub.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - валидацию тел запросов (validator);
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/logger"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// ErrorResponse стандартный формат ошибки API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DeletedResponse — ответ массового удаления.
type DeletedResponse struct {
	Deleted int64 `json:"deleted"`
}

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи непредвиденных ошибок;
//   - Validate: проверка тел запросов по struct-тегам.
type Handler struct {
	Svc      *service.Services
	Log      *logger.HTTPLogger
	Validate *validator.Validate
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
// Если log == nil, ошибки не пишутся.
func NewHandler(svc *service.Services, log *logger.HTTPLogger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		Svc:      svc,
		Log:      log,
		Validate: newValidator(),
	}
}

// newValidator возвращает validator, который называет поля по json-тегам.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Вспомогательная функция вывода ошибки
func WriteError(w http.ResponseWriter, status int, err error) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeBody читает JSON и проверяет теги validate.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrBadJSON)
		return false
	}
	if err := h.Validate.Struct(dst); err != nil {
		WriteError(w, http.StatusBadRequest, validationError(err))
		return false
	}
	return true
}

// validationError собирает понятное сообщение из ошибок validator.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return serr.ErrInvalidInput
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", serr.ErrInvalidInput, strings.Join(parts, ", "))
}

// pathID разбирает {id} из пути.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id must be an integer", serr.ErrInvalidInput)
	}
	return id, nil
}

// writeServiceError маппит доменную ошибку на HTTP-статус.
// Непредвиденные ошибки логируются и наружу уходят как internal error.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, serr.ErrInvalidInput), errors.Is(err, serr.ErrBadJSON):
		WriteError(w, http.StatusBadRequest, err)
	case errors.Is(err, serr.ErrNotFound):
		WriteError(w, http.StatusNotFound, err)
	case errors.Is(err, serr.ErrAlreadyExists):
		WriteError(w, http.StatusConflict, err)
	default:
		h.Log.Logger.Sugar().Errorw(
			op+" failed",
			"error", err,
			"request_id", middleware.RequestIDFromContext(r.Context()),
		)
		WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
	}
}
