// Package create реализует HTTP-обработчик публикации контента.
//
// Маршрут закрыт ролевым middleware: публиковать контент могут только
// верифицированные авторы и администраторы.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/learnhub-access/internal/http/middlewarectx"
	"github.com/magabrotheeeer/learnhub-access/internal/http/response"
	"github.com/magabrotheeeer/learnhub-access/internal/lib/sl"
	contentservice "github.com/magabrotheeeer/learnhub-access/internal/services/content"
)

// Request — структура входных данных для публикации контента.
type Request struct {
	Title      string `json:"title" validate:"required,min=1,max=200"`
	Price      int    `json:"price" validate:"min=0"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=public unlisted"`
}

// Handler обрабатывает HTTP-запросы публикации контента.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики контента
	validate *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс публикации контента.
type Service interface {
	Create(ctx context.Context, ownerUID, title string, price int, visibility string) (string, error)
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Публикация контента
// @Description Сохраняет метаданные нового курса или видео. Доступно только верифицированным авторам.
// @Tags Content
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные контента"
// @Success 200 {object} map[string]any "Контент опубликован"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /content [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.Create(r.Context(), userUID, req.Title, req.Price, req.Visibility)
	if err != nil {
		if errors.Is(err, contentservice.ErrInvalidVisibility) {
			log.Error("invalid visibility", slog.String("visibility", req.Visibility))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("invalid visibility"))
			return
		}
		log.Error("failed to create content", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create content"))
		return
	}

	log.Info("content created", slog.String("content_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{"id": id}))
}
