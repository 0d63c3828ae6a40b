// Package read реализует HTTP-обработчик карточки контента.
//
// Маршрут открыт и для анонимных запросов: уровень доступа в ответе
// зависит от наличия и роли пользователя в контексте запроса.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/learnhub-access/internal/http/middlewarectx"
	"github.com/magabrotheeeer/learnhub-access/internal/http/response"
	"github.com/magabrotheeeer/learnhub-access/internal/lib/sl"
	"github.com/magabrotheeeer/learnhub-access/internal/models"
	accessservice "github.com/magabrotheeeer/learnhub-access/internal/services/access"
)

// Handler обрабатывает HTTP-запросы карточки контента.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики доступа
}

// Service описывает интерфейс чтения карточки контента.
type Service interface {
	GetContentView(ctx context.Context, viewer *models.User, contentID string) (*models.ContentView, string, error)
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Карточка контента
// @Description Возвращает карточку контента, счётчики реакций и уровень доступа текущего пользователя.
// @Tags Content
// @Produce  json
// @Param id path string true "ID контента"
// @Success 200 {object} map[string]any "Карточка контента с уровнем доступа"
// @Failure 404 {object} response.ErrorResponse "Контент не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /content/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	contentID := chi.URLParam(r, "id")
	if contentID == "" {
		log.Error("content id missing in path")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("content id is required"))
		return
	}

	viewer := viewerFromContext(r.Context())

	view, tier, err := h.service.GetContentView(r.Context(), viewer, contentID)
	if err != nil {
		if errors.Is(err, accessservice.ErrContentNotFound) {
			log.Error("content not found", slog.String("content_id", contentID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("content not found"))
			return
		}
		log.Error("failed to read content", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read content"))
		return
	}

	log.Info("content read",
		slog.String("content_id", contentID), slog.String("tier", tier))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"content": view,
		"tier":    tier,
	}))
}

// viewerFromContext восстанавливает пользователя из значений контекста,
// добавленных OptionalJWTMiddleware. Для анонимного запроса возвращает nil.
func viewerFromContext(ctx context.Context) *models.User {
	uid, ok := ctx.Value(middlewarectx.UserUID).(string)
	if !ok || uid == "" {
		return nil
	}
	username, _ := ctx.Value(middlewarectx.User).(string)
	role, _ := ctx.Value(middlewarectx.Role).(string)
	return &models.User{
		UID:      uid,
		Username: username,
		Role:     role,
	}
}
