// Package toggle реализует HTTP-обработчик переключения реакции на контент.
//
// Один обработчик обслуживает оба маршрута: экземпляр создаётся с целевым
// действием (liked или disliked) и регистрируется на /content/{id}/like
// и /content/{id}/dislike соответственно. Ответ содержит серверные счётчики,
// которые клиент применяет вместо локальных значений.
package toggle

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
	engagementservice "github.com/magabrotheeeer/learnhub-access/internal/services/engagement"
)

// Handler обрабатывает HTTP-запросы переключения реакции.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики реакций
	action  string       // Целевое действие маршрута: liked или disliked
}

// Service описывает интерфейс переключения реакции.
type Service interface {
	Toggle(ctx context.Context, userUID, contentID, action string) (*models.ToggleResult, error)
}

// New создает новый экземпляр Handler для указанного действия.
func New(log *slog.Logger, service Service, action string) *Handler {
	return &Handler{log: log, service: service, action: action}
}

// ServeHTTP godoc
// @Summary Переключение реакции
// @Description Ставит или снимает лайк/дизлайк. Установка одной реакции снимает другую. Возвращает пересчитанные счётчики.
// @Tags Engagement
// @Produce  json
// @Param id path string true "ID контента"
// @Success 200 {object} models.ToggleResult "Новое состояние реакции"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 404 {object} response.ErrorResponse "Контент не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /content/{id}/like [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.engagement.toggle"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("action", h.action),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	contentID := chi.URLParam(r, "id")
	if contentID == "" {
		log.Error("content id missing in path")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("content id is required"))
		return
	}

	result, err := h.service.Toggle(r.Context(), userUID, contentID, h.action)
	if err != nil {
		if errors.Is(err, engagementservice.ErrContentNotFound) {
			log.Error("content not found", slog.String("content_id", contentID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("content not found"))
			return
		}
		log.Error("failed to toggle engagement", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not toggle engagement"))
		return
	}

	log.Info("engagement toggled",
		slog.String("content_id", contentID),
		slog.String("user_action", result.UserAction))
	render.JSON(w, r, response.OKWithData(result))
}
