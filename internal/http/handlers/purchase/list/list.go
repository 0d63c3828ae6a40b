// Package list реализует HTTP-обработчик списка купленного контента.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/learnhub-access/internal/http/middlewarectx"
	"github.com/magabrotheeeer/learnhub-access/internal/http/response"
	"github.com/magabrotheeeer/learnhub-access/internal/lib/sl"
	"github.com/magabrotheeeer/learnhub-access/internal/models"
)

// Handler обрабатывает HTTP-запросы списка покупок.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики доступа
}

// Service описывает интерфейс чтения купленного контента.
type Service interface {
	ListPurchased(ctx context.Context, userUID string) ([]*models.PurchasedItem, error)
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список купленного контента
// @Description Возвращает купленный пользователем контент, упорядоченный по моменту покупки.
// @Tags Access
// @Produce  json
// @Success 200 {object} map[string]any "Список покупок"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /purchased-items [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.list"
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

	items, err := h.service.ListPurchased(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list purchased items", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list purchased items"))
		return
	}
	if items == nil {
		items = []*models.PurchasedItem{}
	}

	log.Info("purchased items listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{"items": items}))
}
