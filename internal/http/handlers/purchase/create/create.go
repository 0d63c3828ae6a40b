// Package create реализует HTTP-обработчик подтверждения покупки контента.
//
// Покупка неизменяема: повторная покупка того же контента отклоняется,
// бесплатный контент и собственный контент автора купить нельзя.
package create

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
	accessservice "github.com/magabrotheeeer/learnhub-access/internal/services/access"
)

// Handler обрабатывает HTTP-запросы подтверждения покупки.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики доступа
}

// Service описывает интерфейс подтверждения покупки.
type Service interface {
	Purchase(ctx context.Context, userUID, contentID string) (string, error)
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Покупка контента
// @Description Подтверждает покупку платного контента текущим пользователем.
// @Tags Access
// @Produce  json
// @Param contentId path string true "ID контента"
// @Success 200 {object} map[string]any "Покупка подтверждена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 404 {object} response.ErrorResponse "Контент не найден"
// @Failure 409 {object} response.ErrorResponse "Контент уже куплен или принадлежит пользователю"
// @Failure 422 {object} response.ErrorResponse "Бесплатный контент не покупается"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /purchase/{contentId} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.create"
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

	contentID := chi.URLParam(r, "contentId")
	if contentID == "" {
		log.Error("content id missing in path")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("content id is required"))
		return
	}

	purchaseID, err := h.service.Purchase(r.Context(), userUID, contentID)
	if err != nil {
		switch {
		case errors.Is(err, accessservice.ErrContentNotFound):
			log.Error("content not found", slog.String("content_id", contentID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("content not found"))
		case errors.Is(err, accessservice.ErrFreeContent):
			log.Error("attempt to purchase free content", slog.String("content_id", contentID))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("free content cannot be purchased"))
		case errors.Is(err, accessservice.ErrAlreadyOwned):
			log.Error("attempt to purchase own content", slog.String("content_id", contentID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("content already owned"))
		case errors.Is(err, accessservice.ErrAlreadyPurchased):
			log.Error("content already purchased", slog.String("content_id", contentID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("content already purchased"))
		default:
			log.Error("failed to create purchase", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create purchase"))
		}
		return
	}

	log.Info("purchase created",
		slog.String("purchase_id", purchaseID), slog.String("content_id", contentID))
	render.JSON(w, r, response.OKWithData(map[string]any{"purchase_id": purchaseID}))
}
