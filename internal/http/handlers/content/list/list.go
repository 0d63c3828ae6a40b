// Package list реализует HTTP-обработчик публичного каталога контента.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/learnhub-access/internal/http/response"
	"github.com/magabrotheeeer/learnhub-access/internal/lib/sl"
	"github.com/magabrotheeeer/learnhub-access/internal/models"
)

// Handler обрабатывает HTTP-запросы каталога контента.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики контента
}

// Service описывает интерфейс чтения каталога.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]*models.ContentItem, error)
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Каталог контента
// @Description Возвращает страницу публичного контента, новые записи первыми.
// @Tags Content
// @Produce  json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Страница каталога"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /content [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	items, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list content", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list content"))
		return
	}

	cards := make([]models.ContentCard, 0, len(items))
	for _, item := range items {
		cards = append(cards, item.Card())
	}

	log.Info("content listed", slog.Int("count", len(cards)))
	render.JSON(w, r, response.OKWithData(map[string]any{"items": cards}))
}
