// Package logout реализует HTTP-обработчик выхода пользователя из системы.
//
// Токен из заголовка Authorization помещается в список отозванных, после чего
// все последующие запросы с этим токеном отклоняются. Обработчик идемпотентен:
// повторный выход или выход с невалидным токеном также возвращает успех.
package logout

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/learnhub-access/internal/http/response"
	"github.com/magabrotheeeer/learnhub-access/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы выхода из системы.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики аутентификации
}

// Service описывает интерфейс отзыва токена.
type Service interface {
	Logout(ctx context.Context, token string) error
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выход из системы
// @Description Отзывает текущий токен. Операция идемпотентна.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.OKResponse "Токен отозван"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		log.Info("logout without token")
		render.JSON(w, r, response.OK())
		return
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	if err := h.service.Logout(r.Context(), tokenStr); err != nil {
		log.Error("failed to logout", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not logout"))
		return
	}

	log.Info("user logged out")
	render.JSON(w, r, response.OK())
}
