// Package check реализует HTTP-обработчик для проверки действующей сессии пользователя.
//
// Обработчик вызывается с необязательным токеном: при валидном токене возвращаются
// публичные данные пользователя, при отсутствии или недействительности токена —
// успешный ответ с пустым пользователем. Клиент трактует такой ответ как
// авторитетную команду сбросить локальную сессию, поэтому отказ
// инфраструктуры отдаётся как 500, а не как пустой пользователь.
package check

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/learnhub-access/internal/http/response"
	"github.com/magabrotheeeer/learnhub-access/internal/lib/sl"
	"github.com/magabrotheeeer/learnhub-access/internal/models"
	authservice "github.com/magabrotheeeer/learnhub-access/internal/services/auth"
)

// Handler обрабатывает HTTP-запросы проверки сессии.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики аутентификации
}

// Service описывает интерфейс проверки токена.
type Service interface {
	Check(ctx context.Context, token string) (*models.User, error)
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Проверка сессии
// @Description Возвращает актуальные данные пользователя по токену. Если токен отсутствует или отозван, возвращает user: null.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Данные пользователя или null"
// @Security BearerAuth
// @Router /auth/check [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.check"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		log.Info("no token provided")
		render.JSON(w, r, response.OKWithData(map[string]any{"user": nil}))
		return
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	user, err := h.service.Check(r.Context(), tokenStr)
	if err != nil {
		// user: null — авторитетная команда сбросить сессию, поэтому
		// так отвечаем только на недействительный токен. Отказ
		// хранилища отдаём как 500: клиент сохранит кэш.
		if errors.Is(err, authservice.ErrInvalidToken) {
			log.Info("session is not active", sl.Err(err))
			render.JSON(w, r, response.OKWithData(map[string]any{"user": nil}))
			return
		}
		log.Error("failed to check session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check session"))
		return
	}

	log.Info("session is active", slog.String("username", user.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{"user": user.Public()}))
}
