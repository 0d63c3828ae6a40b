// Package apply реализует HTTP-обработчик подачи заявки на верификацию автора.
//
// Подача допускается из статусов not_applied и rejected. Незавершённая
// или одобренная заявка блокирует повторную подачу.
package apply

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/learnhub-access/internal/http/middlewarectx"
	"github.com/magabrotheeeer/learnhub-access/internal/http/response"
	"github.com/magabrotheeeer/learnhub-access/internal/lib/sl"
	verificationservice "github.com/magabrotheeeer/learnhub-access/internal/services/verification"
)

// Request — структура входных данных заявки на верификацию.
// Тело запроса необязательно: заявка может подаваться без сопроводительных
// материалов.
type Request struct {
	Notes string `json:"notes" validate:"omitempty,max=2000"`
}

// Handler обрабатывает HTTP-запросы подачи заявки.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики верификации
	validate *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс подачи заявки.
type Service interface {
	Apply(ctx context.Context, userUID, notes string) (string, error)
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
// @Summary Заявка на верификацию
// @Description Подаёт заявку на статус верифицированного автора. Повторная подача допускается только после отклонения.
// @Tags Verification
// @Accept  json
// @Produce  json
// @Param request body Request false "Сопроводительные материалы"
// @Success 200 {object} map[string]any "Заявка подана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 409 {object} response.ErrorResponse "Заявка уже на рассмотрении или одобрена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /verification/apply [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.verification.apply"
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
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
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

	id, err := h.service.Apply(r.Context(), userUID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, verificationservice.ErrAlreadyUnderReview):
			log.Error("application already under review")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("application already under review"))
		case errors.Is(err, verificationservice.ErrAlreadyApproved):
			log.Error("application already approved")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("application already approved"))
		default:
			log.Error("failed to submit application", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not submit application"))
		}
		return
	}

	log.Info("verification application submitted", slog.String("application_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{"application_id": id}))
}
