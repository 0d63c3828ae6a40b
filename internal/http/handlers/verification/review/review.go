// Package review реализует HTTP-обработчик решения по заявке на верификацию.
//
// Маршрут закрыт ролевым middleware: решение принимает только администратор.
// Одобрение переводит роль заявителя в professional_coder.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/learnhub-access/internal/http/response"
	"github.com/magabrotheeeer/learnhub-access/internal/lib/sl"
	"github.com/magabrotheeeer/learnhub-access/internal/models"
	verificationservice "github.com/magabrotheeeer/learnhub-access/internal/services/verification"
)

// Request — структура входных данных решения администратора.
type Request struct {
	Decision    string `json:"decision" validate:"required,oneof=approved rejected"`
	ReviewNotes string `json:"review_notes" validate:"omitempty,max=2000"`
}

// Handler обрабатывает HTTP-запросы решения по заявке.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики верификации
	validate *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс решения по заявке.
type Service interface {
	Review(ctx context.Context, userUID, decision, reviewNotes string) (*models.VerificationApplication, error)
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
// @Summary Решение по заявке на верификацию
// @Description Одобряет или отклоняет заявку пользователя. Доступно только администраторам.
// @Tags Verification
// @Accept  json
// @Produce  json
// @Param userId path string true "UID заявителя"
// @Param request body Request true "Решение администратора"
// @Success 200 {object} models.VerificationView "Решённая заявка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 409 {object} response.ErrorResponse "Нет заявки на рассмотрении"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /verification/{userId}/review [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.verification.review"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "userId")
	if userUID == "" {
		log.Error("user id missing in path")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("user id is required"))
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

	application, err := h.service.Review(r.Context(), userUID, req.Decision, req.ReviewNotes)
	if err != nil {
		switch {
		case errors.Is(err, verificationservice.ErrNotUnderReview):
			log.Error("no application under review", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("no application under review"))
		case errors.Is(err, verificationservice.ErrUnknownDecision):
			log.Error("unknown decision", slog.String("decision", req.Decision))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("unknown decision"))
		default:
			log.Error("failed to review application", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not review application"))
		}
		return
	}

	log.Info("verification application reviewed",
		slog.String("application_id", application.ID),
		slog.String("status", application.Status))
	render.JSON(w, r, response.OKWithData(application.View()))
}
