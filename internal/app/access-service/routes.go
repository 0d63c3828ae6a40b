// Package accessservice предоставляет маршруты сервиса доступа.
package accessservice

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/learnhub-access/internal/http/handlers/auth/check"
	"github.com/magabrotheeeer/learnhub-access/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/learnhub-access/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/learnhub-access/internal/http/handlers/auth/register"
	contentcreate "github.com/magabrotheeeer/learnhub-access/internal/http/handlers/content/create"
	contentlist "github.com/magabrotheeeer/learnhub-access/internal/http/handlers/content/list"
	contentread "github.com/magabrotheeeer/learnhub-access/internal/http/handlers/content/read"
	"github.com/magabrotheeeer/learnhub-access/internal/http/handlers/engagement/toggle"
	purchasecreate "github.com/magabrotheeeer/learnhub-access/internal/http/handlers/purchase/create"
	purchaselist "github.com/magabrotheeeer/learnhub-access/internal/http/handlers/purchase/list"
	verificationapply "github.com/magabrotheeeer/learnhub-access/internal/http/handlers/verification/apply"
	verificationreview "github.com/magabrotheeeer/learnhub-access/internal/http/handlers/verification/review"
	verificationstatus "github.com/magabrotheeeer/learnhub-access/internal/http/handlers/verification/status"
	"github.com/magabrotheeeer/learnhub-access/internal/http/middlewarectx"
	"github.com/magabrotheeeer/learnhub-access/internal/models"
	accessservice "github.com/magabrotheeeer/learnhub-access/internal/services/access"
	authservice "github.com/magabrotheeeer/learnhub-access/internal/services/auth"
	contentservice "github.com/magabrotheeeer/learnhub-access/internal/services/content"
	engagementservice "github.com/magabrotheeeer/learnhub-access/internal/services/engagement"
	verificationservice "github.com/magabrotheeeer/learnhub-access/internal/services/verification"
	"github.com/magabrotheeeer/learnhub-access/internal/storage/repository"
)

// Services объединяет бизнес-сервисы, нужные маршрутам.
type Services struct {
	Auth         *authservice.Service
	Access       *accessservice.Service
	Engagement   *engagementservice.Service
	Content      *contentservice.Service
	Verification *verificationservice.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage, services *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, services.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, services.Auth).ServeHTTP)
		r.Get("/auth/check", check.New(logger, services.Auth).ServeHTTP)
		r.Post("/auth/logout", logout.New(logger, services.Auth).ServeHTTP)
		r.Get("/content", contentlist.New(logger, services.Content).ServeHTTP)

		// Карточка контента доступна анониму, но уровень доступа
		// зависит от пользователя в контексте
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.OptionalJWTMiddleware(services.Auth, logger))
			r.Get("/content/{id}", contentread.New(logger, services.Access).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(services.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/purchase/{contentId}", purchasecreate.New(logger, services.Access).ServeHTTP)
			r.Get("/purchased-items", purchaselist.New(logger, services.Access).ServeHTTP)
			r.Post("/content/{id}/like", toggle.New(logger, services.Engagement, models.ActionLiked).ServeHTTP)
			r.Post("/content/{id}/dislike", toggle.New(logger, services.Engagement, models.ActionDisliked).ServeHTTP)
			r.Get("/verification-status", verificationstatus.New(logger, services.Verification).ServeHTTP)
			r.Post("/verification/apply", verificationapply.New(logger, services.Verification).ServeHTTP)

			// Публикация контента только для верифицированных авторов
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleProfessionalCoder, models.RoleAdmin))
				r.Post("/content", contentcreate.New(logger, services.Content).ServeHTTP)
			})

			// Решения по заявкам принимает только администратор
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin))
				r.Post("/verification/{userId}/review", verificationreview.New(logger, services.Verification).ServeHTTP)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := repository.CheckDatabaseReady(db); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
