// Package accessservice собирает и запускает HTTP-сервис доступа:
// хранилище, кэш, публикацию событий, бизнес-сервисы и маршруты.
package accessservice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/learnhub-access/internal/cache"
	"github.com/magabrotheeeer/learnhub-access/internal/config"
	"github.com/magabrotheeeer/learnhub-access/internal/events"
	"github.com/magabrotheeeer/learnhub-access/internal/lib/jwt"
	"github.com/magabrotheeeer/learnhub-access/internal/migrations"
	accessservice "github.com/magabrotheeeer/learnhub-access/internal/services/access"
	authservice "github.com/magabrotheeeer/learnhub-access/internal/services/auth"
	contentservice "github.com/magabrotheeeer/learnhub-access/internal/services/content"
	engagementservice "github.com/magabrotheeeer/learnhub-access/internal/services/engagement"
	verificationservice "github.com/magabrotheeeer/learnhub-access/internal/services/verification"
	"github.com/magabrotheeeer/learnhub-access/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и подключения к внешним системам.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	rabbitCh *amqp.Channel
	rabbit   *amqp.Connection
}

// New собирает приложение: подключается к PostgreSQL, Redis и RabbitMQ,
// прогоняет миграции и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := events.Connect(cfg.RabbitMQURL, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := events.SetupChannel(rabbitConn)
	if err != nil {
		return nil, err
	}
	publisher := events.NewPublisher(rabbitCh)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authSrv := authservice.New(db, jwtMaker, cacheRedis, cfg.TokenTTL)
	accessSrv := accessservice.New(db, cacheRedis, publisher, logger)
	engagementSrv := engagementservice.New(db, cacheRedis, logger)
	contentSrv := contentservice.New(db, logger)
	verificationSrv := verificationservice.New(db, publisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, &Services{
		Auth:         authSrv,
		Access:       accessSrv,
		Engagement:   engagementSrv,
		Content:      contentSrv,
		Verification: verificationSrv,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		rabbitCh: rabbitCh,
		rabbit:   rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до остановки контекста
// или ошибки сервера. При остановке выполняет graceful shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.rabbitCh.Close()
		_ = a.rabbit.Close()
		_ = a.db.DB.Close()
		return err
	}
}
