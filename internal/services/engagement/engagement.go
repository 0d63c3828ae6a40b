// Package engagement содержит бизнес-логику реакций пользователя на контент.
// Переключение лайка и дизлайка выполняется атомарно в хранилище, счётчики
// всегда пересчитываются сервером и целиком заменяют клиентские значения.
package engagement

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/learnhub-access/internal/lib/sl"
	"github.com/magabrotheeeer/learnhub-access/internal/models"
	"github.com/magabrotheeeer/learnhub-access/internal/storage/repository"
)

// ErrContentNotFound возвращается при попытке реакции на несуществующий контент.
var ErrContentNotFound = errors.New("content not found")

// Repository определяет методы хранилища, нужные сервису реакций.
type Repository interface {
	// GetContentItem возвращает контент по ID.
	GetContentItem(ctx context.Context, id string) (*models.ContentItem, error)
	// ToggleEngagement атомарно переключает реакцию и возвращает новые счётчики.
	ToggleEngagement(ctx context.Context, contentID, userUID, action string) (*models.ToggleResult, error)
}

// Cache описывает инвалидацию кешированных карточек контента.
type Cache interface {
	Invalidate(key string) error
}

// Service реализует бизнес-логику реакций.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Toggle переключает реакцию пользователя на контент и возвращает
// серверное состояние: подтверждённое действие и пересчитанные счётчики.
func (s *Service) Toggle(ctx context.Context, userUID, contentID, action string) (*models.ToggleResult, error) {
	if _, err := s.repo.GetContentItem(ctx, contentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}

	result, err := s.repo.ToggleEngagement(ctx, contentID, userUID, action)
	if err != nil {
		return nil, err
	}

	cacheKey := "content:" + contentID
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate content cache", slog.String("key", cacheKey), sl.Err(err))
	}

	s.log.Info("engagement toggled",
		slog.String("content_id", contentID),
		slog.String("user_action", result.UserAction),
		slog.Int("likes", result.Likes),
		slog.Int("dislikes", result.Dislikes))
	return result, nil
}
