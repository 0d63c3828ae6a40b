// Package content содержит бизнес-логику публикации и каталога контента.
package content

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/learnhub-access/internal/models"
)

// Границы пагинации каталога.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidVisibility возвращается при неизвестном значении видимости.
var ErrInvalidVisibility = errors.New("invalid visibility")

// Repository определяет методы хранилища, нужные сервису контента.
type Repository interface {
	// CreateContentItem сохраняет новую запись контента и возвращает её ID.
	CreateContentItem(ctx context.Context, item models.ContentItem) (string, error)
	// ListContentItems возвращает публичный контент с пагинацией.
	ListContentItems(ctx context.Context, limit, offset int) ([]*models.ContentItem, error)
}

// Service реализует бизнес-логику контента.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create публикует новую единицу контента от имени автора и возвращает её ID.
// Пустая видимость трактуется как public.
func (s *Service) Create(ctx context.Context, ownerUID, title string, price int, visibility string) (string, error) {
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if visibility != models.VisibilityPublic && visibility != models.VisibilityUnlisted {
		return "", ErrInvalidVisibility
	}

	id, err := s.repo.CreateContentItem(ctx, models.ContentItem{
		Title:      title,
		OwnerUID:   ownerUID,
		Price:      price,
		Visibility: visibility,
	})
	if err != nil {
		return "", err
	}

	s.log.Info("content published",
		slog.String("content_id", id), slog.String("owner_uid", ownerUID))
	return id, nil
}

// List возвращает страницу публичного каталога. Значения limit вне
// допустимых границ приводятся к ним.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.ContentItem, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListContentItems(ctx, limit, offset)
}
