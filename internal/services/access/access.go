// Package access содержит бизнес-логику доступа к контенту: покупки,
// список купленного и вычисление уровня доступа пользователя к единице
// контента (locked, purchasable, owned).
package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/learnhub-access/internal/events"
	"github.com/magabrotheeeer/learnhub-access/internal/lib/sl"
	"github.com/magabrotheeeer/learnhub-access/internal/models"
	"github.com/magabrotheeeer/learnhub-access/internal/storage/repository"
)

// Уровни доступа пользователя к контенту.
const (
	TierLocked      = "locked"      // Требуется аутентификация
	TierPurchasable = "purchasable" // Доступна покупка
	TierOwned       = "owned"       // Полный доступ
)

// Ошибки бизнес-уровня доступа.
var (
	ErrContentNotFound  = errors.New("content not found")
	ErrFreeContent      = errors.New("free content cannot be purchased")
	ErrAlreadyOwned     = errors.New("content already owned")
	ErrAlreadyPurchased = repository.ErrAlreadyPurchased
)

// Repository определяет методы хранилища, нужные сервису доступа.
type Repository interface {
	// GetContentItem возвращает контент по ID.
	GetContentItem(ctx context.Context, id string) (*models.ContentItem, error)
	// CreatePurchase сохраняет покупку и возвращает её ID.
	CreatePurchase(ctx context.Context, purchase models.Purchase) (string, error)
	// GetPurchase возвращает покупку пары (контент, пользователь).
	GetPurchase(ctx context.Context, contentID, userUID string) (*models.Purchase, error)
	// ListPurchasedItems возвращает купленный пользователем контент.
	ListPurchasedItems(ctx context.Context, userUID string) ([]*models.PurchasedItem, error)
	// GetEngagement возвращает реакцию пользователя на контент.
	GetEngagement(ctx context.Context, contentID, userUID string) (*models.Engagement, error)
	// CountEngagement возвращает счётчики реакций контента.
	CountEngagement(ctx context.Context, contentID string) (models.EngagementCounts, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// EventPublisher публикует событие подтверждённой покупки.
type EventPublisher interface {
	PublishPurchaseCompleted(event events.PurchaseCompleted) error
}

// Service реализует бизнес-логику доступа к контенту.
type Service struct {
	repo   Repository
	cache  Cache
	events EventPublisher
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, eventPublisher EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		events: eventPublisher,
		log:    log,
	}
}

// Purchase подтверждает покупку контента пользователем и возвращает ID покупки.
//
// Бесплатный контент купить нельзя: он и так доступен любому
// аутентифицированному пользователю. Владелец не покупает собственный контент.
// Повторная покупка отклоняется, запись неизменяема.
func (s *Service) Purchase(ctx context.Context, userUID, contentID string) (string, error) {
	item, err := s.getContent(ctx, contentID)
	if err != nil {
		return "", err
	}
	if item.Price == 0 {
		return "", ErrFreeContent
	}
	if item.OwnerUID == userUID {
		return "", ErrAlreadyOwned
	}

	id, err := s.repo.CreatePurchase(ctx, models.Purchase{
		ContentID: contentID,
		UserUID:   userUID,
	})
	if err != nil {
		return "", err
	}
	s.log.Info("purchase confirmed",
		slog.String("purchase_id", id), slog.String("content_id", contentID))

	if err := s.events.PublishPurchaseCompleted(events.PurchaseCompleted{
		PurchaseID:  id,
		ContentID:   contentID,
		UserUID:     userUID,
		Price:       item.Price,
		PurchasedAt: time.Now().UTC(),
	}); err != nil {
		s.log.Warn("failed to publish purchase event", sl.Err(err))
	}

	return id, nil
}

// ListPurchased возвращает купленный пользователем контент,
// упорядоченный по моменту покупки.
func (s *Service) ListPurchased(ctx context.Context, userUID string) ([]*models.PurchasedItem, error) {
	return s.repo.ListPurchasedItems(ctx, userUID)
}

// ResolveTier вычисляет уровень доступа пользователя к контенту.
//
// owned: пользователь владеет контентом, купил его, является администратором
// или контент бесплатный. purchasable: аутентифицирован, но покупки нет.
// locked: пользователь не аутентифицирован. Ошибка проверки покупки не
// повышает уровень — доступ закрывается, а не открывается.
func (s *Service) ResolveTier(ctx context.Context, viewer *models.User, item *models.ContentItem) (string, error) {
	if viewer == nil {
		return TierLocked, nil
	}
	if viewer.Role == models.RoleAdmin || item.OwnerUID == viewer.UID {
		return TierOwned, nil
	}
	if item.Price == 0 {
		return TierOwned, nil
	}
	_, err := s.repo.GetPurchase(ctx, item.ID, viewer.UID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TierPurchasable, nil
		}
		return TierPurchasable, fmt.Errorf("access.ResolveTier: %w", err)
	}
	return TierOwned, nil
}

// GetContentView возвращает карточку контента с данными вовлечённости
// и подтверждённым действием пользователя. Карточка контента кешируется,
// счётчики и реакция пользователя читаются всегда из хранилища.
func (s *Service) GetContentView(ctx context.Context, viewer *models.User, contentID string) (*models.ContentView, string, error) {
	item, err := s.getContent(ctx, contentID)
	if err != nil {
		return nil, "", err
	}

	tier, err := s.ResolveTier(ctx, viewer, item)
	if err != nil {
		return nil, "", err
	}

	counts, err := s.repo.CountEngagement(ctx, contentID)
	if err != nil {
		return nil, "", err
	}

	userAction := models.ActionNone
	if viewer != nil {
		engagement, err := s.repo.GetEngagement(ctx, contentID, viewer.UID)
		if err != nil {
			return nil, "", err
		}
		userAction = engagement.UserAction()
	}

	return &models.ContentView{
		ID:         item.ID,
		Title:      item.Title,
		OwnerUID:   item.OwnerUID,
		Price:      item.Price,
		Visibility: item.Visibility,
		CreatedAt:  item.CreatedAt,
		Likes:      counts.Likes,
		Dislikes:   counts.Dislikes,
		UserAction: userAction,
	}, tier, nil
}

func (s *Service) getContent(ctx context.Context, contentID string) (*models.ContentItem, error) {
	var item *models.ContentItem
	cacheKey := contentCacheKey(contentID)
	found, err := s.cache.Get(cacheKey, &item)
	if err != nil {
		s.log.Warn("failed to read content from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && item != nil {
		return item, nil
	}

	item, err = s.repo.GetContentItem(ctx, contentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	if err := s.cache.Set(cacheKey, item, time.Hour); err != nil {
		s.log.Warn("failed to cache content", slog.String("key", cacheKey), sl.Err(err))
	}
	return item, nil
}

func contentCacheKey(contentID string) string {
	return "content:" + contentID
}
