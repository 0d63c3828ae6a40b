// Package verification содержит бизнес-логику заявок на верификацию авторов.
// Жизненный цикл: not_applied → under_review → approved | rejected.
// Отклонённая заявка допускает повторную подачу, одобренная — терминальна
// и переводит роль пользователя в professional_coder.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/learnhub-access/internal/events"
	"github.com/magabrotheeeer/learnhub-access/internal/lib/sl"
	"github.com/magabrotheeeer/learnhub-access/internal/models"
)

// Ошибки бизнес-уровня верификации.
var (
	ErrAlreadyUnderReview = errors.New("application already under review")
	ErrAlreadyApproved    = errors.New("application already approved")
	ErrNotUnderReview     = errors.New("no application under review")
	ErrUnknownDecision    = errors.New("unknown decision")
)

// Repository определяет методы хранилища, нужные сервису верификации.
type Repository interface {
	// CreateVerificationApplication сохраняет заявку и возвращает её ID.
	CreateVerificationApplication(ctx context.Context, app models.VerificationApplication) (string, error)
	// GetLatestVerificationApplication возвращает последнюю заявку пользователя.
	GetLatestVerificationApplication(ctx context.Context, userUID string) (*models.VerificationApplication, error)
	// DecideVerificationApplication фиксирует решение по заявке.
	DecideVerificationApplication(ctx context.Context, id, status, reviewNotes string) (*models.VerificationApplication, error)
	// UpdateUserRole изменяет роль пользователя.
	UpdateUserRole(ctx context.Context, userUID, role string) error
}

// EventPublisher публикует события изменения статуса заявки.
type EventPublisher interface {
	PublishVerificationChanged(event events.VerificationChanged) error
}

// Service реализует бизнес-логику заявок на верификацию.
type Service struct {
	repo   Repository
	events EventPublisher
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, eventPublisher EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: eventPublisher,
		log:    log,
	}
}

// Status возвращает актуальный статус верификации пользователя.
// Если заявок не было, статус — not_applied.
func (s *Service) Status(ctx context.Context, userUID string) (*models.VerificationApplication, error) {
	return s.repo.GetLatestVerificationApplication(ctx, userUID)
}

// Apply подаёт заявку на верификацию и возвращает её ID.
//
// Подача допускается из статусов not_applied и rejected. Заявка на
// рассмотрении и одобренная заявка блокируют повторную подачу.
func (s *Service) Apply(ctx context.Context, userUID, notes string) (string, error) {
	latest, err := s.repo.GetLatestVerificationApplication(ctx, userUID)
	if err != nil {
		return "", err
	}
	switch latest.Status {
	case models.VerificationUnderReview:
		return "", ErrAlreadyUnderReview
	case models.VerificationApproved:
		return "", ErrAlreadyApproved
	}

	id, err := s.repo.CreateVerificationApplication(ctx, models.VerificationApplication{
		UserUID: userUID,
		Notes:   notes,
	})
	if err != nil {
		return "", err
	}
	s.log.Info("verification application submitted",
		slog.String("application_id", id), slog.String("user_uid", userUID))

	s.publishChange(id, userUID, models.VerificationUnderReview)
	return id, nil
}

// Review фиксирует решение администратора по последней заявке пользователя.
//
// Решение approve переводит роль пользователя в professional_coder.
// Решение применимо только к заявке в статусе under_review.
func (s *Service) Review(ctx context.Context, userUID, decision, reviewNotes string) (*models.VerificationApplication, error) {
	if decision != models.VerificationApproved && decision != models.VerificationRejected {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDecision, decision)
	}

	latest, err := s.repo.GetLatestVerificationApplication(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if latest.Status != models.VerificationUnderReview {
		return nil, ErrNotUnderReview
	}

	decided, err := s.repo.DecideVerificationApplication(ctx, latest.ID, decision, reviewNotes)
	if err != nil {
		return nil, err
	}

	if decision == models.VerificationApproved {
		if err := s.repo.UpdateUserRole(ctx, userUID, models.RoleProfessionalCoder); err != nil {
			return nil, err
		}
	}
	s.log.Info("verification application decided",
		slog.String("application_id", decided.ID), slog.String("status", decided.Status))

	s.publishChange(decided.ID, userUID, decided.Status)
	return decided, nil
}

func (s *Service) publishChange(applicationID, userUID, status string) {
	if err := s.events.PublishVerificationChanged(events.VerificationChanged{
		ApplicationID: applicationID,
		UserUID:       userUID,
		Status:        status,
		OccurredAt:    time.Now().UTC(),
	}); err != nil {
		s.log.Warn("failed to publish verification event", sl.Err(err))
	}
}
