package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/learnhub-access/internal/models"
)

// CreateVerificationApplication вставляет новую заявку на верификацию
// в статусе under_review и возвращает её ID.
func (s *Storage) CreateVerificationApplication(ctx context.Context, app models.VerificationApplication) (string, error) {
	const op = "storage.CreateVerificationApplication"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO verification_applications (user_uid, status, notes)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		app.UserUID, models.VerificationUnderReview, app.Notes).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetLatestVerificationApplication возвращает последнюю заявку пользователя.
// Отсутствие заявки отображается статусом not_applied без ошибки.
func (s *Storage) GetLatestVerificationApplication(ctx context.Context, userUID string) (*models.VerificationApplication, error) {
	const op = "storage.GetLatestVerificationApplication"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, status, notes, COALESCE(review_notes, ''), submitted_at, decided_at
			  FROM verification_applications
			  WHERE user_uid = $1
			  ORDER BY submitted_at DESC
			  LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var result models.VerificationApplication
	var decidedAt sql.NullTime
	if err := row.Scan(&result.ID, &result.UserUID, &result.Status, &result.Notes,
		&result.ReviewNotes, &result.SubmittedAt, &decidedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.VerificationApplication{
				UserUID: userUID,
				Status:  models.VerificationNotApplied,
			}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if decidedAt.Valid {
		result.DecidedAt = &decidedAt.Time
	}
	return &result, nil
}

// DecideVerificationApplication фиксирует решение по заявке: approved или rejected.
// Решение применяется только к заявкам в статусе under_review.
func (s *Storage) DecideVerificationApplication(ctx context.Context, id, status, reviewNotes string) (*models.VerificationApplication, error) {
	const op = "storage.DecideVerificationApplication"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE verification_applications
			  SET status = $1, review_notes = $2, decided_at = now()
			  WHERE id = $3 AND status = 'under_review'
			  RETURNING id, user_uid, status, notes, COALESCE(review_notes, ''), submitted_at, decided_at`
	row := s.DB.QueryRowContext(ctx, query, status, reviewNotes, id)

	var result models.VerificationApplication
	var decidedAt sql.NullTime
	if err := row.Scan(&result.ID, &result.UserUID, &result.Status, &result.Notes,
		&result.ReviewNotes, &result.SubmittedAt, &decidedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if decidedAt.Valid {
		result.DecidedAt = &decidedAt.Time
	}
	return &result, nil
}
