package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/learnhub-access/internal/models"
)

// ToggleEngagement переключает реакцию пользователя на контент в одной
// транзакции и возвращает новое состояние вместе с пересчитанными счётчиками.
//
// Переход: like из состояния liked снимает лайк; из none или disliked ставит
// лайк и снимает дизлайк. Dislike — симметрично. Взаимное исключение liked и
// disliked обеспечивается самим запросом и ограничением таблицы.
// Счётчики всегда пересчитываются агрегатом, а не инкрементом.
func (s *Storage) ToggleEngagement(ctx context.Context, contentID, userUID, action string) (*models.ToggleResult, error) {
	const op = "storage.ToggleEngagement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var query string
	switch action {
	case models.ActionLiked:
		query = `INSERT INTO engagement (content_id, user_uid, liked, disliked)
				 VALUES ($1, $2, TRUE, FALSE)
				 ON CONFLICT (content_id, user_uid)
				 DO UPDATE SET liked = NOT engagement.liked, disliked = FALSE, updated_at = now()
				 RETURNING liked, disliked`
	case models.ActionDisliked:
		query = `INSERT INTO engagement (content_id, user_uid, liked, disliked)
				 VALUES ($1, $2, FALSE, TRUE)
				 ON CONFLICT (content_id, user_uid)
				 DO UPDATE SET disliked = NOT engagement.disliked, liked = FALSE, updated_at = now()
				 RETURNING liked, disliked`
	default:
		return nil, fmt.Errorf("%s: unknown action %q", op, action)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var engagement models.Engagement
	engagement.ContentID = contentID
	engagement.UserUID = userUID
	if err := tx.QueryRowContext(ctx, query, contentID, userUID).
		Scan(&engagement.Liked, &engagement.Disliked); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	countsQuery := `SELECT COUNT(*) FILTER (WHERE liked),
				           COUNT(*) FILTER (WHERE disliked)
			        FROM engagement
			        WHERE content_id = $1`
	var counts models.EngagementCounts
	if err := tx.QueryRowContext(ctx, countsQuery, contentID).
		Scan(&counts.Likes, &counts.Dislikes); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.ToggleResult{
		Success:    true,
		Likes:      counts.Likes,
		Dislikes:   counts.Dislikes,
		UserAction: engagement.UserAction(),
	}, nil
}

// GetEngagement возвращает реакцию пользователя на контент.
// Если записи нет, возвращает пустое состояние без ошибки.
func (s *Storage) GetEngagement(ctx context.Context, contentID, userUID string) (*models.Engagement, error) {
	const op = "storage.GetEngagement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT liked, disliked, updated_at
			  FROM engagement
			  WHERE content_id = $1 AND user_uid = $2`
	engagement := &models.Engagement{ContentID: contentID, UserUID: userUID}
	err := s.DB.QueryRowContext(ctx, query, contentID, userUID).
		Scan(&engagement.Liked, &engagement.Disliked, &engagement.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return engagement, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return engagement, nil
}

// CountEngagement возвращает агрегированные счётчики лайков и дизлайков контента.
func (s *Storage) CountEngagement(ctx context.Context, contentID string) (models.EngagementCounts, error) {
	const op = "storage.CountEngagement"
	select {
	case <-ctx.Done():
		return models.EngagementCounts{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FILTER (WHERE liked),
		             COUNT(*) FILTER (WHERE disliked)
			  FROM engagement
			  WHERE content_id = $1`
	var counts models.EngagementCounts
	if err := s.DB.QueryRowContext(ctx, query, contentID).
		Scan(&counts.Likes, &counts.Dislikes); err != nil {
		return models.EngagementCounts{}, fmt.Errorf("%s: %w", op, err)
	}
	return counts, nil
}
