package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/learnhub-access/internal/models"
)

// CreateContentItem вставляет новую запись контента и возвращает её ID.
func (s *Storage) CreateContentItem(ctx context.Context, item models.ContentItem) (string, error) {
	const op = "storage.CreateContentItem"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO content_items (title, owner_uid, price, visibility)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		item.Title, item.OwnerUID, item.Price, item.Visibility).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetContentItem возвращает данные контента по его ID.
func (s *Storage) GetContentItem(ctx context.Context, id string) (*models.ContentItem, error) {
	const op = "storage.GetContentItem"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, owner_uid, price, visibility, created_at
			  FROM content_items
			  WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.ContentItem
	if err := row.Scan(&result.ID, &result.Title, &result.OwnerUID, &result.Price,
		&result.Visibility, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListContentItems возвращает список публичного контента с пагинацией.
func (s *Storage) ListContentItems(ctx context.Context, limit, offset int) ([]*models.ContentItem, error) {
	const op = "storage.ListContentItems"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, owner_uid, price, visibility, created_at
			  FROM content_items
			  WHERE visibility = 'public'
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result []*models.ContentItem
	for rows.Next() {
		var item models.ContentItem
		if err := rows.Scan(&item.ID, &item.Title, &item.OwnerUID, &item.Price,
			&item.Visibility, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
