package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/learnhub-access/internal/models"
)

// ErrAlreadyPurchased возвращается при попытке купить контент повторно.
var ErrAlreadyPurchased = errors.New("content already purchased")

// CreatePurchase вставляет запись о покупке и возвращает её ID.
// Покупки неизменяемы: методов обновления или удаления нет.
func (s *Storage) CreatePurchase(ctx context.Context, purchase models.Purchase) (string, error) {
	const op = "storage.CreatePurchase"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO purchases (content_id, user_uid)
			  VALUES ($1, $2)
			  ON CONFLICT (content_id, user_uid) DO NOTHING
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query, purchase.ContentID, purchase.UserUID).Scan(&newID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", op, ErrAlreadyPurchased)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPurchase возвращает покупку пары (контент, пользователь), если она есть.
func (s *Storage) GetPurchase(ctx context.Context, contentID, userUID string) (*models.Purchase, error) {
	const op = "storage.GetPurchase"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, content_id, user_uid, purchased_at
			  FROM purchases
			  WHERE content_id = $1 AND user_uid = $2`
	row := s.DB.QueryRowContext(ctx, query, contentID, userUID)

	var result models.Purchase
	if err := row.Scan(&result.ID, &result.ContentID, &result.UserUID, &result.PurchasedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListPurchasedItems возвращает купленный пользователем контент,
// упорядоченный по моменту покупки (от новых к старым).
func (s *Storage) ListPurchasedItems(ctx context.Context, userUID string) ([]*models.PurchasedItem, error) {
	const op = "storage.ListPurchasedItems"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.content_id, c.title, c.owner_uid, c.price, p.purchased_at
			  FROM purchases p
			  JOIN content_items c ON c.id = p.content_id
			  WHERE p.user_uid = $1
			  ORDER BY p.purchased_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result []*models.PurchasedItem
	for rows.Next() {
		var item models.PurchasedItem
		if err := rows.Scan(&item.ContentID, &item.Title, &item.OwnerUID,
			&item.Price, &item.PurchasedAt); err != nil {
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
