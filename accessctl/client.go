// Package accessctl — клиентский контроллер доступа и вовлечённости
// платформы LearnHub. Объединяет четыре компонента: хранилище сессии,
// резолвер уровней доступа, машину состояний реакций и диспетчер
// закрытых действий. Бэкенд для пакета — непрозрачный HTTP/JSON API.
package accessctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Identity — текущий пользователь, как его видит клиент. Локальная копия
// может быть устаревшей; авторитетное значение приходит от сервера.
type Identity struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

// Роли пользователей, значимые для клиента.
const (
	RoleStudent           = "student"
	RoleCreator           = "creator"
	RoleProfessionalCoder = "professional_coder"
	RoleAdmin             = "admin"
)

// ContentItem — единица контента в ответах сервера.
type ContentItem struct {
	ID         string `json:"id"`
	ContentID  string `json:"content_id"`
	Title      string `json:"title"`
	OwnerID    string `json:"owner_id"`
	Price      int    `json:"price"`
	Visibility string `json:"visibility"`
}

// Key возвращает идентификатор контента независимо от того, каким полем
// его отдал сервер (карточка каталога или элемент списка покупок).
func (c ContentItem) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return c.ContentID
}

// ToggleResult — серверный результат переключения реакции: подтверждённое
// действие и счётчики, которые целиком заменяют локальные значения.
type ToggleResult struct {
	Success    bool   `json:"success"`
	Likes      int    `json:"likes"`
	Dislikes   int    `json:"dislikes"`
	UserAction string `json:"user_action"`
}

// Client — HTTP-клиент API доступа. Все методы принимают bearer-токен;
// ошибки транспорта и ответы 5xx оборачиваются в ErrTransient, 401 — в
// ErrUnauthenticated, 403 — в ErrForbidden, 400/422 — в ErrValidation.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создает клиент API с разумным таймаутом транспорта.
// Запрос, не завершившийся за таймаут, считается транзиентной ошибкой.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	const op = "accessctl.Client.do"

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("%s: %w: %w", op, ErrValidation, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrValidation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrTransient, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%s: %w: %s", op, ErrUnauthenticated, env.Error)
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s: %w: %s", op, ErrForbidden, env.Error)
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%s: %w: %s", op, ErrValidation, env.Error)
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%s: %w: status %s", op, ErrTransient, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%s: unexpected status %s: %s", op, resp.Status, env.Error)
	}

	if decodeErr != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrTransient, decodeErr)
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%s: %w: %w", op, ErrTransient, err)
		}
	}
	return nil
}

// CheckAuth выполняет авторитетную проверку "кто я". Возвращает nil без
// ошибки, когда сервер определённо ответил, что пользователя нет.
func (c *Client) CheckAuth(ctx context.Context, token string) (*Identity, error) {
	var data struct {
		User *Identity `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/check", token, nil, &data); err != nil {
		return nil, err
	}
	return data.User, nil
}

// Logout сообщает серверу о выходе. Вызывающая сторона очищает локальное
// состояние независимо от результата.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

// PurchasedItems возвращает купленный контент текущего пользователя,
// упорядоченный сервером по моменту покупки.
func (c *Client) PurchasedItems(ctx context.Context, token string) ([]ContentItem, error) {
	var data struct {
		Items []ContentItem `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/purchased-items", token, nil, &data); err != nil {
		return nil, err
	}
	return data.Items, nil
}

// Purchase подтверждает покупку контента.
func (c *Client) Purchase(ctx context.Context, token, contentID string) error {
	return c.do(ctx, http.MethodPost, "/purchase/"+contentID, token, nil, nil)
}

// Toggle отправляет переключение реакции и возвращает серверное состояние.
// Допустимые значения action: "like" и "dislike".
func (c *Client) Toggle(ctx context.Context, token, contentID, action string) (*ToggleResult, error) {
	if action != "like" && action != "dislike" {
		return nil, fmt.Errorf("accessctl.Client.Toggle: %w: unknown action %q", ErrValidation, action)
	}
	var result ToggleResult
	path := "/content/" + contentID + "/" + action
	if err := c.do(ctx, http.MethodPost, path, token, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerificationStatus возвращает статус последней заявки на верификацию.
func (c *Client) VerificationStatus(ctx context.Context, token string) (string, error) {
	var data struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/verification-status", token, nil, &data); err != nil {
		return "", err
	}
	return data.Status, nil
}

// VerificationApply подаёт заявку на верификацию автора.
func (c *Client) VerificationApply(ctx context.Context, token, notes string) error {
	body := map[string]string{"notes": notes}
	return c.do(ctx, http.MethodPost, "/verification/apply", token, body, nil)
}

// IsTransient сообщает, была ли ошибка транзиентной: ответ сервера не
// получен или не был определённым.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
