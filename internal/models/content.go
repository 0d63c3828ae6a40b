package models

import "time"

// Видимость контента.
const (
	VisibilityPublic   = "public"
	VisibilityUnlisted = "unlisted"
)

// ContentItem представляет единицу контента: курс или видео.
// Цена хранится в минимальных единицах валюты; нулевая цена означает
// бесплатный контент, доступный любому аутентифицированному пользователю.
type ContentItem struct {
	ID         string    // Уникальный идентификатор контента
	Title      string    // Название курса или видео
	OwnerUID   string    // Идентификатор автора
	Price      int       // Цена в минимальных единицах, 0 — бесплатно
	Visibility string    // public или unlisted
	CreatedAt  time.Time // Дата публикации
}

// ContentCard — краткое представление контента для списков каталога.
type ContentCard struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	OwnerUID   string    `json:"owner_id"`
	Price      int       `json:"price"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"created_at"`
}

// Card конвертирует ContentItem в ContentCard.
func (c *ContentItem) Card() ContentCard {
	return ContentCard{
		ID:         c.ID,
		Title:      c.Title,
		OwnerUID:   c.OwnerUID,
		Price:      c.Price,
		Visibility: c.Visibility,
		CreatedAt:  c.CreatedAt,
	}
}

// ContentView — представление контента для клиента вместе с данными
// вовлечённости и снимком доступа текущего пользователя.
type ContentView struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	OwnerUID   string    `json:"owner_id"`
	Price      int       `json:"price"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"created_at"`

	Likes      int    `json:"likes"`
	Dislikes   int    `json:"dislikes"`
	UserAction string `json:"user_action"` // liked, disliked или none
}
