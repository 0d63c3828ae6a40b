package models

import "time"

// Purchase представляет факт покупки контента пользователем.
// Запись неизменяема после создания: её наличие — единственное основание
// для уровня доступа "owned" у не-владельца.
type Purchase struct {
	ID          string    // Уникальный идентификатор покупки
	ContentID   string    // Идентификатор купленного контента
	UserUID     string    // Идентификатор покупателя
	PurchasedAt time.Time // Момент подтверждения оплаты
}

// PurchasedItem — купленный контент вместе с моментом покупки,
// отдаётся клиенту в списке покупок.
type PurchasedItem struct {
	ContentID   string    `json:"content_id"`
	Title       string    `json:"title"`
	OwnerUID    string    `json:"owner_id"`
	Price       int       `json:"price"`
	PurchasedAt time.Time `json:"purchased_at"`
}
