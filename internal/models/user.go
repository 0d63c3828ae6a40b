// Package models содержит доменные модели платформы: пользователей,
// контент, покупки, вовлечённость и заявки на верификацию.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей платформы.
const (
	RoleStudent           = "student"            // Обычный пользователь, покупает курсы
	RoleCreator           = "creator"            // Автор контента
	RoleProfessionalCoder = "professional_coder" // Верифицированный автор, может загружать видео
	RoleAdmin             = "admin"              // Администратор
)

// User представляет зарегистрированного пользователя платформы.
type User struct {
	UID             string    // Уникальный идентификатор пользователя
	Email           string    // Электронная почта
	Username        string    // Имя пользователя (уникальное)
	PasswordHash    string    // Хэш пароля пользователя
	Role            string    // Роль: student, creator, professional_coder, admin
	ProfileImageURL string    // Ссылка на аватар (может быть пустой)
	CreatedAt       time.Time // Дата регистрации
}

// PublicUser — представление пользователя, отдаваемое клиенту.
// Не содержит хэш пароля и прочие служебные поля.
type PublicUser struct {
	UID             string `json:"id"`
	Username        string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

// Public конвертирует User в PublicUser.
func (u *User) Public() PublicUser {
	return PublicUser{
		UID:             u.UID,
		Username:        u.Username,
		Email:           u.Email,
		Role:            u.Role,
		ProfileImageURL: u.ProfileImageURL,
	}
}
