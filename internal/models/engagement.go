package models

import "time"

// Действия пользователя над контентом.
const (
	ActionLiked    = "liked"
	ActionDisliked = "disliked"
	ActionNone     = "none"
)

// Engagement представляет реакцию пользователя на единицу контента.
// Инвариант: liked и disliked никогда не равны true одновременно,
// установка одного флага снимает другой. Обеспечивается ограничением в БД.
type Engagement struct {
	ContentID string    // Идентификатор контента
	UserUID   string    // Идентификатор пользователя
	Liked     bool      // Пользователь поставил лайк
	Disliked  bool      // Пользователь поставил дизлайк
	UpdatedAt time.Time // Момент последнего изменения
}

// UserAction возвращает текущую реакцию как строку: liked, disliked или none.
func (e Engagement) UserAction() string {
	switch {
	case e.Liked:
		return ActionLiked
	case e.Disliked:
		return ActionDisliked
	default:
		return ActionNone
	}
}

// EngagementCounts — агрегированные счётчики реакций контента.
// Счётчики всегда вычисляются по записям engagement, а не инкрементируются.
type EngagementCounts struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

// ToggleResult — результат переключения реакции: новые серверные счётчики
// и подтверждённое действие пользователя. Клиент заменяет локальные значения
// целиком этими данными.
type ToggleResult struct {
	Success    bool   `json:"success"`
	Likes      int    `json:"likes"`
	Dislikes   int    `json:"dislikes"`
	UserAction string `json:"user_action"`
}
