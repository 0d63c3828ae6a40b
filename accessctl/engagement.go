package accessctl

import (
	"context"
	"sync"
)

// EngagementState — реакция пользователя на единицу контента.
type EngagementState string

// Состояния реакции. Liked и Disliked взаимно исключающие: установка
// одного снимает другое.
const (
	EngagementNone     EngagementState = "none"
	EngagementLiked    EngagementState = "liked"
	EngagementDisliked EngagementState = "disliked"
)

// ItemEngagement — наблюдаемое состояние реакции и счётчиков по одной
// единице контента.
type ItemEngagement struct {
	State    EngagementState
	Likes    int
	Dislikes int
}

// EngagementMachine — машина состояний реакций по единицам контента.
//
// Переключение применяется оптимистично: локальное состояние меняется
// сразу, затем уходит один серверный вызов. Успешный ответ целиком
// замещает счётчики и действие серверными значениями; ошибка откатывает
// состояние к моменту до действия. Пока запрос по единице контента в
// полёте, повторное переключение по ней отклоняется с ErrToggleInFlight.
type EngagementMachine struct {
	client  *Client
	session *SessionStore

	mu       sync.Mutex
	items    map[string]ItemEngagement
	inFlight map[string]bool
}

// NewEngagementMachine создает машину состояний поверх API-клиента
// и хранилища сессии.
func NewEngagementMachine(client *Client, session *SessionStore) *EngagementMachine {
	return &EngagementMachine{
		client:   client,
		session:  session,
		items:    make(map[string]ItemEngagement),
		inFlight: make(map[string]bool),
	}
}

// Prime задаёт начальное состояние по единице контента из серверной
// карточки, до первого переключения.
func (m *EngagementMachine) Prime(contentID string, state EngagementState, likes, dislikes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[contentID] = ItemEngagement{State: state, Likes: likes, Dislikes: dislikes}
}

// Get возвращает наблюдаемое состояние по единице контента.
// Неизвестная единица имеет состояние EngagementNone и нулевые счётчики.
func (m *EngagementMachine) Get(contentID string) ItemEngagement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot(contentID)
}

// snapshot возвращает состояние единицы контента, подставляя
// EngagementNone для неизвестной. Вызывается под m.mu.
func (m *EngagementMachine) snapshot(contentID string) ItemEngagement {
	item, ok := m.items[contentID]
	if !ok {
		item.State = EngagementNone
	}
	return item
}

// ToggleLike переключает лайк: из liked — в none, из none и disliked —
// в liked со снятием дизлайка.
func (m *EngagementMachine) ToggleLike(ctx context.Context, contentID string) (ItemEngagement, error) {
	return m.toggle(ctx, contentID, "like", EngagementLiked)
}

// ToggleDislike переключает дизлайк симметрично ToggleLike.
func (m *EngagementMachine) ToggleDislike(ctx context.Context, contentID string) (ItemEngagement, error) {
	return m.toggle(ctx, contentID, "dislike", EngagementDisliked)
}

func (m *EngagementMachine) toggle(ctx context.Context, contentID, action string, target EngagementState) (ItemEngagement, error) {
	m.mu.Lock()
	if m.inFlight[contentID] {
		current := m.snapshot(contentID)
		m.mu.Unlock()
		return current, ErrToggleInFlight
	}
	before := m.snapshot(contentID)
	m.items[contentID] = optimistic(before, target)
	m.inFlight[contentID] = true
	m.mu.Unlock()

	result, err := m.client.Toggle(ctx, m.session.Token(), contentID, action)

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, contentID)

	if err != nil {
		// Откат к состоянию до действия, действие сообщается как
		// неудавшееся и не повторяется автоматически.
		m.items[contentID] = before
		return before, err
	}

	confirmed := ItemEngagement{
		State:    EngagementState(result.UserAction),
		Likes:    result.Likes,
		Dislikes: result.Dislikes,
	}
	m.items[contentID] = confirmed
	return confirmed, nil
}

// optimistic вычисляет ожидаемый переход до ответа сервера. Счётчики
// корректируются локально только на время полёта запроса и затем целиком
// замещаются серверными.
func optimistic(current ItemEngagement, target EngagementState) ItemEngagement {
	next := current
	switch {
	case current.State == target && target == EngagementLiked:
		next.State = EngagementNone
		next.Likes--
	case current.State == target && target == EngagementDisliked:
		next.State = EngagementNone
		next.Dislikes--
	case target == EngagementLiked:
		if current.State == EngagementDisliked {
			next.Dislikes--
		}
		next.State = EngagementLiked
		next.Likes++
	case target == EngagementDisliked:
		if current.State == EngagementLiked {
			next.Likes--
		}
		next.State = EngagementDisliked
		next.Dislikes++
	}
	if next.Likes < 0 {
		next.Likes = 0
	}
	if next.Dislikes < 0 {
		next.Dislikes = 0
	}
	return next
}
