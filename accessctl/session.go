package accessctl

import (
	"context"
	"encoding/json"
	"sync"
)

// SessionStore владеет кэшированной личностью пользователя и токеном.
// Это единственный писатель локального хранилища сессии: остальные
// компоненты читают личность через Current и подписку, никогда напрямую.
type SessionStore struct {
	client  *Client
	storage Storage

	mu       sync.RWMutex
	identity *Identity
	nextSub  int
	subs     map[int]func(*Identity)

	// flagKeys — производные одноразовые флаги, очищаемые при выходе
	// вместе с user и token.
	flagKeys []string
}

// NewSessionStore создает хранилище сессии поверх API-клиента и локального
// хранилища. flagKeys перечисляет производные ключи инициализации, которые
// должны очищаться при выходе.
func NewSessionStore(client *Client, storage Storage, flagKeys ...string) *SessionStore {
	return &SessionStore{
		client:   client,
		storage:  storage,
		subs:     make(map[int]func(*Identity)),
		flagKeys: flagKeys,
	}
}

// Load возвращает кэшированную личность из локального хранилища, не
// выполняя сетевых вызовов. Возвращает nil, если кэша нет. Кэшированное
// значение может быть устаревшим до завершения Reconcile.
func (s *SessionStore) Load() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity != nil {
		return s.identity
	}
	raw, ok := s.storage.Get(KeyUser)
	if !ok || raw == "" {
		return nil
	}
	var identity Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return nil
	}
	s.identity = &identity
	return s.identity
}

// Current возвращает наблюдаемую личность: результат последнего Load
// или Reconcile.
func (s *SessionStore) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Token возвращает bearer-токен из локального хранилища.
func (s *SessionStore) Token() string {
	token, _ := s.storage.Get(KeyToken)
	return token
}

// SetSession записывает личность и токен после входа и уведомляет
// подписчиков.
func (s *SessionStore) SetSession(identity *Identity, token string) error {
	if err := s.storage.Set(KeyToken, token); err != nil {
		return err
	}
	return s.replaceIdentity(identity)
}

// Reconcile выполняет авторитетную проверку сессии.
//
// Кэш очищает только определённый ответ "пользователя нет". Любая ошибка,
// включая 401, кэш не трогает: наблюдаемая личность остаётся прежней,
// ошибка возвращается вызывающему. Выход из аккаунта делает Logout,
// а не неудачная проверка.
func (s *SessionStore) Reconcile(ctx context.Context) (*Identity, error) {
	identity, err := s.client.CheckAuth(ctx, s.Token())
	if err != nil {
		return s.Current(), err
	}

	if identity == nil {
		// Авторитетный ответ: сессии нет.
		if clearErr := s.clearLocal(); clearErr != nil {
			return nil, clearErr
		}
		return nil, nil
	}

	if err := s.replaceIdentity(identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// Logout уведомляет сервер и очищает локальную сессию. Локальная половина
// выполняется всегда: ошибка сервера не мешает выходу и возвращается
// вызывающему только для уведомления.
func (s *SessionStore) Logout(ctx context.Context) error {
	serverErr := s.client.Logout(ctx, s.Token())
	if clearErr := s.clearLocal(); clearErr != nil {
		return clearErr
	}
	return serverErr
}

// Subscribe регистрирует наблюдателя изменений личности и возвращает
// функцию отписки. Наблюдатель вызывается при каждом замещении или
// очистке личности, включая выход.
func (s *SessionStore) Subscribe(fn func(*Identity)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *SessionStore) replaceIdentity(identity *Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	if err := s.storage.Set(KeyUser, string(data)); err != nil {
		return err
	}

	s.mu.Lock()
	s.identity = identity
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(identity)
	}
	return nil
}

func (s *SessionStore) clearLocal() error {
	errUser := s.storage.Delete(KeyUser)
	errToken := s.storage.Delete(KeyToken)
	for _, key := range s.flagKeys {
		_ = s.storage.Delete(key)
	}

	s.mu.Lock()
	s.identity = nil
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(nil)
	}
	if errUser != nil {
		return errUser
	}
	return errToken
}

func (s *SessionStore) snapshotSubs() []func(*Identity) {
	subs := make([]func(*Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}
