package accessctl

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// notifierSpy считает уведомления для проверки правила "ровно одно".
type notifierSpy struct {
	successes []string
	errors    []string
}

func (n *notifierSpy) Success(message string) { n.successes = append(n.successes, message) }
func (n *notifierSpy) Error(message string)   { n.errors = append(n.errors, message) }

func (n *notifierSpy) total() int { return len(n.successes) + len(n.errors) }

func newSession(t *testing.T, identity *Identity) *SessionStore {
	t.Helper()
	session := NewSessionStore(NewClient("http://127.0.0.1:0"), NewMemoryStorage())
	if identity != nil {
		require.NoError(t, session.SetSession(identity, "token"))
	}
	return session
}

func TestDispatchAnonymousRedirectsToLogin(t *testing.T) {
	// Аноним нажимает "купить": переход на вход, действие не выполняется
	notifier := &notifierSpy{}
	dispatcher := NewDispatcher(newSession(t, nil), notifier)

	called := false
	outcome := dispatcher.Dispatch(context.Background(), AccessPurchasable, Action{
		Name: "buy course",
		Run: func(context.Context) error {
			called = true
			return nil
		},
	})

	assert.Equal(t, OutcomeRedirectLogin, outcome)
	assert.False(t, called)
	assert.Equal(t, 1, notifier.total())
}

func TestDispatchPurchasableRedirectsToPurchase(t *testing.T) {
	notifier := &notifierSpy{}
	dispatcher := NewDispatcher(newSession(t, &Identity{ID: "uid-1", Role: RoleStudent}), notifier)

	called := false
	outcome := dispatcher.Dispatch(context.Background(), AccessPurchasable, Action{
		Name: "watch full video",
		Run: func(context.Context) error {
			called = true
			return nil
		},
	})

	assert.Equal(t, OutcomeRedirectPurchase, outcome)
	assert.False(t, called)
	assert.Equal(t, 1, notifier.total())
}

func TestDispatchOwnedRunsActionWithSingleNotification(t *testing.T) {
	notifier := &notifierSpy{}
	dispatcher := NewDispatcher(newSession(t, &Identity{ID: "uid-1", Role: RoleStudent}), notifier)

	outcome := dispatcher.Dispatch(context.Background(), AccessOwned, Action{
		Name: "watch full video",
		Run:  func(context.Context) error { return nil },
	})

	assert.Equal(t, OutcomeExecuted, outcome)
	assert.Len(t, notifier.successes, 1)
	assert.Empty(t, notifier.errors)
}

func TestDispatchOwnedFailureSingleNotification(t *testing.T) {
	notifier := &notifierSpy{}
	dispatcher := NewDispatcher(newSession(t, &Identity{ID: "uid-1", Role: RoleStudent}), notifier)

	outcome := dispatcher.Dispatch(context.Background(), AccessOwned, Action{
		Name: "watch full video",
		Run:  func(context.Context) error { return errors.New("stream unavailable") },
	})

	assert.Equal(t, OutcomeExecuted, outcome)
	assert.Empty(t, notifier.successes)
	assert.Len(t, notifier.errors, 1)
}

func TestDispatchUploadNonVerifiedRedirectsToVerification(t *testing.T) {
	// Прямой переход на маршрут загрузки без верификации: немедленный
	// редирект на верификацию, одно уведомление, форма не рендерится
	notifier := &notifierSpy{}
	dispatcher := NewDispatcher(newSession(t, &Identity{ID: "uid-1", Role: RoleStudent}), notifier)

	rendered := false
	outcome := dispatcher.DispatchUpload(context.Background(), Action{
		Name: "upload video",
		Run: func(context.Context) error {
			rendered = true
			return nil
		},
	})

	assert.Equal(t, OutcomeRedirectVerification, outcome)
	assert.False(t, rendered)
	assert.Equal(t, 1, notifier.total())
}

func TestDispatchUploadVerifiedCreator(t *testing.T) {
	notifier := &notifierSpy{}
	dispatcher := NewDispatcher(newSession(t, &Identity{ID: "uid-1", Role: RoleProfessionalCoder}), notifier)

	outcome := dispatcher.DispatchUpload(context.Background(), Action{
		Name: "upload video",
		Run:  func(context.Context) error { return nil },
	})

	assert.Equal(t, OutcomeExecuted, outcome)
	assert.Len(t, notifier.successes, 1)
}

func TestDispatchUploadAnonymous(t *testing.T) {
	notifier := &notifierSpy{}
	dispatcher := NewDispatcher(newSession(t, nil), notifier)

	outcome := dispatcher.DispatchUpload(context.Background(), Action{
		Name: "upload video",
		Run:  func(context.Context) error { return nil },
	})

	assert.Equal(t, OutcomeRedirectLogin, outcome)
	assert.Equal(t, 1, notifier.total())
}
