package accessctl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAccess(t *testing.T) {
	student := &Identity{ID: "uid-1", Name: "student1", Role: RoleStudent}
	admin := &Identity{ID: "uid-9", Name: "root", Role: RoleAdmin}
	pricedItem := ContentItem{ID: "c1", OwnerID: "creator-1", Price: 4990}
	freeItem := ContentItem{ID: "c2", OwnerID: "creator-1", Price: 0}

	tests := []struct {
		name      string
		identity  *Identity
		item      ContentItem
		purchases []ContentItem
		expected  Access
	}{
		{
			name:     "аноним получает locked",
			identity: nil,
			item:     pricedItem,
			expected: AccessLocked,
		},
		{
			name:     "аутентифицированный без покупки получает purchasable",
			identity: student,
			item:     pricedItem,
			expected: AccessPurchasable,
		},
		{
			name:      "покупка дает owned",
			identity:  student,
			item:      pricedItem,
			purchases: []ContentItem{{ContentID: "c1"}},
			expected:  AccessOwned,
		},
		{
			name:      "чужая покупка не дает owned",
			identity:  student,
			item:      pricedItem,
			purchases: []ContentItem{{ContentID: "c777"}},
			expected:  AccessPurchasable,
		},
		{
			name:     "владелец получает owned без покупки",
			identity: &Identity{ID: "creator-1", Role: RoleCreator},
			item:     pricedItem,
			expected: AccessOwned,
		},
		{
			name:     "админ получает owned",
			identity: admin,
			item:     pricedItem,
			expected: AccessOwned,
		},
		{
			name:     "бесплатный контент всегда owned для аутентифицированного",
			identity: student,
			item:     freeItem,
			expected: AccessOwned,
		},
		{
			name:      "бесплатный контент owned независимо от списка покупок",
			identity:  student,
			item:      freeItem,
			purchases: []ContentItem{{ContentID: "c999"}},
			expected:  AccessOwned,
		},
		{
			name:     "бесплатный контент для анонима остается locked",
			identity: nil,
			item:     freeItem,
			expected: AccessLocked,
		},
		{
			name:      "nil список покупок не дает owned для платного",
			identity:  student,
			item:      pricedItem,
			purchases: nil,
			expected:  AccessPurchasable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveAccess(tt.identity, tt.item, tt.purchases))
		})
	}
}

func TestResolveUploadCapability(t *testing.T) {
	tests := []struct {
		name     string
		identity *Identity
		expected bool
	}{
		{name: "аноним не загружает", identity: nil, expected: false},
		{name: "студент не загружает", identity: &Identity{Role: RoleStudent}, expected: false},
		{name: "автор без верификации не загружает", identity: &Identity{Role: RoleCreator}, expected: false},
		{name: "верифицированный автор загружает", identity: &Identity{Role: RoleProfessionalCoder}, expected: true},
		{name: "админ загружает", identity: &Identity{Role: RoleAdmin}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveUploadCapability(tt.identity))
		})
	}
}

func TestResolverFailClosed(t *testing.T) {
	// Сервер покупок недоступен: доступ к платному контенту не должен
	// подниматься до owned.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	storage := NewMemoryStorage()
	session := NewSessionStore(client, storage)
	require.NoError(t, session.SetSession(&Identity{ID: "uid-1", Role: RoleStudent}, "token"))

	resolver := NewResolver(client, session)
	access, err := resolver.Resolve(context.Background(), ContentItem{ID: "c1", Price: 4990})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransient)
	assert.Equal(t, AccessPurchasable, access)
	assert.NotEqual(t, AccessOwned, access)
}

func TestResolverAnonymous(t *testing.T) {
	client := NewClient("http://127.0.0.1:0")
	session := NewSessionStore(client, NewMemoryStorage())

	resolver := NewResolver(client, session)
	access, err := resolver.Resolve(context.Background(), ContentItem{ID: "c1", Price: 4990})

	require.NoError(t, err)
	assert.Equal(t, AccessLocked, access)
}
