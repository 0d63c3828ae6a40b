package accessctl

import "context"

// Access — уровень доступа личности к единице контента.
type Access string

// Уровни доступа.
const (
	// AccessLocked — пользователь не аутентифицирован.
	AccessLocked Access = "locked"
	// AccessPurchasable — аутентифицирован, покупка доступна.
	AccessPurchasable Access = "purchasable"
	// AccessOwned — полный доступ: покупка, владение, admin или
	// бесплатный контент.
	AccessOwned Access = "owned"
)

// ResolveAccess вычисляет уровень доступа личности к контенту по списку
// покупок. Чистая функция: не выполняет сетевых вызовов.
//
// Правила: без личности — Locked; владелец, админ, бесплатный контент или
// покупка — Owned; иначе Purchasable. Пустой или отсутствующий список
// покупок никогда не повышает уровень.
func ResolveAccess(identity *Identity, item ContentItem, purchases []ContentItem) Access {
	if identity == nil {
		return AccessLocked
	}
	if identity.Role == RoleAdmin || (item.OwnerID != "" && item.OwnerID == identity.ID) {
		return AccessOwned
	}
	if item.Price == 0 {
		return AccessOwned
	}
	for _, p := range purchases {
		if p.Key() == item.Key() {
			return AccessOwned
		}
	}
	return AccessPurchasable
}

// ResolveUploadCapability сообщает, доступна ли личности загрузка контента.
// Только верифицированный автор или админ; всем остальным загрузка
// закрывается переходом на верификацию ещё до отрисовки формы.
func ResolveUploadCapability(identity *Identity) bool {
	if identity == nil {
		return false
	}
	return identity.Role == RoleProfessionalCoder || identity.Role == RoleAdmin
}

// Resolver вычисляет уровень доступа, самостоятельно запрашивая покупки
// текущего пользователя с сервера.
type Resolver struct {
	client  *Client
	session *SessionStore
}

// NewResolver создает резолвер поверх API-клиента и хранилища сессии.
func NewResolver(client *Client, session *SessionStore) *Resolver {
	return &Resolver{client: client, session: session}
}

// Resolve возвращает уровень доступа текущего пользователя к контенту.
//
// Ошибка запроса покупок закрывает доступ, а не открывает: уровень
// вычисляется по пустому списку покупок, ошибка возвращается вместе
// с результатом для уведомления пользователя.
func (r *Resolver) Resolve(ctx context.Context, item ContentItem) (Access, error) {
	identity := r.session.Current()
	if identity == nil {
		return AccessLocked, nil
	}

	purchases, err := r.client.PurchasedItems(ctx, r.session.Token())
	if err != nil {
		return ResolveAccess(identity, item, nil), err
	}
	return ResolveAccess(identity, item, purchases), nil
}
