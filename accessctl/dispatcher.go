package accessctl

import "context"

// Outcome — исход диспетчеризации закрытого действия.
type Outcome string

// Исходы. Действие либо выполнено, либо заменено переходом на
// соответствующий поток; после входа действие не повторяется
// автоматически — пользователь инициирует его заново.
const (
	// OutcomeExecuted — действие выполнено, пользователь уведомлён ровно
	// один раз об успехе или ошибке.
	OutcomeExecuted Outcome = "executed"
	// OutcomeRedirectLogin — личности нет, нужен вход.
	OutcomeRedirectLogin Outcome = "redirect_login"
	// OutcomeRedirectPurchase — доступа нет, нужен поток покупки.
	OutcomeRedirectPurchase Outcome = "redirect_purchase"
	// OutcomeRedirectVerification — нет права загрузки, нужен поток
	// верификации автора.
	OutcomeRedirectVerification Outcome = "redirect_verification"
)

// Notifier доставляет пользователю уведомления об исходе действия.
// Диспетчер гарантирует ровно одно уведомление на действие.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Action — закрытое действие: имя для уведомлений и функция выполнения.
type Action struct {
	Name string
	Run  func(ctx context.Context) error
}

// Dispatcher выполняет закрытые действия после проверки личности
// и уровня доступа. Единая точка контроля: прямой переход на закрытый
// маршрут проходит ту же проверку, что и клик по кнопке.
type Dispatcher struct {
	session  *SessionStore
	notifier Notifier
}

// NewDispatcher создает диспетчер поверх хранилища сессии и уведомителя.
func NewDispatcher(session *SessionStore, notifier Notifier) *Dispatcher {
	return &Dispatcher{session: session, notifier: notifier}
}

// Dispatch выполняет действие, требующее уровня доступа Owned.
//
// Без личности — переход на вход; без Owned — переход на покупку; иначе
// действие выполняется и пользователь уведомляется ровно один раз.
func (d *Dispatcher) Dispatch(ctx context.Context, entitlement Access, action Action) Outcome {
	if d.session.Current() == nil {
		d.notifier.Error("please sign in to continue")
		return OutcomeRedirectLogin
	}
	if entitlement != AccessOwned {
		d.notifier.Error("purchase required to " + action.Name)
		return OutcomeRedirectPurchase
	}
	d.run(ctx, action)
	return OutcomeExecuted
}

// DispatchUpload выполняет действие загрузки контента. Право загрузки
// проверяется до любой логики действия: не-верифицированный пользователь
// получает переход на верификацию и одно объясняющее уведомление.
func (d *Dispatcher) DispatchUpload(ctx context.Context, action Action) Outcome {
	identity := d.session.Current()
	if identity == nil {
		d.notifier.Error("please sign in to continue")
		return OutcomeRedirectLogin
	}
	if !ResolveUploadCapability(identity) {
		d.notifier.Error("verification required to " + action.Name)
		return OutcomeRedirectVerification
	}
	d.run(ctx, action)
	return OutcomeExecuted
}

func (d *Dispatcher) run(ctx context.Context, action Action) {
	if err := action.Run(ctx); err != nil {
		d.notifier.Error(action.Name + " failed")
		return
	}
	d.notifier.Success(action.Name + " succeeded")
}
