package accessctl

import "errors"

// Классы ошибок, наблюдаемые встраивающим кодом. Каждая ошибка пакета
// оборачивает одну из них, конкретный класс проверяется через errors.Is.
var (
	// ErrUnauthenticated — сервер отклонил запрос как неаутентифицированный.
	// Разрешается переходом на вход, а не повтором запроса; кэшированную
	// сессию сама по себе не сбрасывает.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden — действие без нужной роли или уровня доступа.
	// Разрешается переходом на покупку или верификацию.
	ErrForbidden = errors.New("forbidden")

	// ErrTransient — запрос завершился без определённого ответа сервера.
	// Локальное состояние сохраняется, пользователю показывается
	// одно уведомление.
	ErrTransient = errors.New("transient failure")

	// ErrValidation — данные отклонены до или во время отправки.
	ErrValidation = errors.New("validation failed")

	// ErrToggleInFlight — по этой единице контента уже выполняется
	// переключение реакции, повторное отклоняется, а не ставится в очередь.
	ErrToggleInFlight = errors.New("toggle already in flight")
)
