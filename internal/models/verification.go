package models

import "time"

// Статусы заявки на верификацию автора.
const (
	VerificationNotApplied  = "not_applied"  // Заявка не подавалась
	VerificationUnderReview = "under_review" // Заявка на рассмотрении
	VerificationApproved    = "approved"     // Одобрена, терминальный статус
	VerificationRejected    = "rejected"     // Отклонена, допускается повторная подача
)

// VerificationApplication представляет заявку пользователя на статус
// верифицированного автора. Актуальной считается последняя заявка
// пользователя; одобрение переводит роль пользователя в professional_coder.
type VerificationApplication struct {
	ID          string     // Уникальный идентификатор заявки
	UserUID     string     // Идентификатор заявителя
	Status      string     // under_review, approved или rejected
	Notes       string     // Сопроводительные материалы заявителя
	ReviewNotes string     // Комментарий администратора при решении
	SubmittedAt time.Time  // Момент подачи
	DecidedAt   *time.Time // Момент решения, nil пока заявка на рассмотрении
}

// VerificationView — представление заявки, отдаваемое клиенту.
type VerificationView struct {
	ID          string     `json:"id,omitempty"`
	Status      string     `json:"status"`
	ReviewNotes string     `json:"review_notes,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
}

// View конвертирует VerificationApplication в VerificationView.
// Для статуса not_applied временные поля опускаются.
func (a *VerificationApplication) View() VerificationView {
	view := VerificationView{
		ID:          a.ID,
		Status:      a.Status,
		ReviewNotes: a.ReviewNotes,
		DecidedAt:   a.DecidedAt,
	}
	if !a.SubmittedAt.IsZero() {
		submitted := a.SubmittedAt
		view.SubmittedAt = &submitted
	}
	return view
}
