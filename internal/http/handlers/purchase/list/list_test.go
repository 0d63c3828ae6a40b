package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/learnhub-access/internal/http/middlewarectx"
	"github.com/magabrotheeeer/learnhub-access/internal/models"
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ListPurchased(ctx context.Context, userUID string) ([]*models.PurchasedItem, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.([]*models.PurchasedItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestPurchaseListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешный список покупок",
			userUID: "uid-123",
			setupMock: func(m *MockService) {
				items := []*models.PurchasedItem{
					{
						ContentID:   "content-1",
						Title:       "Go with Tests",
						OwnerUID:    "creator-1",
						Price:       4990,
						PurchasedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
					},
				}
				m.On("ListPurchased", mock.Anything, "uid-123").Return(items, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"Go with Tests"`,
		},
		{
			name:    "пустой список покупок",
			userUID: "uid-123",
			setupMock: func(m *MockService) {
				m.On("ListPurchased", mock.Anything, "uid-123").
					Return([]*models.PurchasedItem(nil), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"items":[]`,
		},
		{
			name:           "запрос без пользователя",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:    "ошибка сервиса",
			userUID: "uid-123",
			setupMock: func(m *MockService) {
				m.On("ListPurchased", mock.Anything, "uid-123").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not list purchased items"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/purchased-items", nil)
			if tt.userUID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID)
				req = req.WithContext(ctx)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
