package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/learnhub-access/internal/http/middlewarectx"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, ownerUID, title string, price int, visibility string) (string, error) {
	args := m.Called(ctx, ownerUID, title, price, visibility)
	return args.String(0), args.Error(1)
}

func TestContentCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		userUID        string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешная публикация",
			userUID: "creator-1",
			body:    `{"title":"Go with Tests","price":4990,"visibility":"public"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "creator-1", "Go with Tests", 4990, "public").
					Return("content-1", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"content-1"`,
		},
		{
			name:           "запрос без пользователя",
			userUID:        "",
			body:           `{"title":"Go with Tests","price":4990}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:           "некорректный JSON",
			userUID:        "creator-1",
			body:           `{"title":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "пустое название",
			userUID:        "creator-1",
			body:           `{"title":"","price":4990}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Title is a required field`,
		},
		{
			name:           "неизвестная видимость",
			userUID:        "creator-1",
			body:           `{"title":"Go with Tests","price":4990,"visibility":"secret"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Visibility has an unsupported value`,
		},
		{
			name:    "ошибка сервиса",
			userUID: "creator-1",
			body:    `{"title":"Go with Tests","price":4990,"visibility":"public"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "creator-1", "Go with Tests", 4990, "public").
					Return("", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not create content"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/content", strings.NewReader(tt.body))
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
