package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/learnhub-access/internal/http/middlewarectx"
	"github.com/magabrotheeeer/learnhub-access/internal/models"
	accessservice "github.com/magabrotheeeer/learnhub-access/internal/services/access"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) GetContentView(ctx context.Context, viewer *models.User, contentID string) (*models.ContentView, string, error) {
	args := m.Called(ctx, viewer, contentID)
	if res := args.Get(0); res != nil {
		return res.(*models.ContentView), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

func TestContentReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	view := &models.ContentView{
		ID:         "content-1",
		Title:      "Go with Tests",
		OwnerUID:   "creator-1",
		Price:      4990,
		Visibility: models.VisibilityPublic,
		Likes:      10,
		Dislikes:   2,
		UserAction: models.ActionLiked,
	}

	tests := []struct {
		name           string
		userUID        string
		contentID      string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "карточка для аутентифицированного пользователя",
			userUID:   "uid-123",
			contentID: "content-1",
			setupMock: func(m *MockService) {
				m.On("GetContentView", mock.Anything,
					mock.MatchedBy(func(u *models.User) bool { return u != nil && u.UID == "uid-123" }),
					"content-1").
					Return(view, accessservice.TierOwned, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"tier":"owned"`,
		},
		{
			name:      "анонимный запрос получает locked",
			userUID:   "",
			contentID: "content-1",
			setupMock: func(m *MockService) {
				m.On("GetContentView", mock.Anything, (*models.User)(nil), "content-1").
					Return(view, accessservice.TierLocked, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"tier":"locked"`,
		},
		{
			name:      "контент не найден",
			userUID:   "",
			contentID: "missing",
			setupMock: func(m *MockService) {
				m.On("GetContentView", mock.Anything, (*models.User)(nil), "missing").
					Return(nil, "", accessservice.ErrContentNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"content not found"`,
		},
		{
			name:      "ошибка сервиса",
			userUID:   "",
			contentID: "content-1",
			setupMock: func(m *MockService) {
				m.On("GetContentView", mock.Anything, (*models.User)(nil), "content-1").
					Return(nil, "", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not read content"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/content/"+tt.contentID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.contentID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
				ctx = context.WithValue(ctx, middlewarectx.User, "student1")
				ctx = context.WithValue(ctx, middlewarectx.Role, models.RoleStudent)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
