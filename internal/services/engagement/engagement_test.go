package engagement

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/learnhub-access/internal/models"
	"github.com/magabrotheeeer/learnhub-access/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetContentItem(ctx context.Context, id string) (*models.ContentItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContentItem), args.Error(1)
}

func (m *RepoMock) ToggleEngagement(ctx context.Context, contentID, userUID, action string) (*models.ToggleResult, error) {
	args := m.Called(ctx, contentID, userUID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ToggleResult), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Toggle(t *testing.T) {
	item := &models.ContentItem{ID: "c-1", Title: "Advanced Go", OwnerUID: "creator-1"}

	tests := []struct {
		name       string
		action     string
		setupMocks func(r *RepoMock, c *CacheMock)
		want       *models.ToggleResult
		wantErr    error
	}{
		{
			name:   "лайк возвращает серверные счётчики",
			action: models.ActionLiked,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("GetContentItem", mock.Anything, "c-1").Return(item, nil)
				r.On("ToggleEngagement", mock.Anything, "c-1", "u-1", models.ActionLiked).
					Return(&models.ToggleResult{Success: true, Likes: 5, Dislikes: 2, UserAction: models.ActionLiked}, nil)
				c.On("Invalidate", "content:c-1").Return(nil)
			},
			want: &models.ToggleResult{Success: true, Likes: 5, Dislikes: 2, UserAction: models.ActionLiked},
		},
		{
			name:   "контент не найден",
			action: models.ActionLiked,
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("GetContentItem", mock.Anything, "c-1").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrContentNotFound,
		},
		{
			name:   "ошибка хранилища пробрасывается",
			action: models.ActionDisliked,
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("GetContentItem", mock.Anything, "c-1").Return(item, nil)
				r.On("ToggleEngagement", mock.Anything, "c-1", "u-1", models.ActionDisliked).
					Return(nil, errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, cache)

			svc := New(repo, cache, newNoopLogger())
			got, err := svc.Toggle(context.Background(), "u-1", "c-1", tt.action)

			if tt.wantErr != nil {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestService_ToggleSucceedsWhenCacheInvalidationFails(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	repo.On("GetContentItem", mock.Anything, "c-1").
		Return(&models.ContentItem{ID: "c-1"}, nil)
	repo.On("ToggleEngagement", mock.Anything, "c-1", "u-1", models.ActionLiked).
		Return(&models.ToggleResult{Success: true, Likes: 1, UserAction: models.ActionLiked}, nil)
	cache.On("Invalidate", "content:c-1").Return(errors.New("redis down"))

	svc := New(repo, cache, newNoopLogger())
	got, err := svc.Toggle(context.Background(), "u-1", "c-1", models.ActionLiked)

	require.NoError(t, err)
	assert.True(t, got.Success)
}
