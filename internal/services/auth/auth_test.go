package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/learnhub-access/internal/lib/jwt"
	"github.com/magabrotheeeer/learnhub-access/internal/lib/password"
	"github.com/magabrotheeeer/learnhub-access/internal/models"
	"github.com/magabrotheeeer/learnhub-access/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// revokerStub — потокобезопасное хранилище отозванных токенов в памяти.
type revokerStub struct {
	mu   sync.Mutex
	keys map[string]bool
	err  error
}

func newRevokerStub() *revokerStub { return &revokerStub{keys: map[string]bool{}} }

func (r *revokerStub) Set(key string, _ any, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.keys[key] = true
	return nil
}

func (r *revokerStub) Exists(key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	return r.keys[key], nil
}

func testUser(t *testing.T) *models.User {
	t.Helper()
	hash, err := password.GetHash("correct-password")
	require.NoError(t, err)
	return &models.User{
		UID:          "uid-1",
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: hash,
		Role:         models.RoleStudent,
	}
}

func TestService_Register(t *testing.T) {
	repo := new(RepoMock)
	repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "alice" &&
			u.Role == models.RoleStudent &&
			u.PasswordHash != "correct-password"
	})).Return("uid-1", nil)

	svc := New(repo, jwt.NewJWTMaker("secret", time.Hour), newRevokerStub(), time.Hour)

	uid, err := svc.Register(context.Background(), "alice@example.com", "alice", "correct-password")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
	repo.AssertExpectations(t)
}

func TestService_Login(t *testing.T) {
	user := testUser(t)
	errStorage := errors.New("connection refused")

	tests := []struct {
		name      string
		password  string
		setupMock func(r *RepoMock)
		wantErr   error
	}{
		{
			name:     "успешный вход",
			password: "correct-password",
			setupMock: func(r *RepoMock) {
				r.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil)
			},
		},
		{
			name:     "неверный пароль",
			password: "wrong-password",
			setupMock: func(r *RepoMock) {
				r.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "пользователь не найден",
			password: "correct-password",
			setupMock: func(r *RepoMock) {
				r.On("GetUserByUsername", mock.Anything, "alice").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "отказ хранилища не маскируется под неверные данные",
			password: "correct-password",
			setupMock: func(r *RepoMock) {
				r.On("GetUserByUsername", mock.Anything, "alice").
					Return(nil, errStorage)
			},
			wantErr: errStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMock(repo)

			svc := New(repo, jwt.NewJWTMaker("secret", time.Hour), newRevokerStub(), time.Hour)
			token, gotUser, err := svc.Login(context.Background(), "alice", tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Equal(t, user, gotUser)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_CheckReturnsStorageRole(t *testing.T) {
	user := testUser(t)
	maker := jwt.NewJWTMaker("secret", time.Hour)

	token, err := maker.GenerateToken(user.Username, user.Role, user.UID)
	require.NoError(t, err)

	// В хранилище роль уже повышена: claims в токене устарели.
	promoted := *user
	promoted.Role = models.RoleProfessionalCoder

	repo := new(RepoMock)
	repo.On("GetUser", mock.Anything, "uid-1").Return(&promoted, nil)

	svc := New(repo, maker, newRevokerStub(), time.Hour)
	got, err := svc.Check(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleProfessionalCoder, got.Role)
}

func TestService_CheckStorageFailureIsNotInvalidToken(t *testing.T) {
	user := testUser(t)
	maker := jwt.NewJWTMaker("secret", time.Hour)

	token, err := maker.GenerateToken(user.Username, user.Role, user.UID)
	require.NoError(t, err)

	errStorage := errors.New("connection refused")
	repo := new(RepoMock)
	repo.On("GetUser", mock.Anything, "uid-1").Return(nil, errStorage)

	svc := New(repo, maker, newRevokerStub(), time.Hour)
	_, err = svc.Check(context.Background(), token)
	assert.ErrorIs(t, err, errStorage)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestService_CheckDeletedUserIsInvalidToken(t *testing.T) {
	user := testUser(t)
	maker := jwt.NewJWTMaker("secret", time.Hour)

	token, err := maker.GenerateToken(user.Username, user.Role, user.UID)
	require.NoError(t, err)

	repo := new(RepoMock)
	repo.On("GetUser", mock.Anything, "uid-1").Return(nil, repository.ErrNotFound)

	svc := New(repo, maker, newRevokerStub(), time.Hour)
	_, err = svc.Check(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_CheckInvalidToken(t *testing.T) {
	svc := New(new(RepoMock), jwt.NewJWTMaker("secret", time.Hour), newRevokerStub(), time.Hour)

	_, err := svc.Check(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_LogoutRevokesToken(t *testing.T) {
	user := testUser(t)
	maker := jwt.NewJWTMaker("secret", time.Hour)
	revoker := newRevokerStub()

	token, err := maker.GenerateToken(user.Username, user.Role, user.UID)
	require.NoError(t, err)

	repo := new(RepoMock)
	repo.On("GetUser", mock.Anything, "uid-1").Return(user, nil)

	svc := New(repo, maker, revoker, time.Hour)

	_, err = svc.Check(context.Background(), token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))

	_, err = svc.Check(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_LogoutGarbageTokenIsNoop(t *testing.T) {
	svc := New(new(RepoMock), jwt.NewJWTMaker("secret", time.Hour), newRevokerStub(), time.Hour)
	assert.NoError(t, svc.Logout(context.Background(), "garbage"))
}
