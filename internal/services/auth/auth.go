// Package auth содержит логику бизнес-уровня для работы с пользователями
// и аутентификацией: регистрация, вход, проверка и отзыв токенов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/learnhub-access/internal/lib/jwt"
	"github.com/magabrotheeeer/learnhub-access/internal/lib/password"
	"github.com/magabrotheeeer/learnhub-access/internal/models"
	"github.com/magabrotheeeer/learnhub-access/internal/storage/repository"
)

// Ошибки бизнес-уровня аутентификации.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// TokenRevoker хранит отозванные токены до истечения их срока жизни.
type TokenRevoker interface {
	Set(key string, value any, expiration time.Duration) error
	Exists(key string) (bool, error)
}

// Service отвечает за регистрацию, авторизацию, проверку и отзыв JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	revoked  TokenRevoker
	tokenTTL time.Duration
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker, revoked TokenRevoker, tokenTTL time.Duration) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		revoked:  revoked,
		tokenTTL: tokenTTL,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью student.
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         models.RoleStudent,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (token string, user *models.User, err error) {
	user, err = s.users.GetUserByUsername(ctx, username)
	if err != nil {
		// Недоступное хранилище не равносильно неверному паролю.
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("auth.Login: %w", err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Check проверяет токен и возвращает актуального пользователя из хранилища.
//
// Ответ хранилища авторитетен: роль берётся из базы, а не из claims,
// чтобы одобренная верификация была видна без перевыпуска токена.
// Отозванный или просроченный токен даёт ErrInvalidToken.
func (s *Service) Check(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	revoked, err := s.revoked.Exists(revokedKey(claims.ID))
	if err != nil {
		return nil, fmt.Errorf("auth.Check: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	user, err := s.users.GetUser(ctx, claims.UserUID)
	if err != nil {
		// Токен на удалённого пользователя недействителен; отказ
		// хранилища — нет, он должен дойти до клиента как 500.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("auth.Check: %w", err)
	}
	return user, nil
}

// Logout отзывает токен: помечает его в хранилище отозванных до конца TTL.
// Повторный Logout с тем же токеном не является ошибкой.
func (s *Service) Logout(_ context.Context, token string) error {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		// Просроченный или битый токен отзывать нечего.
		return nil
	}
	return s.revoked.Set(revokedKey(claims.ID), true, s.tokenTTL)
}

func revokedKey(tokenID string) string {
	return "revoked:" + tokenID
}
