// Package auth はパスワード認証、トークンの発行・検証を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/devconnect/internal/gravatar"
	"github.com/hitoshi/devconnect/internal/model"
	"github.com/hitoshi/devconnect/internal/repository"
)

// TokenIssuer はidentityに対するトークンを発行する。
type TokenIssuer interface {
	Issue(identity model.Identity) (string, error)
}

// Service は登録・ログイン・ログイン中ユーザー取得のビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	now      func() time.Time
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		now:      time.Now,
	}
}

// Register はユーザーを登録し、トークンを発行する。
// アバターはメールアドレスのGravatar URLから決定される。
func (s *Service) Register(ctx context.Context, name, email, password string) (string, error) {
	email = strings.TrimSpace(email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to find user by email: %w", err)
	}
	if existing != nil {
		return "", model.NewUserExistsError()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		Avatar:       gravatar.URL(email),
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	// 同時登録の競合はリポジトリの一意制約でErrUserExistsになる
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", err
	}

	slog.Info("user registered", slog.String("user_id", user.ID))

	return s.tokens.Issue(model.Identity{ID: user.ID})
}

// Login はメールアドレスとパスワードを照合し、トークンを発行する。
// ユーザー不在とパスワード不一致は区別せずInvalidCredentialsErrorを返す。
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		return "", model.NewInvalidCredentialsError()
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", model.NewInvalidCredentialsError()
	}

	return s.tokens.Issue(model.Identity{ID: user.ID})
}

// CurrentUser はidentityに対応するユーザーを返す。
// トークンは有効だがユーザーが削除済みの場合はNotFoundErrorを返す。
func (s *Service) CurrentUser(ctx context.Context, identity model.Identity) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("User not found")
	}
	return user, nil
}
