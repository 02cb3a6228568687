// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/devconnect/internal/model"
	"github.com/hitoshi/devconnect/internal/policy"
	"github.com/hitoshi/devconnect/internal/repository"
)

// Service はユーザー管理のサービス層。
// 退会処理のビジネスロジックを提供する。
type Service struct {
	profileRepo repository.ProfileRepository
	remover     repository.AccountRemover
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(profileRepo repository.ProfileRepository, remover repository.AccountRemover) *Service {
	return &Service{
		profileRepo: profileRepo,
		remover:     remover,
	}
}

// Withdraw は呼び出し元のプロフィール・投稿・アカウントを削除する。
// プロフィールがない場合も投稿とアカウントは削除する。
func (s *Service) Withdraw(ctx context.Context, identity model.Identity) error {
	profile, err := s.profileRepo.FindByUserID(ctx, identity.ID)
	if err != nil {
		return fmt.Errorf("failed to find profile: %w", err)
	}
	if profile != nil {
		if err := policy.Require(identity, profile, "User not authorized"); err != nil {
			return err
		}
	}

	slog.Info("account removal started", slog.String("user_id", identity.ID))

	// profiles → posts → users を同一トランザクションで削除
	if err := s.remover.RemoveAccount(ctx, identity.ID); err != nil {
		return fmt.Errorf("failed to remove account: %w", err)
	}

	slog.Info("account removed", slog.String("user_id", identity.ID))

	return nil
}
