// Package profile は開発者プロフィールの集約（疎な部分更新、職歴・学歴の編集）を提供する。
package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hitoshi/devconnect/internal/model"
	"github.com/hitoshi/devconnect/internal/repository"
	"github.com/hitoshi/devconnect/internal/security"
	"github.com/hitoshi/devconnect/internal/sublist"
)

const (
	msgNoProfile          = "There is no profile for this user"
	msgProfileNotFound    = "Profile not found"
	msgExperienceNotFound = "Experience not found"
	msgEducationNotFound  = "Education not found"
)

// Service はプロフィールのサービス層。
type Service struct {
	profiles  repository.ProfileRepository
	sanitizer security.TextSanitizer
}

// NewService はServiceを生成する。
func NewService(profiles repository.ProfileRepository, sanitizer security.TextSanitizer) *Service {
	return &Service{profiles: profiles, sanitizer: sanitizer}
}

// Me は呼び出し元のプロフィールを返す。
func (s *Service) Me(ctx context.Context, identity model.Identity) (*model.Profile, error) {
	p, err := s.profiles.FindByUserID(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	if p == nil {
		return nil, model.NewNotFoundError(msgNoProfile)
	}
	return p, nil
}

// Upsert は呼び出し元のプロフィールを作成、または指定されたフィールドだけ更新する。
// 未指定のフィールドは既存値が維持され、SNSリンクはキー単位でマージされる。
func (s *Service) Upsert(ctx context.Context, identity model.Identity, in Input) (*model.Profile, error) {
	fields := BuildFields(in)
	if fields.Bio != nil {
		// タグだけの自己紹介は未指定として扱い、既存値を残す
		if bio := s.sanitizer.Sanitize(*fields.Bio); bio != "" {
			fields.Bio = &bio
		} else {
			fields.Bio = nil
		}
	}

	p, err := s.profiles.Upsert(ctx, identity.ID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return p, nil
}

// List は全プロフィールを返す。
func (s *Service) List(ctx context.Context) ([]*model.Profile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// GetByUserID は指定ユーザーのプロフィールを返す。
func (s *Service) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	if uuid.Validate(userID) != nil {
		return nil, model.NewNotFoundError(msgProfileNotFound)
	}
	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	if p == nil {
		return nil, model.NewNotFoundError(msgProfileNotFound)
	}
	return p, nil
}

// AddExperience は職歴を先頭に追加する。IDはここで採番される。
func (s *Service) AddExperience(ctx context.Context, identity model.Identity, exp model.Experience) (*model.Profile, error) {
	exp.ID = uuid.New().String()
	return s.mutate(ctx, identity, func(p *model.Profile) error {
		p.Experience = sublist.Prepend(p.Experience, exp)
		return nil
	})
}

// DeleteExperience は指定IDの職歴を削除する。
func (s *Service) DeleteExperience(ctx context.Context, identity model.Identity, expID string) (*model.Profile, error) {
	return s.mutate(ctx, identity, func(p *model.Profile) error {
		list, err := sublist.RemoveByID(p.Experience, expID)
		if errors.Is(err, sublist.ErrNotFound) {
			return model.NewNotFoundError(msgExperienceNotFound)
		}
		p.Experience = list
		return nil
	})
}

// AddEducation は学歴を先頭に追加する。
func (s *Service) AddEducation(ctx context.Context, identity model.Identity, edu model.Education) (*model.Profile, error) {
	edu.ID = uuid.New().String()
	return s.mutate(ctx, identity, func(p *model.Profile) error {
		p.Education = sublist.Prepend(p.Education, edu)
		return nil
	})
}

// DeleteEducation は指定IDの学歴を削除する。
func (s *Service) DeleteEducation(ctx context.Context, identity model.Identity, eduID string) (*model.Profile, error) {
	return s.mutate(ctx, identity, func(p *model.Profile) error {
		list, err := sublist.RemoveByID(p.Education, eduID)
		if errors.Is(err, sublist.ErrNotFound) {
			return model.NewNotFoundError(msgEducationNotFound)
		}
		p.Education = list
		return nil
	})
}

// mutate は呼び出し元のプロフィールを行ロックしてfnを適用する。
// 対象は常に呼び出し元自身のプロフィールなので所有者判定は不要。
func (s *Service) mutate(ctx context.Context, identity model.Identity, fn func(p *model.Profile) error) (*model.Profile, error) {
	p, err := s.profiles.MutateByUserID(ctx, identity.ID, fn)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if p == nil {
		return nil, model.NewNotFoundError(msgNoProfile)
	}
	return p, nil
}
