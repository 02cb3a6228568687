package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hitoshi/devconnect/internal/model"
	"github.com/hitoshi/devconnect/internal/repository"
)

// --- モック ---

type mockProfileRepo struct {
	findByUserIDFn func(ctx context.Context, userID string) (*model.Profile, error)
}

func (m *mockProfileRepo) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	if m.findByUserIDFn != nil {
		return m.findByUserIDFn(ctx, userID)
	}
	return nil, nil
}
func (m *mockProfileRepo) List(context.Context) ([]*model.Profile, error) { return nil, nil }
func (m *mockProfileRepo) Upsert(context.Context, string, model.ProfileFields) (*model.Profile, error) {
	return nil, nil
}
func (m *mockProfileRepo) MutateByUserID(context.Context, string, func(*model.Profile) error) (*model.Profile, error) {
	return nil, nil
}

type mockRemover struct {
	removeFn func(ctx context.Context, userID string) error
}

func (m *mockRemover) RemoveAccount(ctx context.Context, userID string) error {
	return m.removeFn(ctx, userID)
}

var (
	_ repository.ProfileRepository = (*mockProfileRepo)(nil)
	_ repository.AccountRemover    = (*mockRemover)(nil)
)

// --- テスト ---

// TestService_Withdraw は退会処理がアカウント削除を呼び出すことを検証する。
func TestService_Withdraw(t *testing.T) {
	var removed string
	profiles := &mockProfileRepo{
		findByUserIDFn: func(ctx context.Context, userID string) (*model.Profile, error) {
			return &model.Profile{User: model.UserSummary{ID: userID}}, nil
		},
	}
	remover := &mockRemover{removeFn: func(ctx context.Context, userID string) error {
		removed = userID
		return nil
	}}

	svc := NewService(profiles, remover)
	if err := svc.Withdraw(context.Background(), model.Identity{ID: "u1"}); err != nil {
		t.Fatalf("Withdraw() error: %v", err)
	}
	if removed != "u1" {
		t.Errorf("removed = %q, want u1", removed)
	}
}

// TestService_Withdraw_NoProfile はプロフィールがなくてもアカウントを削除することを検証する。
func TestService_Withdraw_NoProfile(t *testing.T) {
	called := false
	remover := &mockRemover{removeFn: func(ctx context.Context, userID string) error {
		called = true
		return nil
	}}

	svc := NewService(&mockProfileRepo{}, remover)
	if err := svc.Withdraw(context.Background(), model.Identity{ID: "u1"}); err != nil {
		t.Fatalf("Withdraw() error: %v", err)
	}
	if !called {
		t.Error("RemoveAccount was not called")
	}
}

// TestService_Withdraw_NotOwner は他人のプロフィールが返った場合に削除しないことを検証する。
func TestService_Withdraw_NotOwner(t *testing.T) {
	profiles := &mockProfileRepo{
		findByUserIDFn: func(ctx context.Context, userID string) (*model.Profile, error) {
			return &model.Profile{User: model.UserSummary{ID: "someone-else"}}, nil
		},
	}
	remover := &mockRemover{removeFn: func(ctx context.Context, userID string) error {
		t.Fatal("RemoveAccount must not be called")
		return nil
	}}

	err := NewService(profiles, remover).Withdraw(context.Background(), model.Identity{ID: "u1"})
	if !errors.Is(err, model.ErrUnauthorized) {
		t.Errorf("err = %v, want UnauthorizedError", err)
	}
}

// TestService_Withdraw_RemoveError は削除失敗がラップされて返ることを検証する。
func TestService_Withdraw_RemoveError(t *testing.T) {
	dbErr := errors.New("db down")
	remover := &mockRemover{removeFn: func(ctx context.Context, userID string) error {
		return dbErr
	}}

	err := NewService(&mockProfileRepo{}, remover).Withdraw(context.Background(), model.Identity{ID: "u1"})
	if !errors.Is(err, dbErr) {
		t.Errorf("err = %v, want wrapped db error", err)
	}
	if !strings.HasPrefix(err.Error(), "failed to remove account: ") {
		t.Errorf("err = %q, want failed to remove account prefix", err.Error())
	}
}

// TestService_Withdraw_FindProfileError はプロフィール取得失敗がラップされて返ることを検証する。
func TestService_Withdraw_FindProfileError(t *testing.T) {
	dbErr := errors.New("db down")
	profiles := &mockProfileRepo{findByUserIDFn: func(ctx context.Context, userID string) (*model.Profile, error) {
		return nil, dbErr
	}}
	removed := false
	remover := &mockRemover{removeFn: func(ctx context.Context, userID string) error {
		removed = true
		return nil
	}}

	err := NewService(profiles, remover).Withdraw(context.Background(), model.Identity{ID: "u1"})
	if !errors.Is(err, dbErr) {
		t.Errorf("err = %v, want wrapped db error", err)
	}
	if err == nil || !strings.HasPrefix(err.Error(), "failed to find profile: ") {
		t.Errorf("err = %v, want failed to find profile prefix", err)
	}
	if removed {
		t.Error("account must not be removed when the profile lookup fails")
	}
}
