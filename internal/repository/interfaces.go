// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/devconnect/internal/model"
)

// UserRepository はユーザーと認証情報の永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	// メールアドレスが登録済みの場合はmodel.ErrUserExistsを返す。
	Create(ctx context.Context, user *model.User) error
}

// PostRepository は投稿ドキュメントの永続化インターフェース。
// いいね・コメントは投稿ドキュメントに埋め込まれて保存される。
type PostRepository interface {
	// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Post, error)

	// List は全投稿を作成日時の降順で返す。
	List(ctx context.Context) ([]*model.Post, error)

	// Create は投稿を作成する。
	Create(ctx context.Context, post *model.Post) error

	// Delete は指定IDの投稿を削除する。
	Delete(ctx context.Context, id string) error

	// Mutate は投稿を行ロックした上でfnを適用し、いいね・コメントを書き戻す。
	// 投稿が存在しない場合はfnを呼ばずnilを返す。fnがエラーを返した場合は何も書き込まない。
	Mutate(ctx context.Context, id string, fn func(post *model.Post) error) (*model.Post, error)
}

// ProfileRepository はプロフィールドキュメントの永続化インターフェース。
// 職歴・学歴はプロフィールドキュメントに埋め込まれて保存される。
type ProfileRepository interface {
	// FindByUserID はユーザーIDでプロフィールを取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.Profile, error)

	// List は全プロフィールを返す。
	List(ctx context.Context) ([]*model.Profile, error)

	// Upsert は疎なフィールド集合でプロフィールを作成または部分更新する。
	// 作成と更新は単一文で行われ、ユーザー単位でアトミック。
	Upsert(ctx context.Context, userID string, fields model.ProfileFields) (*model.Profile, error)

	// MutateByUserID はプロフィールを行ロックした上でfnを適用し、職歴・学歴を書き戻す。
	// プロフィールが存在しない場合はfnを呼ばずnilを返す。
	MutateByUserID(ctx context.Context, userID string, fn func(profile *model.Profile) error) (*model.Profile, error)
}

// AccountRemover はユーザーのプロフィール・投稿・アカウントを同一トランザクションで削除する。
type AccountRemover interface {
	RemoveAccount(ctx context.Context, userID string) error
}
