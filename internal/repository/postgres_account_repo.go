package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresAccountRemover はアカウント削除をトランザクションで行う。
type PostgresAccountRemover struct {
	db *sql.DB
}

// NewPostgresAccountRemover はPostgresAccountRemoverを生成する。
func NewPostgresAccountRemover(db *sql.DB) *PostgresAccountRemover {
	return &PostgresAccountRemover{db: db}
}

// RemoveAccount はプロフィール、投稿、ユーザーの順に削除する。
// 他ユーザーの投稿に残したいいね・コメントは削除しない。
func (r *PostgresAccountRemover) RemoveAccount(ctx context.Context, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	steps := []struct {
		query string
		what  string
	}{
		{`DELETE FROM profiles WHERE user_id = $1`, "profile"},
		{`DELETE FROM posts WHERE user_id = $1`, "posts"},
		{`DELETE FROM users WHERE id = $1`, "user"},
	}
	for _, s := range steps {
		if _, err := tx.ExecContext(ctx, s.query, userID); err != nil {
			return fmt.Errorf("failed to delete %s: %w", s.what, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// compile-time interface check
var _ AccountRemover = (*PostgresAccountRemover)(nil)
