package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/devconnect/internal/model"
)

// PostgresPostRepo はPostgreSQLを使用した投稿リポジトリ。
// いいね・コメントはJSONB列に埋め込みドキュメントとして保存する。
type PostgresPostRepo struct {
	db *sql.DB
}

// NewPostgresPostRepo はPostgresPostRepoを生成する。
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

const postColumns = `id, user_id, text, name, avatar, likes, comments, created_at`

// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
func (r *PostgresPostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post by ID: %w", err)
	}
	return post, nil
}

// List は全投稿を作成日時の降順で返す。
func (r *PostgresPostRepo) List(ctx context.Context) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []*model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

// Create は投稿を作成する。
func (r *PostgresPostRepo) Create(ctx context.Context, post *model.Post) error {
	likes, err := marshalList(post.Likes)
	if err != nil {
		return err
	}
	comments, err := marshalList(post.Comments)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, text, name, avatar, likes, comments, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		post.ID, post.UserID, post.Text, post.Name, post.Avatar, likes, comments, post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// Delete は指定IDの投稿を削除する。
func (r *PostgresPostRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// Mutate は投稿をSELECT FOR UPDATEでロックしてfnを適用し、いいね・コメントを書き戻す。
// 同一投稿への並行更新はこのトランザクションで直列化される。
func (r *PostgresPostRepo) Mutate(ctx context.Context, id string, fn func(post *model.Post) error) (*model.Post, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	post, err := scanPost(tx.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1 FOR UPDATE`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock post: %w", err)
	}

	if err := fn(post); err != nil {
		return nil, err
	}

	likes, err := marshalList(post.Likes)
	if err != nil {
		return nil, err
	}
	comments, err := marshalList(post.Comments)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE posts SET likes = $2, comments = $3 WHERE id = $1`,
		id, likes, comments,
	); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return post, nil
}

func scanPost(row scanner) (*model.Post, error) {
	post := &model.Post{}
	var likes, comments []byte
	if err := row.Scan(
		&post.ID, &post.UserID, &post.Text, &post.Name, &post.Avatar,
		&likes, &comments, &post.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(likes, &post.Likes); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(comments, &post.Comments); err != nil {
		return nil, err
	}
	return post, nil
}

// compile-time interface check
var _ PostRepository = (*PostgresPostRepo)(nil)
