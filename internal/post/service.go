// Package post は投稿と、投稿に埋め込まれたいいね・コメントのドメインロジックを提供する。
package post

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/devconnect/internal/model"
	"github.com/hitoshi/devconnect/internal/policy"
	"github.com/hitoshi/devconnect/internal/repository"
	"github.com/hitoshi/devconnect/internal/security"
	"github.com/hitoshi/devconnect/internal/sublist"
)

// 利用者向けメッセージ
const (
	msgPostNotFound    = "Post not found"
	msgAlreadyLiked    = "Post already liked"
	msgNotYetLiked     = "Post has not yet been liked"
	msgCommentNotFound = "Comment does not exist"
	msgNotAuthorized   = "User not authorized"
	msgTextRequired    = "Text is required"
)

// Service は投稿のサービス層。
type Service struct {
	posts     repository.PostRepository
	users     repository.UserRepository
	sanitizer security.TextSanitizer
	now       func() time.Time
}

// NewService はServiceを生成する。
func NewService(posts repository.PostRepository, users repository.UserRepository, sanitizer security.TextSanitizer) *Service {
	return &Service{
		posts:     posts,
		users:     users,
		sanitizer: sanitizer,
		now:       time.Now,
	}
}

// Create は投稿を作成する。投稿者の名前とアバターは作成時点の値が複製される。
func (s *Service) Create(ctx context.Context, identity model.Identity, text string) (*model.Post, error) {
	text = s.sanitizer.Sanitize(text)
	if text == "" {
		return nil, model.NewValidationError(msgTextRequired)
	}

	author, err := s.author(ctx, identity)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		ID:        uuid.New().String(),
		UserID:    identity.ID,
		Text:      text,
		Name:      author.Name,
		Avatar:    author.Avatar,
		CreatedAt: s.now(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// List は全投稿を新しい順に返す。
func (s *Service) List(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Get は指定IDの投稿を返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Post, error) {
	if !validID(id) {
		return nil, model.NewNotFoundError(msgPostNotFound)
	}
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	if post == nil {
		return nil, model.NewNotFoundError(msgPostNotFound)
	}
	return post, nil
}

// Delete は投稿者本人に限り投稿を削除する。
func (s *Service) Delete(ctx context.Context, identity model.Identity, id string) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Require(identity, post, msgNotAuthorized); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	slog.Info("post removed", slog.String("post_id", post.ID), slog.String("user_id", identity.ID))
	return nil
}

// Like は投稿にいいねを追加し、更新後のいいね一覧を返す。
// 同一ユーザーによる2件目のいいねはDuplicateActionError。
func (s *Service) Like(ctx context.Context, identity model.Identity, id string) ([]model.Like, error) {
	post, err := s.mutate(ctx, id, func(p *model.Post) error {
		likes, err := sublist.AddToggle(p.Likes, identity, func() model.Like {
			return model.Like{ID: uuid.New().String(), UserID: identity.ID}
		})
		if errors.Is(err, sublist.ErrDuplicate) {
			return model.NewDuplicateActionError(msgAlreadyLiked)
		}
		p.Likes = likes
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// Unlike は呼び出し元のいいねを取り消し、更新後のいいね一覧を返す。
func (s *Service) Unlike(ctx context.Context, identity model.Identity, id string) ([]model.Like, error) {
	post, err := s.mutate(ctx, id, func(p *model.Post) error {
		likes, err := sublist.RemoveToggle(p.Likes, identity)
		if errors.Is(err, sublist.ErrNotPresent) {
			return model.NewNoSuchActionError(msgNotYetLiked)
		}
		p.Likes = likes
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// Comment は投稿の先頭にコメントを追加し、更新後のコメント一覧を返す。
func (s *Service) Comment(ctx context.Context, identity model.Identity, id, text string) ([]model.Comment, error) {
	text = s.sanitizer.Sanitize(text)
	if text == "" {
		return nil, model.NewValidationError(msgTextRequired)
	}
	author, err := s.author(ctx, identity)
	if err != nil {
		return nil, err
	}

	post, err := s.mutate(ctx, id, func(p *model.Post) error {
		p.Comments = sublist.Prepend(p.Comments, model.Comment{
			ID:     uuid.New().String(),
			UserID: identity.ID,
			Text:   text,
			Name:   author.Name,
			Avatar: author.Avatar,
			Date:   s.now(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// DeleteComment はコメント作成者本人に限りコメントを削除し、更新後のコメント一覧を返す。
// 投稿の所有者であっても他人のコメントは削除できない。
func (s *Service) DeleteComment(ctx context.Context, identity model.Identity, postID, commentID string) ([]model.Comment, error) {
	post, err := s.mutate(ctx, postID, func(p *model.Post) error {
		comments, err := sublist.RemoveAuthoredByID(p.Comments, commentID, identity)
		switch {
		case errors.Is(err, sublist.ErrNotFound):
			return model.NewNotFoundError(msgCommentNotFound)
		case errors.Is(err, sublist.ErrNotAuthor):
			return model.NewUnauthorizedError(msgNotAuthorized)
		case err != nil:
			return err
		}
		p.Comments = comments
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// mutate は投稿を行ロックしてfnを適用する。投稿がない場合はNotFoundError。
func (s *Service) mutate(ctx context.Context, id string, fn func(p *model.Post) error) (*model.Post, error) {
	if !validID(id) {
		return nil, model.NewNotFoundError(msgPostNotFound)
	}
	post, err := s.posts.Mutate(ctx, id, fn)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if post == nil {
		return nil, model.NewNotFoundError(msgPostNotFound)
	}
	return post, nil
}

// author は投稿・コメントに複製する呼び出し元ユーザーを取得する。
func (s *Service) author(ctx context.Context, identity model.Identity) (*model.User, error) {
	user, err := s.users.FindByID(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("User not found")
	}
	return user, nil
}

// validID はIDがUUID形式かを返す。不正な形式のIDは存在しないIDとして扱う。
func validID(id string) bool {
	return uuid.Validate(id) == nil
}
