package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/devconnect/internal/model"
)

// PostServiceInterface は投稿ハンドラーが必要とするサービスインターフェース。
type PostServiceInterface interface {
	Create(ctx context.Context, identity model.Identity, text string) (*model.Post, error)
	List(ctx context.Context) ([]*model.Post, error)
	Get(ctx context.Context, id string) (*model.Post, error)
	Delete(ctx context.Context, identity model.Identity, id string) error
	Like(ctx context.Context, identity model.Identity, id string) ([]model.Like, error)
	Unlike(ctx context.Context, identity model.Identity, id string) ([]model.Like, error)
	Comment(ctx context.Context, identity model.Identity, id, text string) ([]model.Comment, error)
	DeleteComment(ctx context.Context, identity model.Identity, postID, commentID string) ([]model.Comment, error)
}

// PostHandler は投稿関連のHTTPハンドラー。
type PostHandler struct {
	service PostServiceInterface
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(service PostServiceInterface) *PostHandler {
	return &PostHandler{service: service}
}

// CreatePost は投稿を作成する。
// POST /api/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req textRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var c fieldChecker
	req.validate(&c)
	if !c.ok(w) {
		return
	}

	post, err := h.service.Create(r.Context(), identity, req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(post))
}

// ListPosts は全投稿を新しい順に返す。
// GET /api/posts
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostsResponse(posts))
}

// GetPost は投稿を1件返す。
// GET /api/posts/:id
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(post))
}

// DeletePost は投稿者本人の投稿を削除する。
// DELETE /api/posts/:id
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgResponse{Msg: "Post removed"})
}

// Like は投稿にいいねする。
// PUT /api/posts/like/:id
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	likes, err := h.service.Like(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLikesResponse(likes))
}

// Unlike はいいねを取り消す。
// PUT /api/posts/unlike/:id
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	likes, err := h.service.Unlike(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLikesResponse(likes))
}

// Comment は投稿にコメントする。
// POST /api/posts/comment/:id
func (h *PostHandler) Comment(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req textRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var c fieldChecker
	req.validate(&c)
	if !c.ok(w) {
		return
	}

	comments, err := h.service.Comment(r.Context(), identity, chi.URLParam(r, "id"), req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCommentsResponse(comments))
}

// DeleteComment はコメント作成者本人のコメントを削除する。
// DELETE /api/posts/comment/:id/:comment_id
func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	comments, err := h.service.DeleteComment(r.Context(), identity, chi.URLParam(r, "id"), chi.URLParam(r, "comment_id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCommentsResponse(comments))
}
