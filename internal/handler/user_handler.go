package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/devconnect/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Withdraw はプロフィール・投稿・アカウントを一括削除する。
	Withdraw(ctx context.Context, identity model.Identity) error
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// Withdraw はユーザーの退会処理を実行する。
// DELETE /api/profile
func (h *UserHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.service.Withdraw(r.Context(), identity); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, msgResponse{Msg: "User deleted"})
}
