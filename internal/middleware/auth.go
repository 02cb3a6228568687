// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/hitoshi/devconnect/internal/model"
)

// TokenHeader は認証トークンを運ぶリクエストヘッダー名。
const TokenHeader = "x-auth-token"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストに認証済みidentityを格納するためのキー。
var identityContextKey = contextKey("identity")

// TokenVerifier はトークンを検証し、埋め込まれたidentityを返す。
type TokenVerifier interface {
	Verify(token string) (model.Identity, error)
}

// RejectionRecorder は認証拒否を記録する。metrics.Collectorが満たす。
type RejectionRecorder interface {
	RecordAuthRejection(reason string)
}

// NewAuthMiddleware はx-auth-tokenヘッダーのトークンを検証するミドルウェアを返す。
// 検証に成功したidentityをリクエストコンテキストに注入する。
// ヘッダーがない場合とトークンが無効な場合はいずれも401を返し、後続ハンドラーを呼ばない。
// recorderはnilでもよい。
func NewAuthMiddleware(verifier TokenVerifier, recorder RejectionRecorder) func(next http.Handler) http.Handler {
	reject := func(w http.ResponseWriter, reason string, apiErr *model.APIError) {
		if recorder != nil {
			recorder.RecordAuthRejection(reason)
		}
		WriteErrorResponse(w, http.StatusUnauthorized, apiErr.Message)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(TokenHeader))
			if token == "" {
				reject(w, "missing", model.NewMissingCredentialError())
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				var apiErr *model.APIError
				if !errors.As(err, &apiErr) {
					apiErr = model.NewInvalidTokenError()
				}
				reject(w, "invalid", apiErr)
				return
			}

			setLoggedUserID(r.Context(), identity.ID)
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// IdentityFromContext はリクエストコンテキストから認証済みidentityを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	if !ok || identity.ID == "" {
		return model.Identity{}, false
	}
	return identity, true
}

// ContextWithIdentity はコンテキストにidentityを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}
