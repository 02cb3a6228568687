package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// FieldError は入力検証エラーの1項目。
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// 入力検証エラーの場合のみerrorsを含む。
type ErrorResponseBody struct {
	Msg    string       `json:"msg"`
	Errors []FieldError `json:"errors,omitempty"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, msg string, fieldErrors ...FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponseBody{Msg: msg, Errors: fieldErrors}); err != nil {
		slog.Error("failed to encode error response", slog.String("error", err.Error()))
	}
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、利用者には一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, "Server error")
}
