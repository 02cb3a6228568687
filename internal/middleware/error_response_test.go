package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestWriteErrorResponse_WritesUnifiedFormat は統一エラーフォーマットでレスポンスが書き込まれることを検証する。
func TestWriteErrorResponse_WritesUnifiedFormat(t *testing.T) {
	w := httptest.NewRecorder()

	WriteErrorResponse(w, http.StatusBadRequest, "Post already liked")

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}

	raw := w.Body.String()
	if strings.Contains(raw, "errors") {
		t.Errorf("errors must be omitted when empty: %s", raw)
	}

	var body ErrorResponseBody
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body.Msg != "Post already liked" {
		t.Errorf("msg = %q", body.Msg)
	}
}

// TestWriteErrorResponse_FieldErrors は入力検証エラーの項目が出力されることを検証する。
func TestWriteErrorResponse_FieldErrors(t *testing.T) {
	w := httptest.NewRecorder()

	WriteErrorResponse(w, http.StatusBadRequest, "Validation failed",
		FieldError{Param: "email", Msg: "Please include a valid email"},
		FieldError{Param: "password", Msg: "Please enter a password with 6 or more characters"},
	)

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Errors) != 2 || body.Errors[0].Param != "email" {
		t.Errorf("errors = %+v", body.Errors)
	}
}

// TestWriteInternalServerError は500と汎用メッセージを返すことを検証する。
func TestWriteInternalServerError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteInternalServerError(w)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", w.Code)
	}
	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Msg != "Server error" {
		t.Errorf("msg = %q", body.Msg)
	}
}
