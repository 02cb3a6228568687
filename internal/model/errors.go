// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Messageはレスポンスの {"msg": ...} としてそのまま利用者に返される。
type APIError struct {
	Code    string // エラーコード
	Message string // 利用者向けメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is はエラーコードが一致する場合にtrueを返す。
// errors.Is(err, model.ErrNotFound) のようにコード単位で判定できる。
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// 定義済みエラーコード
const (
	ErrCodeMissingCredential  = "MISSING_CREDENTIAL"
	ErrCodeInvalidToken       = "INVALID_TOKEN"
	ErrCodeSigningFailed      = "TOKEN_SIGNING_FAILED"
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUserExists         = "USER_EXISTS"
	ErrCodeDuplicateAction    = "DUPLICATE_ACTION"
	ErrCodeNoSuchAction       = "NO_SUCH_ACTION"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
)

// errors.Is 判定用のセンチネル。
var (
	ErrMissingCredential  = &APIError{Code: ErrCodeMissingCredential}
	ErrInvalidToken       = &APIError{Code: ErrCodeInvalidToken}
	ErrSigningFailed      = &APIError{Code: ErrCodeSigningFailed}
	ErrValidation         = &APIError{Code: ErrCodeValidation}
	ErrInvalidCredentials = &APIError{Code: ErrCodeInvalidCredentials}
	ErrUserExists         = &APIError{Code: ErrCodeUserExists}
	ErrDuplicateAction    = &APIError{Code: ErrCodeDuplicateAction}
	ErrNoSuchAction       = &APIError{Code: ErrCodeNoSuchAction}
	ErrNotFound           = &APIError{Code: ErrCodeNotFound}
	ErrUnauthorized       = &APIError{Code: ErrCodeUnauthorized}
)

// NewMissingCredentialError はトークン未指定エラーを生成する。
func NewMissingCredentialError() *APIError {
	return &APIError{
		Code:    ErrCodeMissingCredential,
		Message: "No token, authorization denied",
	}
}

// NewInvalidTokenError はトークン検証失敗エラーを生成する。
// 期限切れと改ざんを区別しない。
func NewInvalidTokenError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidToken,
		Message: "Token is not valid",
	}
}

// NewSigningError はトークン署名失敗エラーを生成する。
func NewSigningError(reason string) *APIError {
	return &APIError{
		Code:    ErrCodeSigningFailed,
		Message: fmt.Sprintf("failed to sign token: %s", reason),
	}
}

// NewValidationError は入力検証エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
// メールアドレス不明とパスワード不一致を区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidCredentials,
		Message: "Invalid credentials",
	}
}

// NewUserExistsError は登録済みメールアドレスのエラーを生成する。
func NewUserExistsError() *APIError {
	return &APIError{
		Code:    ErrCodeUserExists,
		Message: "User already exists",
	}
}

// NewDuplicateActionError は同一ユーザーによる重複操作のエラーを生成する。
func NewDuplicateActionError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeDuplicateAction,
		Message: message,
	}
}

// NewNoSuchActionError は取り消す対象の操作が存在しない場合のエラーを生成する。
func NewNoSuchActionError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeNoSuchAction,
		Message: message,
	}
}

// NewNotFoundError はリソース未検出エラーを生成する。
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

// NewUnauthorizedError は認証済みだが権限がない場合のエラーを生成する。
func NewUnauthorizedError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	}
}
