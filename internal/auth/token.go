package auth

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hitoshi/devconnect/internal/model"
)

// DefaultTokenTTL はトークンの既定の有効期間（360000秒）。
const DefaultTokenTTL = 360000 * time.Second

// TokenConfig はTokenServiceの設定。
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
	// Now は現在時刻を返す。nilの場合はtime.Now。
	Now func() time.Time
}

// tokenClaims はトークンのペイロード {"user": {"id": ...}} を表す。
type tokenClaims struct {
	User tokenUser `json:"user"`
	jwt.RegisteredClaims
}

type tokenUser struct {
	ID string `json:"id"`
}

// TokenService は署名付きの有効期限つき認証トークンを発行・検証する。
// 署名鍵は構築時に注入され、以後は読み取り専用。
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService はTokenServiceを生成する。
// TTLが0以下の場合はDefaultTokenTTLを使用する。
func NewTokenService(cfg TokenConfig) *TokenService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &TokenService{
		secret: cfg.Secret,
		ttl:    ttl,
		now:    now,
	}
}

// Issue はidentityを埋め込んだHS256署名トークンを発行する。
// 署名鍵がない場合は署名なしトークンを返さずSigningErrorを返す。
func (s *TokenService) Issue(identity model.Identity) (string, error) {
	if len(s.secret) == 0 {
		return "", model.NewSigningError("secret is not configured")
	}
	if identity.ID == "" {
		return "", model.NewSigningError("identity is empty")
	}

	now := s.now()
	claims := tokenClaims{
		User: tokenUser{ID: identity.ID},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", model.NewSigningError(err.Error())
	}
	return signed, nil
}

// Verify は署名と有効期限を検証し、埋め込まれたidentityを返す。
// 失敗理由にかかわらずInvalidTokenErrorを返し、理由はログにのみ残す。
func (s *TokenService) Verify(token string) (model.Identity, error) {
	if len(s.secret) == 0 {
		slog.Error("token verification attempted without secret")
		return model.Identity{}, model.NewInvalidTokenError()
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		slog.Warn("token rejected", slog.String("reason", rejectReason(err)))
		return model.Identity{}, model.NewInvalidTokenError()
	}
	if claims.User.ID == "" {
		slog.Warn("token rejected", slog.String("reason", "missing_user"))
		return model.Identity{}, model.NewInvalidTokenError()
	}

	return model.Identity{ID: claims.User.ID}, nil
}

// rejectReason はログ用にjwtのエラーを分類する。
func rejectReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "unverifiable"
	default:
		return "invalid"
	}
}
