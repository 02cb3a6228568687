// Package gravatar はメールアドレスからGravatarのアバターURLを生成する。
package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

// 既定の画像サイズ・レーティング・フォールバック画像。
const (
	DefaultSize    = "200"
	DefaultRating  = "pg"
	DefaultImage   = "mm"
	avatarEndpoint = "//www.gravatar.com/avatar/"
)

// URL はemailに対応するプロトコル相対のアバターURLを返す。
// メールアドレスは前後の空白を除去し小文字化してからハッシュ化する。
func URL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))

	q := url.Values{}
	q.Set("s", DefaultSize)
	q.Set("r", DefaultRating)
	q.Set("d", DefaultImage)

	return avatarEndpoint + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}
