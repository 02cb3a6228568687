// Package security はユーザー入力テキストのサニタイズを提供する。
//
// 投稿・コメント本文はプレーンテキストとして扱う。
// bluemondayのStrictPolicyで全てのHTMLタグを除去し、
// script, styleタグはその中身ごと取り除く。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer はユーザー入力テキストのサニタイズ機能のインターフェース。
type TextSanitizer interface {
	// Sanitize はHTMLタグを除去したプレーンテキストを返す。
	// 前後の空白は除去され、出力を再度通しても結果は変わらない。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerの実装。
// bluemondayのポリシーはスレッドセーフに共有できる。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
func NewTextSanitizer() TextSanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

// maxUnescapePasses はエスケープが入れ子になった入力を展開する回数の上限。
const maxUnescapePasses = 4

// Sanitize はタグを除去し、エスケープされた実体参照を元の文字に戻す。
// 実体参照を戻した結果に再びタグが現れる場合は、変化しなくなるまで除去を繰り返す。
// 上限回数で収束しない入力は空文字列として扱う。
func (s *textSanitizer) Sanitize(raw string) string {
	current := raw
	for range maxUnescapePasses {
		stripped := s.policy.Sanitize(current)
		next := html.UnescapeString(stripped)
		if next == current {
			return strings.TrimSpace(next)
		}
		current = next
	}
	return ""
}
