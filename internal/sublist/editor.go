// Package sublist は投稿やプロフィールに埋め込まれた順序付きサブエンティティ列
// （いいね、コメント、職歴、学歴）の追加・削除ロジックを提供する。
//
// すべての操作は入力スライスを変更せず、新しいスライスを返す。
// 失敗時は入力スライスをそのまま返す。
// 削除は常にIDまたはユーザーIDの一致で対象を特定し、位置インデックスを前提にしない。
package sublist

import (
	"errors"

	"github.com/hitoshi/devconnect/internal/model"
)

var (
	// ErrDuplicate は同一ユーザーのエントリが既に存在する場合のエラー。
	ErrDuplicate = errors.New("entry for identity already exists")
	// ErrNotPresent は取り消し対象となるユーザーのエントリが存在しない場合のエラー。
	ErrNotPresent = errors.New("no entry for identity")
	// ErrNotFound は指定IDのエントリが存在しない場合のエラー。
	ErrNotFound = errors.New("entry not found")
	// ErrNotAuthor は呼び出し元がエントリの作成者でない場合のエラー。
	ErrNotAuthor = errors.New("identity is not the entry author")
)

// Entry はID付きのサブエンティティ。
type Entry interface {
	EntryID() string
}

// Authored は作成者を持つサブエンティティ。
type Authored interface {
	Entry
	AuthorID() string
}

// AddToggle はidentityのエントリを先頭に追加する。
// 既にidentityのエントリが存在する場合はErrDuplicateを返す（1ユーザー1件）。
func AddToggle[T Authored](list []T, identity model.Identity, newEntry func() T) ([]T, error) {
	if indexOfAuthor(list, identity.ID) >= 0 {
		return list, ErrDuplicate
	}
	return Prepend(list, newEntry()), nil
}

// RemoveToggle はidentityのエントリを1件削除する。
// 存在しない場合はErrNotPresentを返す。
func RemoveToggle[T Authored](list []T, identity model.Identity) ([]T, error) {
	i := indexOfAuthor(list, identity.ID)
	if i < 0 {
		return list, ErrNotPresent
	}
	return removeAt(list, i), nil
}

// Prepend はエントリを先頭に追加する。重複判定は行わない。
func Prepend[T any](list []T, entry T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, entry)
	return append(out, list...)
}

// RemoveByID は指定IDのエントリを削除する。
// 権限判定は親リソース側で済んでいることを前提とする（職歴・学歴）。
func RemoveByID[T Entry](list []T, targetID string) ([]T, error) {
	i := indexOfID(list, targetID)
	if i < 0 {
		return list, ErrNotFound
	}
	return removeAt(list, i), nil
}

// RemoveAuthoredByID は指定IDのエントリを、identityが作成者である場合に限り削除する。
func RemoveAuthoredByID[T Authored](list []T, targetID string, identity model.Identity) ([]T, error) {
	i := indexOfID(list, targetID)
	if i < 0 {
		return list, ErrNotFound
	}
	if list[i].AuthorID() != identity.ID {
		return list, ErrNotAuthor
	}
	return removeAt(list, i), nil
}

func indexOfAuthor[T Authored](list []T, userID string) int {
	for i, e := range list {
		if e.AuthorID() == userID {
			return i
		}
	}
	return -1
}

func indexOfID[T Entry](list []T, id string) int {
	if id == "" {
		return -1
	}
	for i, e := range list {
		if e.EntryID() == id {
			return i
		}
	}
	return -1
}

// removeAt は直前の検索で得た位置を除いた新しいスライスを返す。
func removeAt[T any](list []T, i int) []T {
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}
