package model

import "time"

// Identity は認証済みの呼び出し元を表す。トークンのペイロードに埋め込まれる。
type Identity struct {
	ID string
}

// User はサービス利用ユーザーを表す。
type User struct {
	ID           string
	Name         string
	Email        string
	Avatar       string
	PasswordHash string
	CreatedAt    time.Time
}

// UserSummary はプロフィールに埋め込むユーザーの公開情報。
type UserSummary struct {
	ID     string
	Name   string
	Avatar string
}
