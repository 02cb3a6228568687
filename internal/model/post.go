package model

import "time"

// Post はユーザーの投稿を表す。
// Likes と Comments は新しいものが先頭に並ぶ。
type Post struct {
	ID        string
	UserID    string
	Text      string
	Name      string
	Avatar    string
	Likes     []Like
	Comments  []Comment
	CreatedAt time.Time
}

// OwnerID は投稿者のユーザーIDを返す。
func (p *Post) OwnerID() string { return p.UserID }

// Like は投稿への「いいね」を表す。ユーザーごとに最大1件。
type Like struct {
	ID     string `json:"id"`
	UserID string `json:"user"`
}

// EntryID はサブエンティティIDを返す。
func (l Like) EntryID() string { return l.ID }

// AuthorID はいいねしたユーザーIDを返す。
func (l Like) AuthorID() string { return l.UserID }

// Comment は投稿へのコメントを表す。
type Comment struct {
	ID     string    `json:"id"`
	UserID string    `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

// EntryID はサブエンティティIDを返す。
func (c Comment) EntryID() string { return c.ID }

// AuthorID はコメント投稿者のユーザーIDを返す。
func (c Comment) AuthorID() string { return c.UserID }
