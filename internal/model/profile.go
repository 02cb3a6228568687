package model

import "time"

// Profile はユーザーの開発者プロフィールを表す。
type Profile struct {
	ID             string
	User           UserSummary
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GitHubUsername string
	Skills         []string
	Social         Social
	Experience     []Experience
	Education      []Education
	CreatedAt      time.Time
}

// OwnerID はプロフィール所有者のユーザーIDを返す。
func (p *Profile) OwnerID() string { return p.User.ID }

// Social はプロフィールのSNSリンク。
type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// Experience は職歴エントリ。
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// EntryID はサブエンティティIDを返す。
func (e Experience) EntryID() string { return e.ID }

// Education は学歴エントリ。
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// EntryID はサブエンティティIDを返す。
func (e Education) EntryID() string { return e.ID }

// ProfileFields はプロフィール作成・更新時の疎なフィールド集合。
// nilのフィールドは未指定として扱い、更新時は既存値を維持する。
type ProfileFields struct {
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GitHubUsername *string
	Skills         []string // nilは未指定
	Social         SocialFields
}

// SocialFields はSNSリンクの疎なフィールド集合。
type SocialFields struct {
	YouTube   *string
	Facebook  *string
	Twitter   *string
	Instagram *string
	LinkedIn  *string
}

// IsEmpty は指定されたSNSリンクが1つもない場合にtrueを返す。
func (s SocialFields) IsEmpty() bool {
	return s.YouTube == nil && s.Facebook == nil && s.Twitter == nil &&
		s.Instagram == nil && s.LinkedIn == nil
}
