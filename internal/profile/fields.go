package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/hitoshi/devconnect/internal/model"
)

// Input はプロフィール作成・更新リクエストの入力。
// 空文字列のフィールドは未指定として扱われる。
type Input struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status"`
	GitHubUsername string `json:"githubusername"`
	// Skills はカンマ区切りのスキル一覧。
	Skills    string `json:"skills"`
	YouTube   string `json:"youtube"`
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`
}

// BuildFields は入力のうち空でないフィールドだけを持つ疎なフィールド集合を返す。
func BuildFields(in Input) model.ProfileFields {
	return model.ProfileFields{
		Company:        nonEmpty(in.Company),
		Website:        nonEmpty(in.Website),
		Location:       nonEmpty(in.Location),
		Bio:            nonEmpty(in.Bio),
		Status:         nonEmpty(in.Status),
		GitHubUsername: nonEmpty(in.GitHubUsername),
		Skills:         ParseSkills(in.Skills),
		Social: model.SocialFields{
			YouTube:   nonEmpty(in.YouTube),
			Twitter:   nonEmpty(in.Twitter),
			Facebook:  nonEmpty(in.Facebook),
			LinkedIn:  nonEmpty(in.LinkedIn),
			Instagram: nonEmpty(in.Instagram),
		},
	}
}

// ParseSkills はカンマ区切りの文字列をスキル一覧に分割する。
// 各要素は前後の空白を除去し、空の要素は捨てる。
// 有効な要素が1つもない場合は未指定としてnilを返す。
func ParseSkills(raw string) []string {
	var skills []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// dateLayouts は日付入力として受け付ける書式。
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// ParseDate は YYYY-MM-DD または RFC 3339 形式の日付を解析する。
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// ParseOptionalDate は空文字列をnilとして扱うParseDate。
func ParseOptionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
