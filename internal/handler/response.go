package handler

import (
	"time"

	"github.com/hitoshi/devconnect/internal/model"
)

// userResponse はユーザー情報のAPIレスポンス。パスワードハッシュは含まない。
type userResponse struct {
	ID     string    `json:"_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

type likeResponse struct {
	ID   string `json:"_id"`
	User string `json:"user"`
}

type commentResponse struct {
	ID     string    `json:"_id"`
	User   string    `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

type postResponse struct {
	ID       string            `json:"_id"`
	User     string            `json:"user"`
	Text     string            `json:"text"`
	Name     string            `json:"name"`
	Avatar   string            `json:"avatar"`
	Likes    []likeResponse    `json:"likes"`
	Comments []commentResponse `json:"comments"`
	Date     time.Time         `json:"date"`
}

type profileUserResponse struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type experienceResponse struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type educationResponse struct {
	ID           string     `json:"_id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

type profileResponse struct {
	ID             string               `json:"_id"`
	User           profileUserResponse  `json:"user"`
	Company        string               `json:"company,omitempty"`
	Website        string               `json:"website,omitempty"`
	Location       string               `json:"location,omitempty"`
	Bio            string               `json:"bio,omitempty"`
	Status         string               `json:"status"`
	GitHubUsername string               `json:"githubusername,omitempty"`
	Skills         []string             `json:"skills"`
	Social         model.Social         `json:"social"`
	Experience     []experienceResponse `json:"experience"`
	Education      []educationResponse  `json:"education"`
	Date           time.Time            `json:"date"`
}

// --- 変換 ---

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Date:   u.CreatedAt,
	}
}

func toLikesResponse(likes []model.Like) []likeResponse {
	out := make([]likeResponse, 0, len(likes))
	for _, l := range likes {
		out = append(out, likeResponse{ID: l.ID, User: l.UserID})
	}
	return out
}

func toCommentsResponse(comments []model.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentResponse{
			ID:     c.ID,
			User:   c.UserID,
			Text:   c.Text,
			Name:   c.Name,
			Avatar: c.Avatar,
			Date:   c.Date,
		})
	}
	return out
}

func toPostResponse(p *model.Post) postResponse {
	return postResponse{
		ID:       p.ID,
		User:     p.UserID,
		Text:     p.Text,
		Name:     p.Name,
		Avatar:   p.Avatar,
		Likes:    toLikesResponse(p.Likes),
		Comments: toCommentsResponse(p.Comments),
		Date:     p.CreatedAt,
	}
}

func toPostsResponse(posts []*model.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

func toProfileResponse(p *model.Profile) profileResponse {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}

	experience := make([]experienceResponse, 0, len(p.Experience))
	for _, e := range p.Experience {
		experience = append(experience, experienceResponse{
			ID:          e.ID,
			Title:       e.Title,
			Company:     e.Company,
			Location:    e.Location,
			From:        e.From,
			To:          e.To,
			Current:     e.Current,
			Description: e.Description,
		})
	}

	education := make([]educationResponse, 0, len(p.Education))
	for _, e := range p.Education {
		education = append(education, educationResponse{
			ID:           e.ID,
			School:       e.School,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			From:         e.From,
			To:           e.To,
			Current:      e.Current,
			Description:  e.Description,
		})
	}

	return profileResponse{
		ID:             p.ID,
		User:           profileUserResponse{ID: p.User.ID, Name: p.User.Name, Avatar: p.User.Avatar},
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		Bio:            p.Bio,
		Status:         p.Status,
		GitHubUsername: p.GitHubUsername,
		Skills:         skills,
		Social:         p.Social,
		Experience:     experience,
		Education:      education,
		Date:           p.CreatedAt,
	}
}

func toProfilesResponse(profiles []*model.Profile) []profileResponse {
	out := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileResponse(p))
	}
	return out
}
