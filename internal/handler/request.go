package handler

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/hitoshi/devconnect/internal/auth"
	"github.com/hitoshi/devconnect/internal/middleware"
	"github.com/hitoshi/devconnect/internal/model"
	"github.com/hitoshi/devconnect/internal/profile"
)

const (
	maxRequestBody  = 1 << 20
	minPasswordLen  = 6
	msgInvalidJSON  = "Invalid request body"
	msgFromRequired = "From date is required"
)

// decodeJSON はリクエストボディをvに読み込む。
// 解析に失敗した場合は400を書き込みfalseを返す。
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(msgInvalidJSON))
		return false
	}
	return true
}

// fieldChecker はリクエストスキーマの検証結果を蓄積する。
type fieldChecker struct {
	errs []middleware.FieldError
}

func (c *fieldChecker) add(param, msg string) {
	c.errs = append(c.errs, middleware.FieldError{Param: param, Msg: msg})
}

func (c *fieldChecker) required(param, value, msg string) {
	if strings.TrimSpace(value) == "" {
		c.add(param, msg)
	}
}

func (c *fieldChecker) email(param, value, msg string) {
	addr, err := mail.ParseAddress(strings.TrimSpace(value))
	// "Name <a@b>" 形式は受け付けない
	if err != nil || addr.Name != "" || addr.Address != strings.TrimSpace(value) {
		c.add(param, msg)
	}
}

func (c *fieldChecker) minLen(param, value string, n int, msg string) {
	if utf8.RuneCountInString(value) < n {
		c.add(param, msg)
	}
}

func (c *fieldChecker) maxBytes(param, value string, n int, msg string) {
	if len(value) > n {
		c.add(param, msg)
	}
}

func (c *fieldChecker) date(param, value, msg string) {
	if _, err := profile.ParseDate(value); err != nil {
		c.add(param, msg)
	}
}

func (c *fieldChecker) optionalDate(param, value, msg string) {
	if _, err := profile.ParseOptionalDate(value); err != nil {
		c.add(param, msg)
	}
}

// ok は検証エラーがなければtrueを返す。エラーがある場合は400を書き込む。
func (c *fieldChecker) ok(w http.ResponseWriter) bool {
	if len(c.errs) == 0 {
		return true
	}
	writeValidationErrors(w, c.errs)
	return false
}

// --- リクエストスキーマ ---

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req registerRequest) validate(c *fieldChecker) {
	c.required("name", req.Name, "Name is required")
	c.email("email", req.Email, "Please include a valid email")
	c.minLen("password", req.Password, minPasswordLen, "Please enter a password with 6 or more characters")
	c.maxBytes("password", req.Password, auth.MaxPasswordBytes, "Password must be 72 bytes or fewer")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req loginRequest) validate(c *fieldChecker) {
	c.email("email", req.Email, "Please include a valid email")
	if req.Password == "" {
		c.add("password", "Password is required")
	}
}

type textRequest struct {
	Text string `json:"text"`
}

func (req textRequest) validate(c *fieldChecker) {
	c.required("text", req.Text, "Text is required")
}

func validateProfileInput(in profile.Input, c *fieldChecker) {
	c.required("status", in.Status, "Status is required")
	c.required("skills", in.Skills, "Skills is required")
}

type experienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

func (req experienceRequest) validate(c *fieldChecker) {
	c.required("title", req.Title, "Title is required")
	c.required("company", req.Company, "Company is required")
	c.date("from", req.From, msgFromRequired)
	c.optionalDate("to", req.To, "To date is invalid")
}

// toModel は検証済みのリクエストを職歴に変換する。
func (req experienceRequest) toModel() model.Experience {
	from, _ := profile.ParseDate(req.From)
	to, _ := profile.ParseOptionalDate(req.To)
	return model.Experience{
		Title:       strings.TrimSpace(req.Title),
		Company:     strings.TrimSpace(req.Company),
		Location:    strings.TrimSpace(req.Location),
		From:        from,
		To:          to,
		Current:     req.Current,
		Description: strings.TrimSpace(req.Description),
	}
}

type educationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (req educationRequest) validate(c *fieldChecker) {
	c.required("school", req.School, "School is required")
	c.required("degree", req.Degree, "Degree is required")
	c.required("fieldofstudy", req.FieldOfStudy, "Field of study is required")
	c.date("from", req.From, msgFromRequired)
	c.optionalDate("to", req.To, "To date is invalid")
}

// toModel は検証済みのリクエストを学歴に変換する。
func (req educationRequest) toModel() model.Education {
	from, _ := profile.ParseDate(req.From)
	to, _ := profile.ParseOptionalDate(req.To)
	return model.Education{
		School:       strings.TrimSpace(req.School),
		Degree:       strings.TrimSpace(req.Degree),
		FieldOfStudy: strings.TrimSpace(req.FieldOfStudy),
		From:         from,
		To:           to,
		Current:      req.Current,
		Description:  strings.TrimSpace(req.Description),
	}
}
