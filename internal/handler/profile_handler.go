package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/devconnect/internal/model"
	"github.com/hitoshi/devconnect/internal/profile"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	Me(ctx context.Context, identity model.Identity) (*model.Profile, error)
	Upsert(ctx context.Context, identity model.Identity, in profile.Input) (*model.Profile, error)
	List(ctx context.Context) ([]*model.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	AddExperience(ctx context.Context, identity model.Identity, exp model.Experience) (*model.Profile, error)
	DeleteExperience(ctx context.Context, identity model.Identity, expID string) (*model.Profile, error)
	AddEducation(ctx context.Context, identity model.Identity, edu model.Education) (*model.Profile, error)
	DeleteEducation(ctx context.Context, identity model.Identity, eduID string) (*model.Profile, error)
}

// ProfileHandler はプロフィール関連のHTTPハンドラー。
type ProfileHandler struct {
	service ProfileServiceInterface
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// writeProfile はサービスの結果をプロフィールレスポンスとして書き込む。
func writeProfile(w http.ResponseWriter, p *model.Profile, err error) {
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

// Me は呼び出し元のプロフィールを返す。
// GET /api/profile/me
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	p, err := h.service.Me(r.Context(), identity)
	writeProfile(w, p, err)
}

// Upsert はプロフィールを作成または更新する。
// POST /api/profile
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var in profile.Input
	if !decodeJSON(w, r, &in) {
		return
	}
	var c fieldChecker
	validateProfileInput(in, &c)
	if !c.ok(w) {
		return
	}

	p, err := h.service.Upsert(r.Context(), identity, in)
	writeProfile(w, p, err)
}

// List は全プロフィールを返す。
// GET /api/profile
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfilesResponse(profiles))
}

// GetByUserID は指定ユーザーのプロフィールを返す。
// GET /api/profile/user/:user_id
func (h *ProfileHandler) GetByUserID(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetByUserID(r.Context(), chi.URLParam(r, "user_id"))
	writeProfile(w, p, err)
}

// AddExperience は職歴を追加する。
// PUT /api/profile/experience
func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req experienceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var c fieldChecker
	req.validate(&c)
	if !c.ok(w) {
		return
	}

	p, err := h.service.AddExperience(r.Context(), identity, req.toModel())
	writeProfile(w, p, err)
}

// DeleteExperience は職歴を削除する。
// DELETE /api/profile/experience/:exp_id
func (h *ProfileHandler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	p, err := h.service.DeleteExperience(r.Context(), identity, chi.URLParam(r, "exp_id"))
	writeProfile(w, p, err)
}

// AddEducation は学歴を追加する。
// PUT /api/profile/education
func (h *ProfileHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req educationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var c fieldChecker
	req.validate(&c)
	if !c.ok(w) {
		return
	}

	p, err := h.service.AddEducation(r.Context(), identity, req.toModel())
	writeProfile(w, p, err)
}

// DeleteEducation は学歴を削除する。
// DELETE /api/profile/education/:edc_id
func (h *ProfileHandler) DeleteEducation(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	p, err := h.service.DeleteEducation(r.Context(), identity, chi.URLParam(r, "edc_id"))
	writeProfile(w, p, err)
}
