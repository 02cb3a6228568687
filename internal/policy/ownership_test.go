package policy

import (
	"errors"
	"testing"

	"github.com/hitoshi/devconnect/internal/model"
)

func TestAuthorize(t *testing.T) {
	post := &model.Post{ID: "p1", UserID: "owner"}

	tests := []struct {
		name     string
		identity model.Identity
		resource Owned
		want     Decision
	}{
		{name: "所有者", identity: model.Identity{ID: "owner"}, resource: post, want: Allow},
		{name: "他人", identity: model.Identity{ID: "other"}, resource: post, want: Deny},
		{name: "空ID", identity: model.Identity{}, resource: &model.Post{}, want: Deny},
		{name: "nilリソース", identity: model.Identity{ID: "owner"}, resource: nil, want: Deny},
		{name: "プロフィール所有者", identity: model.Identity{ID: "u1"}, resource: &model.Profile{User: model.UserSummary{ID: "u1"}}, want: Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorize(tt.identity, tt.resource); got != tt.want {
				t.Errorf("Authorize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequire(t *testing.T) {
	post := &model.Post{UserID: "owner"}

	if err := Require(model.Identity{ID: "owner"}, post, "User not authorized"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := Require(model.Identity{ID: "other"}, post, "User not authorized")
	if !errors.Is(err, model.ErrUnauthorized) {
		t.Fatalf("err = %v, want UnauthorizedError", err)
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "User not authorized" {
		t.Errorf("message = %v", err)
	}
}
