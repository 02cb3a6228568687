// Package policy は認証済みユーザーがリソースを変更できるかの判定を提供する。
package policy

import "github.com/hitoshi/devconnect/internal/model"

// Owned は所有者を1人持つリソース。
type Owned interface {
	OwnerID() string
}

// Decision は判定結果。
type Decision int

const (
	// Deny は変更を許可しない。
	Deny Decision = iota
	// Allow は変更を許可する。
	Allow
)

// Authorize はidentityがresourceの所有者であればAllowを返す。
// IDが空の場合は常にDeny。
func Authorize(identity model.Identity, resource Owned) Decision {
	if identity.ID == "" || resource == nil {
		return Deny
	}
	if resource.OwnerID() != identity.ID {
		return Deny
	}
	return Allow
}

// Require はAuthorizeがDenyの場合にUnauthorizedErrorを返す。
func Require(identity model.Identity, resource Owned, message string) error {
	if Authorize(identity, resource) == Deny {
		return model.NewUnauthorizedError(message)
	}
	return nil
}
