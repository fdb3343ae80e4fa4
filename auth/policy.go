package auth

import (
	"errors"

	"cafe-directory/models"
)

// Action tags a protected operation for the access policy.
type Action string

const (
	ActionAddCafe     Action = "add_cafe"
	ActionEditCafe    Action = "edit_cafe"
	ActionDeleteCafe  Action = "delete_cafe"
	ActionManageCafes Action = "manage_cafes"
)

var (
	ErrUnauthenticated = errors.New("login required")
	ErrForbidden       = errors.New("forbidden")
)

// Policy grants every action to the admin and only OpenActions to other
// authenticated users.
type Policy struct {
	AdminID     uint
	OpenActions map[Action]bool
}

// DefaultPolicy lets any authenticated user add a cafe and keeps everything
// else for the admin.
func DefaultPolicy(adminID uint) Policy {
	return Policy{
		AdminID:     adminID,
		OpenActions: map[Action]bool{ActionAddCafe: true},
	}
}

// IsAdmin reports whether user is the administrator.
func (p Policy) IsAdmin(user *models.User) bool {
	return user != nil && user.ID == p.AdminID
}

// Authorize returns nil when user may perform action, ErrUnauthenticated for
// an anonymous caller and ErrForbidden otherwise.
func (p Policy) Authorize(user *models.User, action Action) error {
	if user == nil {
		return ErrUnauthenticated
	}
	if p.IsAdmin(user) || p.OpenActions[action] {
		return nil
	}
	return ErrForbidden
}
