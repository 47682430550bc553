package actor

import (
	"errors"
	"strings"
)

var ErrForbidden = errors.New("actor not allowed to perform this action")

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleGovernor Role = "governor"
)

// ParseRole is case-insensitive; unknown roles come back as "".
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleGovernor:
		return RoleGovernor
	}
	return ""
}

// Actor is the operator performing a request. Identity is supplied by the
// surrounding console; nothing here authenticates it.
type Actor struct {
	ID   string
	Name string
	Role Role
}

func (a Actor) IsGovernor() bool { return a.Role == RoleGovernor }

// CanRequestFlags: admins and governors may escalate a withdrawal.
func (a Actor) CanRequestFlags() bool { return a.Role == RoleAdmin || a.Role == RoleGovernor }
