package services

import (
	"errors"
	"fmt"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
)

// Session identifies the authenticated user performing an action. It is
// threaded explicitly through every service instead of living in an
// ambient context singleton, so the acting user is always visible at
// the call site.
type Session struct {
	UserID string
	Name   string
	Email  string
	Role   model.UserRole
}

// ErrNotPermitted is returned when the session's role may not perform
// the requested action.
var ErrNotPermitted = errors.New("role not permitted for this action")

func requireRole(session Session, role model.UserRole) error {
	if session.Role != role {
		return fmt.Errorf("%w: %s required, session has %s", ErrNotPermitted, role, session.Role)
	}
	return nil
}
