package auth

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/parkdesk/internal/common"
)

// Session is the authenticated caller of one request: a user id bound to
// the flattened permission set of that user's role.
type Session struct {
	UserID      string
	Username    string
	RoleID      string
	permissions map[string]struct{}
}

func NewSession(userID, username, roleID string, perms []string) *Session {
	set := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return &Session{UserID: userID, Username: username, RoleID: roleID, permissions: set}
}

// Require returns common.ErrorPermissionDenied unless the session holds p.
// A nil session holds nothing.
func (s *Session) Require(p string) error {
	if !s.Has(p) {
		return common.ErrorPermissionDenied
	}
	return nil
}

func (s *Session) Has(p string) bool {
	if s == nil {
		return false
	}
	_, ok := s.permissions[p]
	return ok
}

// Permissions returns the granted strings sorted.
func (s *Session) Permissions() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.permissions))
	for p := range s.permissions {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by WithSession, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
