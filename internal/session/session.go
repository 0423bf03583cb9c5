// Package session carries the authenticated caller through request contexts.
package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/justsurfingit/alumni-hub/internal/apperr"
	"github.com/justsurfingit/alumni-hub/internal/models"
)

// Session is the read-only view of the caller that handlers and services consume.
type Session interface {
	CurrentUser() Principal
	IsAuthenticated() bool
	Role() models.Role
}

// Principal is the identity attached to a verified bearer token.
type Principal struct {
	UserID   uuid.UUID
	UserRole models.Role
	Name     string
	Email    string
}

func (p Principal) CurrentUser() Principal { return p }

func (p Principal) IsAuthenticated() bool {
	return p.UserID != uuid.Nil && p.UserRole.Valid()
}

func (p Principal) Role() models.Role { return p.UserRole }

var _ Session = Principal{}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the session for ctx. An anonymous session is returned
// when nothing was attached.
func FromContext(ctx context.Context) Session {
	if p, ok := ctx.Value(ctxKey{}).(Principal); ok {
		return p
	}
	return Principal{}
}

// Require returns the authenticated principal or an Unauthorized error.
func Require(ctx context.Context) (Principal, error) {
	s := FromContext(ctx)
	if !s.IsAuthenticated() {
		return Principal{}, apperr.Unauthorized("authentication required")
	}
	return s.CurrentUser(), nil
}

// RequireRole returns the principal when it holds role, Forbidden otherwise.
func RequireRole(ctx context.Context, role models.Role, message string) (Principal, error) {
	p, err := Require(ctx)
	if err != nil {
		return Principal{}, err
	}
	switch p.UserRole {
	case models.RoleStudent, models.RoleAlumni:
		if p.UserRole != role {
			return Principal{}, apperr.Forbidden(message)
		}
		return p, nil
	default:
		return Principal{}, apperr.Forbidden(message)
	}
}
