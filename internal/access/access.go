// Package access holds the request-scoped actor and the pure role guard.
package access

import (
	"context"
	"time"

	"sanogestion/internal/model"
)

// Actor is the authenticated Personnel behind a request.
type Actor struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Nom       string    `json:"nom"`
	Prenom    string    `json:"prenom"`
	Role      string    `json:"role"`
	SessionID string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == model.RoleAdministrator
}

// Decision is the outcome of a guard check.
type Decision int

const (
	Allow Decision = iota
	Unauthenticated
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "forbidden"
	}
}

// Authorize decides whether actor may run an operation requiring one of roles.
// A nil actor is unauthenticated. Administrator passes every check. An empty
// role list admits any authenticated actor.
func Authorize(actor *Actor, roles ...string) Decision {
	if actor == nil {
		return Unauthenticated
	}
	if actor.IsAdmin() || len(roles) == 0 {
		return Allow
	}
	for _, r := range roles {
		if actor.Role == r {
			return Allow
		}
	}
	return Forbidden
}

// CanManage reports whether actor is an Administrator or the recorded owner.
func CanManage(actor *Actor, ownerID *uint) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return ownerID != nil && *ownerID == actor.ID
}

type ctxKey struct{}

func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor)
}

// FromContext returns the actor attached by the authentication middleware.
func FromContext(ctx context.Context) (*Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(*Actor)
	return a, ok && a != nil
}
