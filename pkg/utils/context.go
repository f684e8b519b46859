package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const ActorKey contextKey = "actor"

// RoleAnonymous is the subject used for requests without a bearer token
const RoleAnonymous = "anonymous"

// Actor is the authenticated caller of a request
type Actor struct {
	ID       uuid.UUID
	Username string
	Role     string
}

func SetActorContext(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// GetActorFromContext returns the caller set by the auth middleware
func GetActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(Actor)
	if !ok || actor.ID == uuid.Nil {
		return Actor{}, false
	}
	return actor, true
}

// GetRoleFromContext falls back to RoleAnonymous when nobody is logged in
func GetRoleFromContext(ctx context.Context) string {
	actor, ok := GetActorFromContext(ctx)
	if !ok {
		return RoleAnonymous
	}
	return actor.Role
}
