package auth

import (
	"context"

	"github.com/google/uuid"
)

// ActorContext holds the authenticated caller's identity. The engine does not
// manage users; it only stamps who submitted, approved or denied a change.
type ActorContext struct {
	ActorID     uuid.UUID
	DisplayName string
	Email       string
}

type contextKey string

const actorContextKey contextKey = "actorContext"

// WithActorContext adds actor identity to the context
func WithActorContext(ctx context.Context, actor *ActorContext) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// FromContext extracts actor identity from the context
func FromContext(ctx context.Context) (*ActorContext, bool) {
	actor, ok := ctx.Value(actorContextKey).(*ActorContext)
	return actor, ok
}

// ActorName returns the display name of the authenticated actor, or "system"
// when the request came in over the service-to-service API key.
func ActorName(ctx context.Context) string {
	if actor, ok := FromContext(ctx); ok && actor.DisplayName != "" {
		return actor.DisplayName
	}
	return "system"
}
