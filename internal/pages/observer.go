package pages

import (
	"context"
	"time"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event describes one mutation attempt against the backend.
type Event struct {
	Resource   string
	Action     Action
	EntityID   string
	Actor      string
	Err        error
	OccurredAt time.Time
}

func (e Event) Succeeded() bool {
	return e.Err == nil
}

type Observer interface {
	Observe(ctx context.Context, e Event)
}

type ObserverFunc func(ctx context.Context, e Event)

func (f ObserverFunc) Observe(ctx context.Context, e Event) {
	f(ctx, e)
}

type actorKey struct{}

// WithActor attaches the display name of the signed-in user to ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFrom(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}
