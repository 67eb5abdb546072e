package shift

import (
	"context"

	"shiftclose/internal/ports"
)

// StoreCurrentEventResolver treats the most recently updated non-terminal
// event as current.
type StoreCurrentEventResolver struct {
	repo ports.EventReadRepository
}

var _ ports.CurrentEventResolver = (*StoreCurrentEventResolver)(nil)

func NewCurrentEventResolver(repo ports.EventReadRepository) *StoreCurrentEventResolver {
	return &StoreCurrentEventResolver{repo: repo}
}

func (r *StoreCurrentEventResolver) CurrentEvent(ctx context.Context) (ports.Event, error) {
	return r.repo.FindCurrentEvent(ctx)
}
