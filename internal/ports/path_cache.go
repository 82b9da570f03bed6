package ports

import (
	"context"
	"drone-dispatch-service/internal/domain"
)

// PathCache stores precomputed flight paths keyed by order number. A cached
// path already contains its hover repetitions; replaying one must not append
// hover points again.
type PathCache interface {
	// Get returns the cached path and whether one was present.
	Get(ctx context.Context, orderNumber string) (domain.FlightPath, bool, error)

	// Put stores a path for later replay.
	Put(ctx context.Context, orderNumber string, path domain.FlightPath) error
}
