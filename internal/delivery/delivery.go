// Package delivery defines the entry points that expose the use cases to the outside world.
package delivery

import "context"

// Delivery is a long-running server started by the application after fx has built the graph.
type Delivery interface {
	// Serve blocks until the server stops. A clean shutdown returns nil.
	Serve(ctx context.Context) error
}
