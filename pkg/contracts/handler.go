package contracts

import (
	"context"

	"github.com/julienschmidt/httprouter"

	"zoo/pkg/middleware"
)

// Handler registers a resource's routes behind the auth guard.
type Handler interface {
	RegisterRoutes(*httprouter.Router, *middleware.Guard)
}

// Probe registers unauthenticated operational routes.
type Probe interface {
	RegisterRoutes(*httprouter.Router)
}

// Worker is a background component stopped during shutdown.
type Worker interface {
	Stop(ctx context.Context)
}
