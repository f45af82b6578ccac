package handler

import (
	"github.com/deppfellow/items-api/internal/server"
	"github.com/deppfellow/items-api/internal/service"
)

// Handlers is a container that groups all HTTP handlers.
//
// It keeps router setup clean: one object is passed around instead of many.
// Handlers represent the HTTP layer: parse input, validate, call services,
// and return responses.
type Handlers struct {
	Items  *ItemHandler   // Items serves the /api/items CRUD endpoints.
	Health *HealthHandler // Health serves the service health endpoint.
}

// NewHandlers constructs the handler container.
//
// Parameters:
//   - s: application container (logger/config/db) needed by handlers
//   - services: business layer container
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Items:  NewItemHandler(s, services.Items),
		Health: NewHealthHandler(s),
	}
}
