package repository

import (
	"github.com/deppfellow/items-api/internal/server"
)

// Repositories is a container for all repository instances.
//
// Keeping repositories behind one container keeps wiring in main simple:
// services accept this one object instead of individual repos.
type Repositories struct {
	Items Items
}

// NewRepositories constructs the repository container.
//
// Parameter:
//   - s: application container (the DB pool lives on s.DB)
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Items: NewItemRepository(s.DB),
	}
}
