package service

import (
	"github.com/deppfellow/items-api/internal/repository"
	"github.com/deppfellow/items-api/internal/server"
)

// Services is a container for all business-layer services.
type Services struct {
	Items *ItemService
}

// NewServices constructs the service container from the app container and
// the repositories.
func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Items: NewItemService(repos.Items, s.Logger),
	}, nil
}
