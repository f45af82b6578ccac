package service

import (
	"context"
	"strings"

	"github.com/deppfellow/items-api/internal/repository"
	"github.com/rs/zerolog"
)

// ItemService implements the business operations over items.
//
// It is deliberately thin: the interesting rules (unique ids, non-empty
// names) are owned by the storage layer, so this layer normalizes input,
// delegates to the repository, and records failures with operation context
// before they propagate to the error handler.
type ItemService struct {
	repo repository.Items
	log  *zerolog.Logger
}

// NewItemService constructs an ItemService over any Items implementation.
//
// Taking the interface (not the pgx repository) keeps the service testable
// with a substitute storage collaborator.
func NewItemService(repo repository.Items, log *zerolog.Logger) *ItemService {
	return &ItemService{
		repo: repo,
		log:  log,
	}
}

// List returns all items ordered by ascending id.
func (s *ItemService) List(ctx context.Context) ([]repository.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("operation", "list_items").Msg("storage operation failed")
		return nil, err
	}
	return items, nil
}

// Create inserts a new item and returns the stored row.
//
// The name is trimmed before persisting, so "  A  " and "A" store the same
// value; validation has already rejected names that are empty after trimming.
func (s *ItemService) Create(ctx context.Context, name string, value float64) (repository.Item, error) {
	item, err := s.repo.Create(ctx, strings.TrimSpace(name), value)
	if err != nil {
		s.log.Error().Err(err).Str("operation", "create_item").Msg("storage operation failed")
		return repository.Item{}, err
	}
	return item, nil
}

// Update overwrites name/value of an existing item and returns the updated row.
//
// A missing target surfaces as pgx.ErrNoRows from the repository; the error
// funnel maps it to 404.
func (s *ItemService) Update(ctx context.Context, id int64, name string, value float64) (repository.Item, error) {
	item, err := s.repo.Update(ctx, id, strings.TrimSpace(name), value)
	if err != nil {
		s.log.Error().Err(err).Str("operation", "update_item").Int64("item_id", id).Msg("storage operation failed")
		return repository.Item{}, err
	}
	return item, nil
}

// Delete removes an item. Deleting an id that no longer exists succeeds.
func (s *ItemService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("operation", "delete_item").Int64("item_id", id).Msg("storage operation failed")
		return err
	}
	return nil
}
