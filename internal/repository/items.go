package repository

import (
	"context"

	"github.com/deppfellow/items-api/internal/database"
	"github.com/jackc/pgx/v5"
)

// Item is the single persisted entity.
//
// id is assigned by the storage layer on creation and immutable thereafter;
// name is non-empty text; value is numeric. The database is the sole owner
// of durable Item state: nothing is cached between requests.
type Item struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Items is the storage contract for the items table.
//
// The service layer depends on this interface, not on the pgx
// implementation, so tests can substitute an in-memory collaborator.
type Items interface {
	// List returns all items ordered by ascending id.
	List(ctx context.Context) ([]Item, error)

	// Create inserts one row and returns the stored row, id included.
	Create(ctx context.Context, name string, value float64) (Item, error)

	// Update overwrites name/value of the row matching id and returns the
	// updated row. Returns pgx.ErrNoRows when no row matched.
	Update(ctx context.Context, id int64, name string, value float64) (Item, error)

	// Delete removes the row matching id. Deleting an id that does not
	// exist is not an error.
	Delete(ctx context.Context, id int64) error
}

// ItemRepository is the pgx-backed implementation of Items.
//
// All statements are parameterized; untrusted input is never concatenated
// into statement text.
type ItemRepository struct {
	db *database.Database
}

// NewItemRepository constructs an ItemRepository on top of the shared pool wrapper.
func NewItemRepository(db *database.Database) *ItemRepository {
	return &ItemRepository{db: db}
}

// List returns every item ordered by ascending id.
//
// The ascending order is part of the API contract: it gives pagination-free
// clients a deterministic, stable order to diff successive reads against.
func (r *ItemRepository) List(ctx context.Context) ([]Item, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, name, value FROM items ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Start from an empty slice, not nil, so an empty table serializes as
	// [] rather than null.
	items := []Item{}
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Value); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// Create inserts one row and returns it with the id the storage layer assigned.
func (r *ItemRepository) Create(ctx context.Context, name string, value float64) (Item, error) {
	var item Item
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO items (name, value) VALUES ($1, $2) RETURNING id, name, value`,
		name, value,
	).Scan(&item.ID, &item.Name, &item.Value)
	if err != nil {
		return Item{}, err
	}

	return item, nil
}

// Update overwrites name/value of the row matching id inside a transaction
// and returns the updated row.
//
// pgx.ErrNoRows surfaces when no row matched, which rolls the transaction
// back and maps to a 404 upstream. Concurrent updates to the same id are not
// coordinated here: they race at the storage layer and the last commit wins.
func (r *ItemRepository) Update(ctx context.Context, id int64, name string, value float64) (Item, error) {
	var item Item
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx,
			`UPDATE items SET name = $2, value = $3 WHERE id = $1 RETURNING id, name, value`,
			id, name, value,
		).Scan(&item.ID, &item.Name, &item.Value)
	})
	if err != nil {
		return Item{}, err
	}

	return item, nil
}

// Delete removes the row matching id.
//
// RowsAffected is deliberately ignored: deleting an already-deleted id is a
// success, preserving the API's idempotent 204 contract.
func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	return err
}
