package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// WithTx runs fn inside a single transaction.
//
// Every statement issued through the tx handle passed to fn belongs to one
// atomic unit: if fn returns nil the unit commits, if it returns an error
// (or panics) the unit rolls back and no partial writes are visible to
// subsequent reads. The caller always receives a normal error value; a panic
// inside fn is re-raised only after the rollback has run.
//
// Failures are logged here with operation context so repositories don't have
// to repeat the bookkeeping.
func (db *Database) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		db.log.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			db.log.Error().Err(rbErr).Msg("failed to roll back transaction")
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		db.log.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
