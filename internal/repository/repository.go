package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a lookup or a scoped update touches no row.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	DB            *sql.DB
	GoquDBWrapper *goqu.Database
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:            db,
		GoquDBWrapper: goqu.New("postgres", db),
	}
}

func WithTransaction(ctx context.Context, db *goqu.Database, fn func(tx *goqu.TxDatabase) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(tx)
	return
}

// ExpectAffected turns a zero-row update or delete into ErrNotFound.
func ExpectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsUUID reports whether id can be compared with a uuid column without a cast error.
func IsUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// OptionalID treats nil and empty as absent. ok is false when value is present but not an id.
func OptionalID(value *string) (id *string, ok bool) {
	if value == nil || *value == "" {
		return nil, true
	}
	if !IsUUID(*value) {
		return nil, false
	}
	v := *value
	return &v, true
}
