// Package repository holds the storage contract shared by every catalog
// entity and its PostgreSQL implementation.
package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no row matches the requested id.
var ErrNotFound = errors.New("record not found")

// Record is what an entity exposes so the generic repository can persist it.
type Record interface {
	// Table is the table the entity lives in.
	Table() string
	// Columns are the writable columns, without the id.
	Columns() []string
	// Values are the current values, in Columns order.
	Values() []any
	// Fields are scan targets: the id first, then Columns order.
	Fields() []any
	// Identifier is the store-assigned id, 0 before Create.
	Identifier() int64
}

// RecordPtr constrains a type parameter to *T implementing Record.
type RecordPtr[T any] interface {
	*T
	Record
}

// Repository is the uniform contract over an entity type.
//
// Create, Update and Delete report whether at least one row was affected;
// a constraint violation is reported as false with a nil error. Update and
// Delete return ErrNotFound when the row does not exist.
type Repository[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id int64) (*T, error)
	IsExists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, entity *T) (bool, error)
	Update(ctx context.Context, entity *T) (bool, error)
	Delete(ctx context.Context, entity *T) (bool, error)
}
