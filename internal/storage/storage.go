package storage

import (
	"context"
	"errors"

	"poolRegistry/internal/model"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a record whose id already exists.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidInput is returned when a record is missing its id.
	ErrInvalidInput = errors.New("invalid input")
)

// ListQuery selects a page of pool ids.
// Results are ordered by created_at descending, ties broken by id descending.
type ListQuery struct {
	Filter model.PoolFilter
	Limit  int
	Offset int
}

// PoolStore persists pool records.
type PoolStore interface {
	// Insert adds a new pool. Returns ErrDuplicateKey if the id exists.
	Insert(ctx context.Context, p *model.Pool) error

	// Get returns the pool with id. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*model.Pool, error)

	// Replace overwrites every field of the pool with p.ID except CreatedAt
	// and returns the stored record. Returns ErrNotFound if absent.
	Replace(ctx context.Context, p *model.Pool) (*model.Pool, error)

	// Delete removes the pool with id and returns it. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) (*model.Pool, error)

	// ListIDs returns the ids selected by q.
	ListIDs(ctx context.Context, q ListQuery) ([]string, error)
}
