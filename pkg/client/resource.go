package client

import (
	"context"
	"net/http"
)

// Resource is CRUD access to one collection endpoint. Writes need a
// logged-in client.
type Resource[T any] struct {
	client   *Client
	endpoint string
}

func NewResource[T any](c *Client, endpoint string) *Resource[T] {
	return &Resource[T]{client: c, endpoint: endpoint}
}

// Authors is the /api/authors collection.
func (c *Client) Authors() *Resource[Author] {
	return NewResource[Author](c, AuthorsEndpoint)
}

// Books is the /api/books collection.
func (c *Client) Books() *Resource[Book] {
	return NewResource[Book](c, BooksEndpoint)
}

// Get returns ErrNotFound for an unknown id.
func (r *Resource[T]) Get(ctx context.Context, id int64) (*T, error) {
	var out T
	if err := r.client.do(ctx, http.MethodGet, r.client.itemURL(r.endpoint, id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	out := []T{}
	if err := r.client.do(ctx, http.MethodGet, r.client.collectionURL(r.endpoint), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create posts obj and, on success, overwrites it with the stored
// representation so the assigned id is visible to the caller.
func (r *Resource[T]) Create(ctx context.Context, obj *T) (bool, error) {
	return outcome(r.client.do(ctx, http.MethodPost, r.client.collectionURL(r.endpoint), obj, obj))
}

// Update replaces the item at id. obj must carry the same id.
func (r *Resource[T]) Update(ctx context.Context, id int64, obj *T) (bool, error) {
	return outcome(r.client.do(ctx, http.MethodPut, r.client.itemURL(r.endpoint, id), obj, nil))
}

func (r *Resource[T]) Delete(ctx context.Context, id int64) (bool, error) {
	return outcome(r.client.do(ctx, http.MethodDelete, r.client.itemURL(r.endpoint, id), nil, nil))
}
