package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"catalog-admin/internal/models"
)

// ResourceConfig describes one admin collection.
type ResourceConfig struct {
	// Name is the path segment under /admin, e.g. "genres".
	Name     string
	Encoding Encoding
	// UpdateMethod is PATCH unless the backend replaces full records.
	UpdateMethod string
}

// Resource is the typed client for one admin collection.
type Resource[T any] struct {
	client *Client
	cfg    ResourceConfig
}

// NewResource creates a client for one admin collection.
func NewResource[T any](client *Client, cfg ResourceConfig) *Resource[T] {
	if cfg.UpdateMethod == "" {
		cfg.UpdateMethod = http.MethodPatch
	}
	return &Resource[T]{client: client, cfg: cfg}
}

// Name returns the resource path segment, e.g. genres.
func (r *Resource[T]) Name() string {
	return r.cfg.Name
}

func (r *Resource[T]) collectionPath() string {
	return "/admin/" + r.cfg.Name
}

func (r *Resource[T]) itemPath(id string) string {
	return r.collectionPath() + "/" + url.PathEscape(id)
}

// List fetches one page of the collection.
func (r *Resource[T]) List(ctx context.Context, q Query) (*models.Page[T], error) {
	var page models.Page[T]
	err := r.client.do(ctx, request{
		method:   http.MethodGet,
		path:     r.collectionPath(),
		query:    q.Values(),
		verb:     "fetch",
		resource: r.cfg.Name,
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Create posts a new record and returns what the backend stored.
func (r *Resource[T]) Create(ctx context.Context, p Payload) (*T, error) {
	return r.send(ctx, http.MethodPost, r.collectionPath(), "create", p)
}

// Update sends the payload with the resource's update verb (PATCH, PUT for movies).
func (r *Resource[T]) Update(ctx context.Context, id string, p Payload) (*T, error) {
	return r.send(ctx, r.cfg.UpdateMethod, r.itemPath(id), "update", p)
}

// Delete removes one record. The response body is ignored.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.client.do(ctx, request{
		method:   http.MethodDelete,
		path:     r.itemPath(id),
		verb:     "delete",
		resource: r.cfg.Name,
	}, nil)
}

func (r *Resource[T]) send(ctx context.Context, method, path, verb string, p Payload) (*T, error) {
	body, ctype, err := r.cfg.Encoding.Encode(p)
	if err != nil {
		return nil, &RequestError{Verb: verb, Resource: r.cfg.Name, Err: err}
	}

	var entity T
	err = r.client.do(ctx, request{
		method:   method,
		path:     path,
		body:     body,
		ctype:    ctype,
		verb:     verb,
		resource: r.cfg.Name,
	}, &entity)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}
