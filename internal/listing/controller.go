// Package listing holds the paging, sorting and filtering state of one admin
// collection and drives its list fetches.
package listing

import (
	"context"
	"sync"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/models"

	"github.com/sirupsen/logrus"
)

// Fetcher is the list half of a resource client.
type Fetcher[T any] interface {
	Name() string
	List(ctx context.Context, q apiclient.Query) (*models.Page[T], error)
}

// Status filter values understood by every resource. Any other non-empty value
// is sent as the status parameter (movies).
const (
	StatusAll      = ""
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// State is the query-shaping part of a list screen.
type State struct {
	Page      int
	Limit     int
	Search    string
	Status    string
	SortBy    string
	SortOrder apiclient.SortOrder
}

func (s State) query() apiclient.Query {
	q := apiclient.Query{
		Page:      s.Page,
		Limit:     s.Limit,
		SortBy:    s.SortBy,
		SortOrder: s.SortOrder,
		Search:    s.Search,
	}
	switch s.Status {
	case StatusAll:
	case StatusActive:
		active := true
		q.IsActive = &active
	case StatusInactive:
		inactive := false
		q.IsActive = &inactive
	default:
		q.Status = s.Status
	}
	return q
}

// Controller owns one collection's list state. Every state-changing call
// issues exactly one fetch; on failure the previous items stay visible.
type Controller[T models.Entity] struct {
	fetcher Fetcher[T]
	logger  *logrus.Logger

	mu         sync.Mutex
	state      State
	items      []T
	total      int64
	totalPages int
	limit      int
	loaded     bool
	loading    bool
	err        error
	generation uint64
}

// NewController creates a controller starting from initial. Zero page, limit
// and sort order fall back to 1, 10 and ascending.
func NewController[T models.Entity](fetcher Fetcher[T], initial State, logger *logrus.Logger) *Controller[T] {
	if initial.Page < 1 {
		initial.Page = 1
	}
	if initial.Limit < 1 {
		initial.Limit = 10
	}
	if initial.SortOrder == "" {
		initial.SortOrder = apiclient.SortAsc
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Controller[T]{
		fetcher: fetcher,
		logger:  logger,
		state:   initial,
	}
}

// Load performs the mount-time fetch.
func (c *Controller[T]) Load(ctx context.Context) error {
	return c.apply(ctx, func(*State) {})
}

// Refresh refetches with the current state.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	return c.apply(ctx, func(*State) {})
}

// SetPage moves to page, clamped to 1.
func (c *Controller[T]) SetPage(ctx context.Context, page int) error {
	return c.apply(ctx, func(s *State) {
		if page < 1 {
			page = 1
		}
		s.Page = page
	})
}

// SetLimit changes the page size and goes back to the first page.
func (c *Controller[T]) SetLimit(ctx context.Context, limit int) error {
	return c.apply(ctx, func(s *State) {
		if limit > 0 {
			s.Limit = limit
		}
		s.Page = 1
	})
}

// Search sets the search term and goes back to the first page.
func (c *Controller[T]) Search(ctx context.Context, term string) error {
	return c.apply(ctx, func(s *State) {
		s.Search = term
		s.Page = 1
	})
}

// FilterStatus sets the status filter and goes back to the first page.
func (c *Controller[T]) FilterStatus(ctx context.Context, status string) error {
	return c.apply(ctx, func(s *State) {
		s.Status = status
		s.Page = 1
	})
}

// SortBy toggles the direction when field is already active, otherwise it
// switches to field ascending and goes back to the first page.
func (c *Controller[T]) SortBy(ctx context.Context, field string) error {
	return c.apply(ctx, func(s *State) {
		if s.SortBy == field {
			s.SortOrder = s.SortOrder.Toggle()
			return
		}
		s.SortBy = field
		s.SortOrder = apiclient.SortAsc
		s.Page = 1
	})
}

func (c *Controller[T]) apply(ctx context.Context, mutate func(*State)) error {
	c.mu.Lock()
	mutate(&c.state)
	state := c.state
	c.generation++
	gen := c.generation
	c.loading = true
	c.mu.Unlock()

	page, err := c.fetcher.List(ctx, state.query())

	c.mu.Lock()
	defer c.mu.Unlock()

	// A newer request owns the list now.
	if gen != c.generation {
		return err
	}
	c.loading = false

	if err != nil {
		c.err = err
		c.logger.WithError(err).WithFields(logrus.Fields{
			"resource": c.fetcher.Name(),
			"page":     state.Page,
		}).Warn("List fetch failed, keeping previous items")
		return err
	}

	limit := page.Limit
	if limit <= 0 {
		limit = state.Limit
	}
	items := page.Items
	if len(items) > limit {
		c.logger.WithFields(logrus.Fields{
			"resource": c.fetcher.Name(),
			"received": len(items),
			"limit":    limit,
		}).Warn("Backend returned more items than the page limit")
		items = items[:limit]
	}

	c.items = items
	c.total = page.Total
	c.totalPages = page.TotalPages
	c.limit = limit
	c.loaded = true
	c.err = nil
	return nil
}

// Prepend puts a freshly created entity at the top of the visible page.
func (c *Controller[T]) Prepend(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]T, 0, len(c.items)+1)
	items = append(items, item)
	items = append(items, c.items...)
	if limit := c.pageLimit(); len(items) > limit {
		items = items[:limit]
	}
	c.items = items
}

// pageLimit is the limit the backend declared for the loaded page, or the
// requested one before the first load. Callers hold c.mu.
func (c *Controller[T]) pageLimit() int {
	if c.limit > 0 {
		return c.limit
	}
	return c.state.Limit
}

// Merge replaces the entity with the same id in place. It reports whether the
// entity was on the current page.
func (c *Controller[T]) Merge(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].EntityID() == item.EntityID() {
			c.items[i] = item
			return true
		}
	}
	return false
}

// Remove drops the entity with id from the visible page and reports whether
// it was there.
func (c *Controller[T]) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].EntityID() == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Find looks an entity up on the current page.
func (c *Controller[T]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range c.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// State returns the current query state.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Items returns a copy of the visible page.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Total is the server-declared number of matching records.
func (c *Controller[T]) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// TotalPages is the server-declared page count.
func (c *Controller[T]) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPages
}

// Loaded reports whether any fetch has succeeded yet.
func (c *Controller[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Loading reports whether a fetch is in flight.
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err is the last fetch error, cleared by the next successful fetch.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
