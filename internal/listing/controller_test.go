package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu      sync.Mutex
	queries []apiclient.Query
	pages   []*models.Page[models.Genre]
	errs    []error
}

func (f *fakeFetcher) Name() string { return "genres" }

func (f *fakeFetcher) List(_ context.Context, q apiclient.Query) (*models.Page[models.Genre], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.queries)
	f.queries = append(f.queries, q)
	if n < len(f.errs) && f.errs[n] != nil {
		return nil, f.errs[n]
	}
	if n < len(f.pages) {
		return f.pages[n], nil
	}
	return genrePage(q.Page, q.Limit, 2), nil
}

func (f *fakeFetcher) last() apiclient.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func genrePage(page, limit, n int) *models.Page[models.Genre] {
	items := make([]models.Genre, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, models.Genre{
			ID:        fmt.Sprintf("g%d-%d", page, i),
			GenreName: fmt.Sprintf("Genre %d", i),
			IsActive:  i%2 == 0,
		})
	}
	return &models.Page[models.Genre]{Items: items, Total: 42, Page: page, Limit: limit, TotalPages: 5}
}

func newController(f *fakeFetcher) *Controller[models.Genre] {
	return NewController[models.Genre](f, State{Limit: 10, SortBy: "createdAt", SortOrder: apiclient.SortDesc}, nil)
}

func TestLoadReplacesListAtomically(t *testing.T) {
	f := &fakeFetcher{}
	c := newController(f)

	require.NoError(t, c.Load(context.Background()))

	assert.Len(t, f.queries, 1)
	assert.Len(t, c.Items(), 2)
	assert.EqualValues(t, 42, c.Total())
	assert.Equal(t, 5, c.TotalPages())
	assert.True(t, c.Loaded())
	assert.False(t, c.Loading())
	assert.NoError(t, c.Err())
}

func TestOneFetchPerStateChange(t *testing.T) {
	f := &fakeFetcher{}
	c := newController(f)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	require.NoError(t, c.SetPage(ctx, 3))
	require.NoError(t, c.Search(ctx, "act"))
	require.NoError(t, c.FilterStatus(ctx, StatusActive))
	require.NoError(t, c.SortBy(ctx, "genreName"))

	assert.Len(t, f.queries, 5)
}

func TestSearchAndFilterResetPage(t *testing.T) {
	f := &fakeFetcher{}
	c := newController(f)
	ctx := context.Background()

	require.NoError(t, c.SetPage(ctx, 4))
	assert.Equal(t, 4, f.last().Page)

	require.NoError(t, c.Search(ctx, "drama"))
	assert.Equal(t, 1, f.last().Page)
	assert.Equal(t, "drama", f.last().Search)

	require.NoError(t, c.SetPage(ctx, 2))
	require.NoError(t, c.FilterStatus(ctx, StatusInactive))
	q := f.last()
	assert.Equal(t, 1, q.Page)
	require.NotNil(t, q.IsActive)
	assert.False(t, *q.IsActive)

	require.NoError(t, c.FilterStatus(ctx, string(models.MovieStatusPublished)))
	assert.Nil(t, f.last().IsActive)
	assert.Equal(t, "published", f.last().Status)
}

func TestSortToggles(t *testing.T) {
	f := &fakeFetcher{}
	c := newController(f)
	ctx := context.Background()

	require.NoError(t, c.SetPage(ctx, 3))

	// new field: ascending, back to page one
	require.NoError(t, c.SortBy(ctx, "genreName"))
	assert.Equal(t, "genreName", f.last().SortBy)
	assert.Equal(t, apiclient.SortAsc, f.last().SortOrder)
	assert.Equal(t, 1, f.last().Page)

	// same field: toggled
	require.NoError(t, c.SortBy(ctx, "genreName"))
	assert.Equal(t, apiclient.SortDesc, f.last().SortOrder)
	require.NoError(t, c.SortBy(ctx, "genreName"))
	assert.Equal(t, apiclient.SortAsc, f.last().SortOrder)

	// switching again resets to ascending even from desc
	require.NoError(t, c.SortBy(ctx, "genreName"))
	require.NoError(t, c.SortBy(ctx, "createdAt"))
	assert.Equal(t, apiclient.SortAsc, f.last().SortOrder)
}

func TestFailureKeepsPreviousItems(t *testing.T) {
	f := &fakeFetcher{errs: []error{nil, apiclient.ErrUnauthorized, errors.New("boom")}}
	c := newController(f)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	before := c.Items()

	err := c.SetPage(ctx, 2)
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	assert.Equal(t, before, c.Items())
	assert.ErrorIs(t, c.Err(), apiclient.ErrUnauthorized)
	assert.False(t, c.Loading())

	require.Error(t, c.Refresh(ctx))
	assert.Equal(t, before, c.Items())

	require.NoError(t, c.Refresh(ctx))
	assert.NoError(t, c.Err())
}

func TestItemsNeverExceedLimit(t *testing.T) {
	limits := []int{1, 3, 10}
	for _, limit := range limits {
		t.Run(fmt.Sprintf("limit %d", limit), func(t *testing.T) {
			f := &fakeFetcher{pages: []*models.Page[models.Genre]{genrePage(1, limit, limit+5)}}
			c := NewController[models.Genre](f, State{Limit: limit}, nil)

			require.NoError(t, c.Load(context.Background()))
			assert.Len(t, c.Items(), limit)

			c.Prepend(models.Genre{ID: "new"})
			assert.Len(t, c.Items(), limit)
			assert.Equal(t, "new", c.Items()[0].ID)
		})
	}
}

func TestServerLimitBoundsItems(t *testing.T) {
	f := &fakeFetcher{pages: []*models.Page[models.Genre]{genrePage(1, 5, 8)}}
	c := NewController[models.Genre](f, State{Limit: 10}, nil)

	require.NoError(t, c.Load(context.Background()))
	assert.Len(t, c.Items(), 5)
	assert.Equal(t, 10, f.last().Limit)

	c.Prepend(models.Genre{ID: "new"})
	assert.Len(t, c.Items(), 5)
}

func TestLocalMutations(t *testing.T) {
	f := &fakeFetcher{}
	c := newController(f)
	require.NoError(t, c.Load(context.Background()))

	assert.True(t, c.Merge(models.Genre{ID: "g1-1", GenreName: "Renamed"}))
	got, ok := c.Find("g1-1")
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.GenreName)

	assert.False(t, c.Merge(models.Genre{ID: "elsewhere"}))

	assert.True(t, c.Remove("g1-0"))
	assert.False(t, c.Remove("g1-0"))
	assert.Len(t, c.Items(), 1)
}

type blockingFetcher struct {
	fakeFetcher
	release chan struct{}
	started chan struct{}
}

func (b *blockingFetcher) List(ctx context.Context, q apiclient.Query) (*models.Page[models.Genre], error) {
	if q.Search == "slow" {
		close(b.started)
		<-b.release
		return genrePage(1, q.Limit, 1), nil
	}
	return genrePage(1, q.Limit, 3), nil
}

func TestSupersededResponseIsDiscarded(t *testing.T) {
	b := &blockingFetcher{release: make(chan struct{}), started: make(chan struct{})}
	c := NewController[models.Genre](b, State{Limit: 10}, nil)
	ctx := context.Background()

	done := make(chan error)
	go func() { done <- c.Search(ctx, "slow") }()
	<-b.started

	require.NoError(t, c.Search(ctx, "fast"))
	close(b.release)
	require.NoError(t, <-done)

	assert.Len(t, c.Items(), 3)
	assert.Equal(t, "fast", c.State().Search)
}
