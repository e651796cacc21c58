package pages

import (
	"context"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/forms"
	"catalog-admin/internal/listing"
	"catalog-admin/internal/models"
)

// Client is the part of a resource client a page needs.
type Client[T any] interface {
	listing.Fetcher[T]
	Create(ctx context.Context, p apiclient.Payload) (*T, error)
	Update(ctx context.Context, id string, p apiclient.Payload) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Cell is one rendered table cell.
type Cell struct {
	Text  string
	Image string
	// Tone colours badges: success, muted, warning, info.
	Badge string
	Tone  string
}

type Column[T any] struct {
	// Key is the backend sortBy field.
	Key      string
	Header   string
	Sortable bool
	Cell     func(T) Cell
}

type StatusOption struct {
	Value string
	Label string
}

type Stat struct {
	Label string
	Value int64
}

// Definition is everything that differs between resource pages.
type Definition[T models.Entity] struct {
	Name     string
	Title    string
	Singular string

	Columns     []Column[T]
	DefaultSort string
	DefaultDesc bool
	Statuses    []StatusOption

	NewDraft func(entity *T) forms.Draft
	Label    func(T) string
	// Summary counts the loaded page; nil falls back to active/inactive.
	Summary func(items []T) []Stat
}

var activeStatuses = []StatusOption{
	{Value: listing.StatusAll, Label: "All"},
	{Value: listing.StatusActive, Label: "Active"},
	{Value: listing.StatusInactive, Label: "Inactive"},
}

func activeSummary[T models.Entity](items []T) []Stat {
	var active, inactive int64
	for _, item := range items {
		a, ok := any(item).(models.Activatable)
		if !ok {
			continue
		}
		if a.Active() {
			active++
		} else {
			inactive++
		}
	}
	return []Stat{
		{Label: "Active", Value: active},
		{Label: "Inactive", Value: inactive},
	}
}

func activeCell(active bool) Cell {
	if active {
		return Cell{Badge: "Active", Tone: "success"}
	}
	return Cell{Badge: "Inactive", Tone: "muted"}
}
