package apiclient

import (
	"context"
	"net/http"

	"catalog-admin/internal/models"
)

var (
	CastConfig      = ResourceConfig{Name: "cast", Encoding: MultipartEncoding("castData")}
	CountriesConfig = ResourceConfig{Name: "countries", Encoding: JSONEncoding}
	GenresConfig    = ResourceConfig{Name: "genres", Encoding: JSONEncoding}
	TagsConfig      = ResourceConfig{Name: "tags", Encoding: JSONEncoding}
	MoviesConfig    = ResourceConfig{Name: "movies", Encoding: MultipartEncoding("movieData"), UpdateMethod: http.MethodPut}
)

// Catalog bundles the five admin resources behind one credential provider.
type Catalog struct {
	Cast      *Resource[models.CastMember]
	Countries *Resource[models.Country]
	Genres    *Resource[models.Genre]
	Tags      *Resource[models.Tag]
	Movies    *Resource[models.Movie]
}

// NewCatalog creates the five admin resources over one client.
func NewCatalog(c *Client) *Catalog {
	return &Catalog{
		Cast:      NewResource[models.CastMember](c, CastConfig),
		Countries: NewResource[models.Country](c, CountriesConfig),
		Genres:    NewResource[models.Genre](c, GenresConfig),
		Tags:      NewResource[models.Tag](c, TagsConfig),
		Movies:    NewResource[models.Movie](c, MoviesConfig),
	}
}

type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// Deleter looks a resource up by name.
func (c *Catalog) Deleter(name string) (Deleter, bool) {
	switch name {
	case CastConfig.Name:
		return c.Cast, true
	case CountriesConfig.Name:
		return c.Countries, true
	case GenresConfig.Name:
		return c.Genres, true
	case TagsConfig.Name:
		return c.Tags, true
	case MoviesConfig.Name:
		return c.Movies, true
	}
	return nil, false
}
