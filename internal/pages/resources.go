package pages

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/forms"
	"catalog-admin/internal/listing"
	"catalog-admin/internal/models"
)

func dateCell(t time.Time) Cell {
	if t.IsZero() {
		return Cell{Text: "-"}
	}
	return Cell{Text: t.Format("2006-01-02")}
}

func countCell(n int) Cell {
	return Cell{Text: strconv.Itoa(n)}
}

func CastDefinition() Definition[models.CastMember] {
	return Definition[models.CastMember]{
		Name:        "cast",
		Title:       "Cast",
		Singular:    "cast member",
		DefaultSort: "createdAt",
		DefaultDesc: true,
		Columns: []Column[models.CastMember]{
			{Key: "castImage", Header: "Photo", Cell: func(c models.CastMember) Cell { return Cell{Image: c.CastImage} }},
			{Key: "castName", Header: "Name", Sortable: true, Cell: func(c models.CastMember) Cell { return Cell{Text: c.CastName} }},
			{Key: "castDescription", Header: "Description", Cell: func(c models.CastMember) Cell { return Cell{Text: c.CastDescription} }},
			{Key: "moviesCount", Header: "Movies", Cell: func(c models.CastMember) Cell { return countCell(c.MoviesCount) }},
			{Key: "isActive", Header: "Status", Cell: func(c models.CastMember) Cell { return activeCell(c.IsActive) }},
			{Key: "createdAt", Header: "Created", Sortable: true, Cell: func(c models.CastMember) Cell { return dateCell(c.CreatedAt) }},
		},
		NewDraft: func(c *models.CastMember) forms.Draft { return forms.NewCastDraft(c) },
		Label:    func(c models.CastMember) string { return c.CastName },
	}
}

func CountriesDefinition() Definition[models.Country] {
	return Definition[models.Country]{
		Name:        "countries",
		Title:       "Countries",
		Singular:    "country",
		DefaultSort: "name",
		Columns: []Column[models.Country]{
			{Key: "name", Header: "Name", Sortable: true, Cell: func(c models.Country) Cell { return Cell{Text: c.Name} }},
			{Key: "code", Header: "Code", Sortable: true, Cell: func(c models.Country) Cell { return Cell{Badge: c.Code, Tone: "info"} }},
			{Key: "moviesCount", Header: "Movies", Cell: func(c models.Country) Cell { return countCell(c.MoviesCount) }},
			{Key: "isActive", Header: "Status", Cell: func(c models.Country) Cell { return activeCell(c.IsActive) }},
			{Key: "createdAt", Header: "Created", Sortable: true, Cell: func(c models.Country) Cell { return dateCell(c.CreatedAt) }},
		},
		NewDraft: func(c *models.Country) forms.Draft { return forms.NewCountryDraft(c) },
		Label:    func(c models.Country) string { return c.Name },
	}
}

func GenresDefinition() Definition[models.Genre] {
	return Definition[models.Genre]{
		Name:        "genres",
		Title:       "Genres",
		Singular:    "genre",
		DefaultSort: "genreName",
		Columns: []Column[models.Genre]{
			{Key: "genreName", Header: "Name", Sortable: true, Cell: func(g models.Genre) Cell { return Cell{Text: g.GenreName} }},
			{Key: "genreCode", Header: "Code", Sortable: true, Cell: func(g models.Genre) Cell { return Cell{Badge: g.GenreCode, Tone: "info"} }},
			{Key: "moviesCount", Header: "Movies", Cell: func(g models.Genre) Cell { return countCell(g.MoviesCount) }},
			{Key: "seriesCount", Header: "Series", Cell: func(g models.Genre) Cell { return countCell(g.SeriesCount) }},
			{Key: "isActive", Header: "Status", Cell: func(g models.Genre) Cell { return activeCell(g.IsActive) }},
			{Key: "createdAt", Header: "Created", Sortable: true, Cell: func(g models.Genre) Cell { return dateCell(g.CreatedAt) }},
		},
		NewDraft: func(g *models.Genre) forms.Draft { return forms.NewGenreDraft(g) },
		Label:    func(g models.Genre) string { return g.GenreName },
	}
}

func TagsDefinition() Definition[models.Tag] {
	return Definition[models.Tag]{
		Name:        "tags",
		Title:       "Tags",
		Singular:    "tag",
		DefaultSort: "tagName",
		Columns: []Column[models.Tag]{
			{Key: "tagName", Header: "Name", Sortable: true, Cell: func(t models.Tag) Cell { return Cell{Text: t.TagName} }},
			{Key: "tagCode", Header: "Code", Sortable: true, Cell: func(t models.Tag) Cell { return Cell{Badge: t.TagCode, Tone: "info"} }},
			{Key: "moviesCount", Header: "Movies", Cell: func(t models.Tag) Cell { return countCell(t.MoviesCount) }},
			{Key: "seriesCount", Header: "Series", Cell: func(t models.Tag) Cell { return countCell(t.SeriesCount) }},
			{Key: "isActive", Header: "Status", Cell: func(t models.Tag) Cell { return activeCell(t.IsActive) }},
			{Key: "createdAt", Header: "Created", Sortable: true, Cell: func(t models.Tag) Cell { return dateCell(t.CreatedAt) }},
		},
		NewDraft: func(t *models.Tag) forms.Draft { return forms.NewTagDraft(t) },
		Label:    func(t models.Tag) string { return t.TagName },
	}
}

var movieStatuses = []StatusOption{
	{Value: "", Label: "All"},
	{Value: string(models.MovieStatusDraft), Label: "Draft"},
	{Value: string(models.MovieStatusPublished), Label: "Published"},
	{Value: string(models.MovieStatusArchived), Label: "Archived"},
}

func statusTone(s models.MovieStatus) string {
	switch s {
	case models.MovieStatusPublished:
		return "success"
	case models.MovieStatusArchived:
		return "muted"
	default:
		return "warning"
	}
}

func MoviesDefinition(draftOpts ...forms.MovieDraftOption) Definition[models.Movie] {
	return Definition[models.Movie]{
		Name:        "movies",
		Title:       "Movies",
		Singular:    "movie",
		DefaultSort: "createdAt",
		DefaultDesc: true,
		Statuses:    movieStatuses,
		Columns: []Column[models.Movie]{
			{Key: "posterUrl", Header: "Poster", Cell: func(m models.Movie) Cell { return Cell{Image: m.PosterURL} }},
			{Key: "title", Header: "Title", Sortable: true, Cell: func(m models.Movie) Cell { return Cell{Text: m.Title} }},
			{Key: "year", Header: "Year", Sortable: true, Cell: func(m models.Movie) Cell {
				if m.Year == 0 {
					return Cell{Text: "-"}
				}
				return countCell(m.Year)
			}},
			{Key: "genres", Header: "Genres", Cell: func(m models.Movie) Cell { return Cell{Text: strings.Join(m.GenreNames(), ", ")} }},
			{Key: "rating", Header: "Rating", Sortable: true, Cell: func(m models.Movie) Cell {
				if m.Rating == 0 {
					return Cell{Text: "-"}
				}
				return Cell{Text: strconv.FormatFloat(m.Rating, 'f', 1, 64)}
			}},
			{Key: "status", Header: "Status", Sortable: true, Cell: func(m models.Movie) Cell {
				return Cell{Badge: string(m.Status), Tone: statusTone(m.Status)}
			}},
			{Key: "createdAt", Header: "Created", Sortable: true, Cell: func(m models.Movie) Cell { return dateCell(m.CreatedAt) }},
		},
		NewDraft: func(m *models.Movie) forms.Draft { return forms.NewMovieDraft(m, draftOpts...) },
		Label:    func(m models.Movie) string { return m.Title },
		Summary: func(items []models.Movie) []Stat {
			counts := make(map[models.MovieStatus]int64, len(models.MovieStatuses))
			for _, m := range items {
				counts[m.Status]++
			}
			stats := make([]Stat, 0, len(models.MovieStatuses))
			for _, s := range models.MovieStatuses {
				stats = append(stats, Stat{Label: strings.ToUpper(string(s[:1])) + string(s[1:]), Value: counts[s]})
			}
			return stats
		},
	}
}

// Resources lists the page names in navigation order.
var Resources = []string{"movies", "cast", "countries", "genres", "tags"}

// Factory builds mounted pages over one catalog client.
type Factory struct {
	Catalog  *apiclient.Catalog
	Limit    int
	Logger   *logrus.Logger
	Observer Observer
	Initial  listing.State
	// VideoStager, when set, uploads movie videos before submission.
	VideoStager forms.Uploader
}

func (f *Factory) options() Options {
	return Options{Limit: f.Limit, Initial: f.Initial, Logger: f.Logger, Observer: f.Observer}
}

// New builds the page for a resource name.
func (f *Factory) New(name string) (Screen, error) {
	switch name {
	case "cast":
		return New(CastDefinition(), f.Catalog.Cast, f.options()), nil
	case "countries":
		return New(CountriesDefinition(), f.Catalog.Countries, f.options()), nil
	case "genres":
		return New(GenresDefinition(), f.Catalog.Genres, f.options()), nil
	case "tags":
		return New(TagsDefinition(), f.Catalog.Tags, f.options()), nil
	case "movies":
		opts := []forms.MovieDraftOption{forms.WithOptionsLoader(f.movieOptions)}
		if f.VideoStager != nil {
			opts = append(opts, forms.WithVideoStaging(f.VideoStager))
		}
		return New(MoviesDefinition(opts...), f.Catalog.Movies, f.options()), nil
	}
	return nil, fmt.Errorf("unknown resource %q", name)
}

const optionLimit = 100

func optionQuery(sortBy string) apiclient.Query {
	active := true
	return apiclient.Query{Page: 1, Limit: optionLimit, SortBy: sortBy, SortOrder: apiclient.SortAsc, IsActive: &active}
}

func (f *Factory) movieOptions(ctx context.Context) (forms.MovieOptions, error) {
	var opts forms.MovieOptions

	countries, err := f.Catalog.Countries.List(ctx, optionQuery("name"))
	if err != nil {
		return opts, err
	}
	for _, c := range countries.Items {
		opts.Countries = append(opts.Countries, forms.Option{Value: c.ID, Label: c.Name})
	}

	genres, err := f.Catalog.Genres.List(ctx, optionQuery("genreName"))
	if err != nil {
		return opts, err
	}
	for _, g := range genres.Items {
		opts.Genres = append(opts.Genres, forms.Option{Value: g.ID, Label: g.GenreName})
	}

	tags, err := f.Catalog.Tags.List(ctx, optionQuery("tagName"))
	if err != nil {
		return opts, err
	}
	for _, t := range tags.Items {
		opts.Tags = append(opts.Tags, forms.Option{Value: t.ID, Label: t.TagName})
	}

	cast, err := f.Catalog.Cast.List(ctx, optionQuery("castName"))
	if err != nil {
		return opts, err
	}
	for _, c := range cast.Items {
		opts.Cast = append(opts.Cast, forms.Option{Value: c.ID, Label: c.CastName})
	}

	return opts, nil
}
