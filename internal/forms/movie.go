package forms

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/models"
)

// MovieOptions are the choices of the association multi-selects.
type MovieOptions struct {
	Countries []Option
	Genres    []Option
	Tags      []Option
	Cast      []Option
}

type OptionsLoader func(ctx context.Context) (MovieOptions, error)

// Uploader moves a file to storage and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, part apiclient.FilePart) (string, error)
}

type movieValues struct {
	Title      string `form:"title" label:"Title" validate:"required,max=200"`
	Synopsis   string `form:"synopsis" label:"Synopsis" validate:"max=2000"`
	Year       string `form:"year" label:"Year" validate:"omitempty,number,len=4"`
	Runtime    string `form:"runtime" label:"Runtime" validate:"omitempty,number,max=4"`
	AgeRating  string `form:"ageRating" label:"Age rating" validate:"max=10"`
	Director   string `form:"director" label:"Director" validate:"max=100"`
	Rating     string `form:"rating" label:"Rating" validate:"omitempty,numeric"`
	Status     string `form:"status" label:"Status" validate:"required,oneof=draft published archived"`
	TrailerURL string `form:"trailerUrl" label:"Trailer URL" validate:"omitempty,url"`
}

type MovieDraft struct {
	Title      string
	Synopsis   string
	Year       string
	Runtime    string
	AgeRating  string
	Director   string
	Rating     string
	Status     models.MovieStatus
	TrailerURL string

	CountryIDs []string
	GenreIDs   []string
	TagIDs     []string
	CastIDs    []string

	Poster Attachment
	Logo   Attachment
	Video  Attachment

	// ExistingVideoURL is the server-known video of the record being edited.
	ExistingVideoURL string

	options MovieOptions
	loader  OptionsLoader
	stager  Uploader
}

type MovieDraftOption func(*MovieDraft)

// WithOptionsLoader loads the country, genre, tag and cast choices on Prepare.
func WithOptionsLoader(l OptionsLoader) MovieDraftOption {
	return func(d *MovieDraft) { d.loader = l }
}

// WithVideoStaging uploads a selected video before submission and sends its
// URL instead of the binary part.
func WithVideoStaging(u Uploader) MovieDraftOption {
	return func(d *MovieDraft) { d.stager = u }
}

// NewMovieDraft creates a draft from m, or a blank one with status draft when m is nil.
func NewMovieDraft(m *models.Movie, opts ...MovieDraftOption) *MovieDraft {
	d := &MovieDraft{
		Status: models.MovieStatusDraft,
		Poster: Attachment{FileField: "poster", URLField: "posterUrl", Label: "Poster", Category: CategoryImage},
		Logo:   Attachment{FileField: "logo", URLField: "logoUrl", Label: "Logo", Category: CategoryImage},
		Video:  Attachment{FileField: "videoFile", URLField: "videoUrl", Label: "Video", Category: CategoryVideo},
	}
	if m != nil {
		d.Title = m.Title
		d.Synopsis = m.Synopsis
		d.Year = itoa(m.Year)
		d.Runtime = itoa(m.Runtime)
		d.AgeRating = m.AgeRating
		d.Director = m.Director
		if m.Rating != 0 {
			d.Rating = strconv.FormatFloat(m.Rating, 'f', -1, 64)
		}
		if m.Status.Valid() {
			d.Status = m.Status
		}
		d.TrailerURL = m.TrailerURL
		d.CountryIDs = m.CountryIDs()
		d.GenreIDs = m.GenreIDs()
		d.TagIDs = m.TagIDs()
		d.CastIDs = m.CastIDs()
		d.Poster.URL = m.PosterURL
		d.Logo.URL = m.LogoURL
		d.Video.URL = m.VideoURL
		d.ExistingVideoURL = m.VideoURL
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// Prepare loads the association options.
func (d *MovieDraft) Prepare(ctx context.Context) error {
	if d.loader == nil {
		return nil
	}
	opts, err := d.loader(ctx)
	if err != nil {
		return fmt.Errorf("failed to load movie options: %w", err)
	}
	d.options = opts
	return nil
}

func (d *MovieDraft) Options() MovieOptions {
	return d.options
}

func (d *MovieDraft) Fields() []Field {
	statuses := make([]Option, 0, len(models.MovieStatuses))
	for _, s := range models.MovieStatuses {
		statuses = append(statuses, Option{Value: string(s), Label: string(s), Selected: s == d.Status})
	}

	trailer := Field{Name: "trailerUrl", Label: "Trailer URL", Kind: KindURL, Value: d.TrailerURL}
	trailer.Preview = EmbedURL(d.TrailerURL)

	return []Field{
		{Name: "title", Label: "Title", Kind: KindText, Value: d.Title, Required: true, MaxLength: 200},
		{Name: "synopsis", Label: "Synopsis", Kind: KindTextarea, Value: d.Synopsis, MaxLength: 2000},
		{Name: "year", Label: "Year", Kind: KindNumber, Value: d.Year},
		{Name: "runtime", Label: "Runtime (min)", Kind: KindNumber, Value: d.Runtime},
		{Name: "ageRating", Label: "Age rating", Kind: KindText, Value: d.AgeRating, MaxLength: 10},
		{Name: "director", Label: "Director", Kind: KindText, Value: d.Director, MaxLength: 100},
		{Name: "rating", Label: "Rating", Kind: KindNumber, Value: d.Rating},
		{Name: "status", Label: "Status", Kind: KindSelect, Options: statuses, Required: true},
		{Name: "countryIds", Label: "Countries", Kind: KindMultiSelect, Options: selected(d.options.Countries, d.CountryIDs)},
		{Name: "genreIds", Label: "Genres", Kind: KindMultiSelect, Options: selected(d.options.Genres, d.GenreIDs)},
		{Name: "tagIds", Label: "Tags", Kind: KindMultiSelect, Options: selected(d.options.Tags, d.TagIDs)},
		{Name: "castIds", Label: "Cast", Kind: KindMultiSelect, Options: selected(d.options.Cast, d.CastIDs)},
		d.Poster.field(),
		d.Logo.field(),
		withRequired(d.Video.field()),
		trailer,
	}
}

func withRequired(f Field) Field {
	f.Required = true
	return f
}

func selected(opts []Option, ids []string) []Option {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	out := make([]Option, len(opts))
	for i, o := range opts {
		_, o.Selected = set[o.Value]
		out[i] = o
	}
	return out
}

func (d *MovieDraft) Bind(in Input) {
	text := map[string]*string{
		"title":      &d.Title,
		"synopsis":   &d.Synopsis,
		"year":       &d.Year,
		"runtime":    &d.Runtime,
		"ageRating":  &d.AgeRating,
		"director":   &d.Director,
		"rating":     &d.Rating,
		"trailerUrl": &d.TrailerURL,
	}
	for name, dst := range text {
		if in.Has(name) {
			*dst = in.Get(name)
		}
	}
	if in.Has("status") {
		d.Status = models.MovieStatus(in.Get("status"))
	}

	// Multi-selects post nothing when emptied, so the marker input tells us
	// the select was on the page.
	lists := map[string]*[]string{
		"countryIds": &d.CountryIDs,
		"genreIds":   &d.GenreIDs,
		"tagIds":     &d.TagIDs,
		"castIds":    &d.CastIDs,
	}
	for name, dst := range lists {
		if in.Has(name) || in.Has(name+"Present") {
			*dst = in.List(name)
		}
	}

	d.Poster.bind(in)
	d.Logo.bind(in)
	d.Video.bind(in)
}

func (d *MovieDraft) values() movieValues {
	return movieValues{
		Title:      strings.TrimSpace(d.Title),
		Synopsis:   strings.TrimSpace(d.Synopsis),
		Year:       strings.TrimSpace(d.Year),
		Runtime:    strings.TrimSpace(d.Runtime),
		AgeRating:  strings.TrimSpace(d.AgeRating),
		Director:   strings.TrimSpace(d.Director),
		Rating:     strings.TrimSpace(d.Rating),
		Status:     string(d.Status),
		TrailerURL: strings.TrimSpace(d.TrailerURL),
	}
}

var positiveMessages = map[string]string{
	"year":    "Year must be a positive year",
	"runtime": "Runtime must be a positive number of minutes",
}

// Validate checks the draft; video is required unless the record already has one.
func (d *MovieDraft) Validate() FieldErrors {
	v := d.values()
	errs := validateStruct(&v, nil)

	// Sent as integers; the tags alone still accept zero.
	positive := map[string]string{"year": v.Year, "runtime": v.Runtime}
	for field, raw := range positive {
		if _, ok := errs[field]; ok || raw == "" {
			continue
		}
		if n, err := strconv.Atoi(raw); err != nil || n < 1 {
			errs = merge(errs, FieldErrors{field: positiveMessages[field]})
		}
	}

	if _, ok := errs["rating"]; !ok && v.Rating != "" {
		if r, err := strconv.ParseFloat(v.Rating, 64); err != nil || r < 0 || r > 10 {
			errs = merge(errs, FieldErrors{"rating": "Rating must be between 0 and 10"})
		}
	}

	for _, a := range []Attachment{d.Poster, d.Logo, d.Video} {
		if msg := a.validate(); msg != "" {
			errs = merge(errs, FieldErrors{a.FileField: msg})
		}
	}

	if d.Video.Empty() && d.ExistingVideoURL == "" {
		errs = merge(errs, FieldErrors{d.Video.FileField: "Video is required"})
	}
	return errs
}

// Stage uploads the selected video when staging is configured.
func (d *MovieDraft) Stage(ctx context.Context) error {
	if d.stager == nil || d.Video.File == nil {
		return nil
	}
	u, err := d.stager.Upload(ctx, *d.Video.File)
	if err != nil {
		return fmt.Errorf("failed to stage video: %w", err)
	}
	d.Video.SetURL(u)
	return nil
}

// Payload packages the full record for create or PUT.
func (d *MovieDraft) Payload() apiclient.Payload {
	v := d.values()
	fields := map[string]any{
		"title":      v.Title,
		"status":     v.Status,
		"countryIds": nonNil(d.CountryIDs),
		"genreIds":   nonNil(d.GenreIDs),
		"tagIds":     nonNil(d.TagIDs),
		"castIds":    nonNil(d.CastIDs),
	}
	optional := map[string]string{
		"synopsis":   v.Synopsis,
		"ageRating":  v.AgeRating,
		"director":   v.Director,
		"trailerUrl": v.TrailerURL,
	}
	for k, s := range optional {
		if s != "" {
			fields[k] = s
		}
	}
	if n, err := strconv.Atoi(v.Year); err == nil {
		fields["year"] = n
	}
	if n, err := strconv.Atoi(v.Runtime); err == nil {
		fields["runtime"] = n
	}
	if r, err := strconv.ParseFloat(v.Rating, 64); err == nil {
		fields["rating"] = r
	}

	var files []apiclient.FilePart
	files = append(files, d.Poster.apply(fields)...)
	files = append(files, d.Logo.apply(fields)...)
	files = append(files, d.Video.apply(fields)...)

	// Updates replace the whole record, so keep the known video when the
	// slot was cleared.
	if _, ok := fields["videoUrl"]; !ok && d.Video.File == nil && d.ExistingVideoURL != "" {
		fields["videoUrl"] = d.ExistingVideoURL
	}

	return apiclient.Payload{Fields: fields, Files: files}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
