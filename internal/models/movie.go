package models

import (
	"time"
)

type MovieStatus string

const (
	MovieStatusDraft     MovieStatus = "draft"
	MovieStatusPublished MovieStatus = "published"
	MovieStatusArchived  MovieStatus = "archived"
)

// MovieStatuses lists the statuses in display order.
var MovieStatuses = []MovieStatus{MovieStatusDraft, MovieStatusPublished, MovieStatusArchived}

func (s MovieStatus) Valid() bool {
	switch s {
	case MovieStatusDraft, MovieStatusPublished, MovieStatusArchived:
		return true
	}
	return false
}

type Movie struct {
	ID         string      `json:"id"`
	Title      string      `json:"title" example:"Cast Away"`
	Synopsis   string      `json:"synopsis,omitempty"`
	Year       int         `json:"year,omitempty" example:"2000"`
	Runtime    int         `json:"runtime,omitempty" example:"143"`
	AgeRating  string      `json:"ageRating,omitempty" example:"PG-13"`
	Director   string      `json:"director,omitempty" example:"Robert Zemeckis"`
	Rating     float64     `json:"rating,omitempty" example:"7.8"`
	Status     MovieStatus `json:"status" example:"published"`
	PosterURL  string      `json:"posterUrl,omitempty"`
	LogoURL    string      `json:"logoUrl,omitempty"`
	VideoURL   string      `json:"videoUrl,omitempty"`
	TrailerURL string      `json:"trailerUrl,omitempty"`

	MovieCountries []MovieCountry `json:"movieCountries,omitempty"`
	MovieGenres    []MovieGenre   `json:"movieGenres,omitempty"`
	MovieTags      []MovieTag     `json:"movieTags,omitempty"`
	MovieCasts     []MovieCast    `json:"movieCasts,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m Movie) EntityID() string { return m.ID }

type MovieCountry struct {
	CountryID string   `json:"countryId"`
	Country   *Country `json:"country,omitempty"`
}

type MovieGenre struct {
	GenreID string `json:"genreId"`
	Genre   *Genre `json:"genre,omitempty"`
}

type MovieTag struct {
	TagID string `json:"tagId"`
	Tag   *Tag   `json:"tag,omitempty"`
}

type MovieCast struct {
	CastID string      `json:"castId"`
	Cast   *CastMember `json:"cast,omitempty"`
}

func (m Movie) CountryIDs() []string {
	ids := make([]string, 0, len(m.MovieCountries))
	for _, row := range m.MovieCountries {
		ids = append(ids, row.CountryID)
	}
	return ids
}

func (m Movie) GenreIDs() []string {
	ids := make([]string, 0, len(m.MovieGenres))
	for _, row := range m.MovieGenres {
		ids = append(ids, row.GenreID)
	}
	return ids
}

func (m Movie) TagIDs() []string {
	ids := make([]string, 0, len(m.MovieTags))
	for _, row := range m.MovieTags {
		ids = append(ids, row.TagID)
	}
	return ids
}

func (m Movie) CastIDs() []string {
	ids := make([]string, 0, len(m.MovieCasts))
	for _, row := range m.MovieCasts {
		ids = append(ids, row.CastID)
	}
	return ids
}

// GenreNames returns the denormalized genre names carried on the join rows.
func (m Movie) GenreNames() []string {
	names := make([]string, 0, len(m.MovieGenres))
	for _, row := range m.MovieGenres {
		if row.Genre != nil {
			names = append(names, row.Genre.GenreName)
		}
	}
	return names
}
