package models

import "time"

type Genre struct {
	ID          string    `json:"id"`
	GenreName   string    `json:"genreName" example:"Action"`
	GenreCode   string    `json:"genreCode" example:"ACT"`
	IsActive    bool      `json:"isActive"`
	MoviesCount int       `json:"moviesCount"`
	SeriesCount int       `json:"seriesCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (g Genre) EntityID() string { return g.ID }

func (g Genre) Active() bool { return g.IsActive }

// Tag shares the genre shape under its own namespace.
type Tag struct {
	ID          string    `json:"id"`
	TagName     string    `json:"tagName" example:"Award Winner"`
	TagCode     string    `json:"tagCode" example:"AWARD"`
	IsActive    bool      `json:"isActive"`
	MoviesCount int       `json:"moviesCount"`
	SeriesCount int       `json:"seriesCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (t Tag) EntityID() string { return t.ID }

func (t Tag) Active() bool { return t.IsActive }
