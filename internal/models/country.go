package models

import "time"

type Country struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" example:"United States"`
	Code        string    `json:"code" example:"US"`
	IsActive    bool      `json:"isActive"`
	MoviesCount int       `json:"moviesCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c Country) EntityID() string { return c.ID }

func (c Country) Active() bool { return c.IsActive }
