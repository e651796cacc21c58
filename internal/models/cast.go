package models

import "time"

type CastMember struct {
	ID              string    `json:"id" example:"5f1c1d1e-8b8a-4c44-9a51-2d0c2b7b0c11"`
	CastName        string    `json:"castName" example:"Tom Hanks"`
	CastImage       string    `json:"castImage,omitempty"`
	CastDescription string    `json:"castDescription,omitempty" example:"Actor"`
	IsActive        bool      `json:"isActive"`
	MoviesCount     int       `json:"moviesCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (c CastMember) EntityID() string { return c.ID }

func (c CastMember) Active() bool { return c.IsActive }
