package models

// Entity is any backend record that can be addressed by id.
type Entity interface {
	EntityID() string
}

// Activatable is implemented by records carrying an isActive flag.
type Activatable interface {
	Active() bool
}

// Page is the list envelope returned by every admin collection endpoint.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}
