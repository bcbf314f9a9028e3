package types

import "time"

type Tour struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	DateCreated  time.Time `json:"dateCreated"`
	UserID       int64     `json:"userId"`
	UserName     string    `json:"userName"`
	PreferenceID int64     `json:"preferenceId"`
	// Places are in insertion order from generation; the order carries no
	// routing semantics.
	Places []Place `json:"places"`
}

// CreateTourRequest creates a tour for a user. Exactly one of PreferenceID
// or Preference must be set. When PlaceIDs is empty the planner generates
// the place list from the preference.
type CreateTourRequest struct {
	Title        string                   `json:"title"`
	UserID       int64                    `json:"userId"`
	PreferenceID *int64                   `json:"preferenceId,omitempty"`
	Preference   *CreatePreferenceRequest `json:"preference,omitempty"`
	PlaceIDs     []int64                  `json:"placeIds,omitempty"`
}

// UpdateTourRequest is a partial update; nil fields keep their prior values.
// A non-nil PlaceIDs replaces the whole place set.
type UpdateTourRequest struct {
	Title        *string  `json:"title,omitempty"`
	PreferenceID *int64   `json:"preferenceId,omitempty"`
	PlaceIDs     *[]int64 `json:"placeIds,omitempty"`
}
