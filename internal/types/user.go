package types

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type Review struct {
	ID        int64     `json:"id"`
	PlaceID   int64     `json:"placeId"`
	UserID    int64     `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

type CreateReviewRequest struct {
	UserID  int64  `json:"userId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
