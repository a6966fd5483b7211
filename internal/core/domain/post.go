package domain

import (
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("post not found")

// Post is a piece of content authored by a user. UserID records the author at
// creation time and is the ownership key for update/delete authorization;
// CreatedAt is set once at creation and never changes.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    int64     `json:"userId"`
}
