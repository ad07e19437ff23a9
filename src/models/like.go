package models

import "time"

// Like joins a user to an image. The store keeps at most one row per
// (user, image) pair via a unique index.
type Like struct {
	UserID    string    `json:"user_id"`
	ImageID   string    `json:"image_id"`
	CreatedAt time.Time `json:"created_at"`
}
