package models

import "time"

type Image struct {
	ID           string    `json:"image_id"`
	ImageOwner   string    `json:"image_owner"`
	Username     string    `json:"username"`
	File         string    `json:"file"`
	Location     string    `json:"location"`
	Caption      string    `json:"caption"`
	Tags         []string  `json:"tags"`
	Likes        uint      `json:"like_count"`
	Comments     uint      `json:"comment_count"`
	UserHasLiked bool      `json:"user_has_liked"`
	CreatedAt    time.Time `json:"created_at"`
}

type NewImage struct {
	File     string   `json:"file"`
	Location string   `json:"location"`
	Caption  string   `json:"caption"`
	Tags     []string `json:"tags"`
}

// ImageUpdate carries a partial update. Nil fields are left unchanged;
// a non-nil empty Tags slice clears the tag set.
type ImageUpdate struct {
	File     *string  `json:"file"`
	Location *string  `json:"location"`
	Caption  *string  `json:"caption"`
	Tags     []string `json:"tags"`
}
