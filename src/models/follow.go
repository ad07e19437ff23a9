package models

import "time"

// Follow is a directed edge from one user to another. Owning an edge means
// the followed user's images appear in the follower's feed.
type Follow struct {
	FollowerID string    `json:"follower_id"`
	FollowedID string    `json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}
