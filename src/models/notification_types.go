package models

import "time"

const (
	NotificationLike    = "like"
	NotificationComment = "comment"
)

type EngagementNotification struct {
	NotificationID   string    `json:"notification_id"`
	ImageID          string    `json:"image_id"`
	ReceiverID       string    `json:"receiver_id"` // Content owner
	NotifierID       string    `json:"notifier_id"` // Person who is engaging
	NotifierName     string    `json:"notifier_name"`
	NotificationType string    `json:"notification_type"` // like or comment
	Detail           string    `json:"detail"` // Comment text for comment notifications
	NotificationSeen bool      `json:"notification_seen"`
	ReceivedAt       time.Time `json:"received_at"`
}
