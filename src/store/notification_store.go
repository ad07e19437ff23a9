package store

import (
	"context"

	m "davidgram_services/src/models"
)

func (s *PGStore) CreateNotification(ctx context.Context, notification *m.EngagementNotification) error {
	query := `INSERT INTO notifications (media_id, sender_id, receiver_id, type, detail)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING notification_uid, received_at, seen`

	return s.Pool.QueryRow(ctx, query, notification.ImageID, notification.NotifierID,
		notification.ReceiverID, notification.NotificationType, notification.Detail).Scan(
		&notification.NotificationID, &notification.ReceivedAt, &notification.NotificationSeen)
}

func (s *PGStore) NotificationsForUser(ctx context.Context, userID string) ([]m.EngagementNotification, error) {
	var notifications []m.EngagementNotification

	query := `SELECT notification_uid, media_id, sender_id, u.username, receiver_id,
					 type, detail, seen, received_at
			  FROM notifications n
			  JOIN users u ON n.sender_id = u.user_id
			  WHERE receiver_id = $1
			  ORDER BY received_at DESC
			  LIMIT 25`

	rows, err := s.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var noti m.EngagementNotification
		err := rows.Scan(&noti.NotificationID, &noti.ImageID, &noti.NotifierID, &noti.NotifierName,
			&noti.ReceiverID, &noti.NotificationType, &noti.Detail, &noti.NotificationSeen, &noti.ReceivedAt)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, noti)
	}

	return notifications, rows.Err()
}

func (s *PGStore) MarkNotificationSeen(ctx context.Context, notificationID string, userID string) error {
	query := `UPDATE notifications
			  SET seen = true
			  WHERE (notification_uid = $1 AND receiver_id = $2)`

	_, err := s.Pool.Exec(ctx, query, notificationID, userID)
	return err
}
