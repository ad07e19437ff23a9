package handlers

import (
	"context"
	"log"
	"net/http"

	"davidgram_services/src/store"
)

func NotificationsEndpointHandler(ctx context.Context, pg *store.PGStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := RequestingUser(ctx, w, r, pg)
		if !ok {
			return
		}

		switch r.Method {
		case http.MethodGet:
			GETExistingNotifications(ctx, w, pg, uid)
		case http.MethodPatch:
			PATCHMarkNotificationSeen(ctx, w, r, pg, uid)
		}
	})
}

func GETExistingNotifications(ctx context.Context, w http.ResponseWriter, pg *store.PGStore, uid string) {
	notifications, err := pg.NotificationsForUser(ctx, uid)
	if err != nil {
		WriteCoreError(w, err, "Notification listing")
		return
	}

	WriteJSONToWriter(w, notifications)
}

func PATCHMarkNotificationSeen(ctx context.Context, w http.ResponseWriter, r *http.Request, pg *store.PGStore, uid string) {
	notificationID := r.URL.Query().Get("id")

	err := pg.MarkNotificationSeen(ctx, notificationID, uid)
	if err != nil {
		log.Printf("Error trying to mark notification as seen: %v", err)
		WriteCoreError(w, err, "Notification update")
		return
	}

	WriteJSONToWriter(w, "notification successfully seen")
}
