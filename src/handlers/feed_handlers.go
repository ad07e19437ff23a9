package handlers

import (
	"context"
	"net/http"

	"davidgram_services/src/feed"
	"davidgram_services/src/store"
)

func FeedEndpointHandler(ctx context.Context, pg *store.PGStore, assembler *feed.Assembler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := RequestingUser(ctx, w, r, pg)
		if !ok {
			return
		}

		switch r.Method {
		case http.MethodGet:
			GETAppFeed(ctx, w, assembler, uid)
		}
	})
}

func GETAppFeed(ctx context.Context, w http.ResponseWriter, assembler *feed.Assembler, uid string) {
	images, err := assembler.BuildFeed(ctx, uid)
	if err != nil {
		WriteCoreError(w, err, "Feed build")
		return
	}

	WriteJSONToWriter(w, images)
}
