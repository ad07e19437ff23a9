package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"davidgram_services/src/store"
)

func UserEndpointHandler(ctx context.Context, pg *store.PGStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := RequestingUser(ctx, w, r, pg)
		if !ok {
			return
		}

		switch r.Method {
		case http.MethodGet:
			GETAuthUserInformation(ctx, w, pg, uid)
		}
	})
}

func GETAuthUserInformation(ctx context.Context, w http.ResponseWriter, pg *store.PGStore, uid string) {
	user, err := pg.GetUser(ctx, uid)
	if err != nil {
		WriteCoreError(w, err, "User lookup")
		return
	}

	WriteJSONToWriter(w, user)
}

func FollowEndpointHandler(ctx context.Context, pg *store.PGStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := RequestingUser(ctx, w, r, pg)
		if !ok {
			return
		}

		followedID, err := uuid.Parse(mux.Vars(r)["user_id"])
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			WriteErrorToWriter(w, "Error: Could not parse user id from request")
			return
		}

		switch r.Method {
		case http.MethodPost:
			POSTFollowUser(ctx, w, pg, uid, followedID.String())
		case http.MethodDelete:
			DELETEFollowUser(ctx, w, pg, uid, followedID.String())
		}
	})
}

func POSTFollowUser(ctx context.Context, w http.ResponseWriter, pg *store.PGStore, uid string, followedID string) {
	// Following is unilateral; the edge lands in the follower's feed query
	// immediately. Re-following is a no-op.
	if _, err := pg.GetUser(ctx, followedID); err != nil {
		WriteCoreError(w, err, "Follow")
		return
	}

	if err := pg.CreateFollow(ctx, uid, followedID); err != nil {
		WriteCoreError(w, err, "Follow")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func DELETEFollowUser(ctx context.Context, w http.ResponseWriter, pg *store.PGStore, uid string, followedID string) {
	if err := pg.DeleteFollow(ctx, uid, followedID); err != nil {
		WriteCoreError(w, err, "Unfollow")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
