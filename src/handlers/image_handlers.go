package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"davidgram_services/src/interactions"
	m "davidgram_services/src/models"
	"davidgram_services/src/search"
	"davidgram_services/src/store"
)

func ImagesEndpointHandler(ctx context.Context, pg *store.PGStore, index *search.OpenSearchIndex) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := RequestingUser(ctx, w, r, pg)
		if !ok {
			return
		}

		switch r.Method {
		case http.MethodPost:
			POSTNewImage(ctx, w, r, pg, index, uid)
		}
	})
}

func ImageDetailEndpointHandler(ctx context.Context, pg *store.PGStore, guard *interactions.Guard, index *search.OpenSearchIndex) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := RequestingUser(ctx, w, r, pg)
		if !ok {
			return
		}

		imageID, ok := parseImageID(w, r)
		if !ok {
			return
		}

		switch r.Method {
		case http.MethodGet:
			GETImageFromID(ctx, w, pg, imageID, uid)
		case http.MethodPut:
			PUTImageDetail(ctx, w, r, guard, index, imageID, uid)
		case http.MethodDelete:
			DELETEImageData(ctx, w, guard, index, imageID, uid)
		}
	})
}

func ImageLikesEndpointHandler(ctx context.Context, pg *store.PGStore, guard *interactions.Guard) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := RequestingUser(ctx, w, r, pg)
		if !ok {
			return
		}

		imageID, ok := parseImageID(w, r)
		if !ok {
			return
		}

		switch r.Method {
		case http.MethodGet:
			GETImageLikes(ctx, w, pg, imageID)
		case http.MethodPost:
			POSTImageLike(ctx, w, guard, imageID, uid)
		case http.MethodDelete:
			DELETEImageLike(ctx, w, guard, imageID, uid)
		}
	})
}

func ImageCommentsEndpointHandler(ctx context.Context, pg *store.PGStore, guard *interactions.Guard) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := RequestingUser(ctx, w, r, pg)
		if !ok {
			return
		}

		imageID, ok := parseImageID(w, r)
		if !ok {
			return
		}

		switch r.Method {
		case http.MethodGet:
			GETImageComments(ctx, w, pg, imageID)
		case http.MethodPost:
			POSTNewComment(ctx, w, r, guard, imageID, uid)
		}
	})
}

func ModerateCommentEndpointHandler(ctx context.Context, pg *store.PGStore, guard *interactions.Guard) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := RequestingUser(ctx, w, r, pg)
		if !ok {
			return
		}

		imageID, ok := parseImageID(w, r)
		if !ok {
			return
		}

		commentID, err := uuid.Parse(mux.Vars(r)["comment_id"])
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			WriteErrorToWriter(w, "Error: Could not parse comment id from request")
			return
		}

		switch r.Method {
		case http.MethodDelete:
			DELETEModeratedComment(ctx, w, guard, imageID, commentID.String(), uid)
		}
	})
}

func CommentEndpointHandler(ctx context.Context, pg *store.PGStore, guard *interactions.Guard) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := RequestingUser(ctx, w, r, pg)
		if !ok {
			return
		}

		commentID, err := uuid.Parse(mux.Vars(r)["comment_id"])
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			WriteErrorToWriter(w, "Error: Could not parse comment id from request")
			return
		}

		switch r.Method {
		case http.MethodDelete:
			DELETEImageComment(ctx, w, guard, commentID.String(), uid)
		}
	})
}

func parseImageID(w http.ResponseWriter, r *http.Request) (string, bool) {
	imageID, err := uuid.Parse(mux.Vars(r)["image_id"])
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		WriteErrorToWriter(w, "Error: Could not parse image id from request")
		return "", false
	}
	return imageID.String(), true
}

func POSTNewImage(ctx context.Context, w http.ResponseWriter, r *http.Request, pg *store.PGStore, index *search.OpenSearchIndex, uid string) {
	var newImage m.NewImage

	err := json.NewDecoder(r.Body).Decode(&newImage)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		WriteErrorToWriter(w, "Error: Invalid request body - could not be mapped to object")
		log.Print(err)
		return
	}

	if newImage.File == "" {
		w.WriteHeader(http.StatusBadRequest)
		WriteJSONToWriter(w, &m.ValidationError{Field: "file", Reason: "may not be empty"})
		return
	}

	image := m.Image{
		ImageOwner: uid,
		File:       newImage.File,
		Location:   newImage.Location,
		Caption:    newImage.Caption,
		Tags:       interactions.NormalizeTags(newImage.Tags),
	}

	if err := pg.CreateImage(ctx, &image); err != nil {
		WriteErrorToWriter(w, "Unable to create image in database")
		log.Printf("Unable to create image in database: %v", err)
		return
	}

	if index != nil {
		if err := index.IndexImage(ctx, image); err != nil {
			log.Printf("Unable to index image %v: %v", image.ID, err)
		}
	}

	WriteJSONToWriter(w, image)
}

func GETImageFromID(ctx context.Context, w http.ResponseWriter, pg *store.PGStore, imageID string, uid string) {
	image, err := pg.GetImage(ctx, imageID, uid)
	if err != nil {
		WriteCoreError(w, err, "Image lookup")
		return
	}

	WriteJSONToWriter(w, image)
}

func PUTImageDetail(ctx context.Context, w http.ResponseWriter, r *http.Request, guard *interactions.Guard, index *search.OpenSearchIndex, imageID string, uid string) {
	var update m.ImageUpdate

	err := json.NewDecoder(r.Body).Decode(&update)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		WriteErrorToWriter(w, "Error: Invalid request body - could not be mapped to object")
		log.Print(err)
		return
	}

	image, err := guard.UpdateImage(ctx, uid, imageID, update)
	if err != nil {
		WriteCoreError(w, err, "Image update")
		return
	}

	if index != nil {
		if err := index.IndexImage(ctx, *image); err != nil {
			log.Printf("Unable to reindex image %v: %v", image.ID, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func DELETEImageData(ctx context.Context, w http.ResponseWriter, guard *interactions.Guard, index *search.OpenSearchIndex, imageID string, uid string) {
	if err := guard.DeleteImage(ctx, uid, imageID); err != nil {
		WriteCoreError(w, err, "Image delete")
		return
	}

	if index != nil {
		if err := index.RemoveImage(ctx, imageID); err != nil {
			log.Printf("Unable to remove image %v from the search index: %v", imageID, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func GETImageLikes(ctx context.Context, w http.ResponseWriter, pg *store.PGStore, imageID string) {
	users, err := pg.LikersOfImage(ctx, imageID)
	if err != nil {
		WriteCoreError(w, err, "Like listing")
		return
	}

	WriteJSONToWriter(w, users)
}

func POSTImageLike(ctx context.Context, w http.ResponseWriter, guard *interactions.Guard, imageID string, uid string) {
	outcome, err := guard.Like(ctx, uid, imageID)
	if err != nil {
		WriteCoreError(w, err, "Like")
		return
	}

	// A repeated like changes nothing; the 304 tells the client so without
	// treating it as an error.
	if outcome == interactions.AlreadyLiked {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func DELETEImageLike(ctx context.Context, w http.ResponseWriter, guard *interactions.Guard, imageID string, uid string) {
	outcome, err := guard.Unlike(ctx, uid, imageID)
	if err != nil {
		WriteCoreError(w, err, "Unlike")
		return
	}

	if outcome == interactions.NotLiked {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func GETImageComments(ctx context.Context, w http.ResponseWriter, pg *store.PGStore, imageID string) {
	comments, err := pg.CommentsByImage(ctx, imageID)
	if err != nil {
		WriteCoreError(w, err, "Comment listing")
		return
	}

	WriteJSONToWriter(w, comments)
}

func POSTNewComment(ctx context.Context, w http.ResponseWriter, r *http.Request, guard *interactions.Guard, imageID string, uid string) {
	var newComment m.NewComment

	err := json.NewDecoder(r.Body).Decode(&newComment)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		WriteErrorToWriter(w, "Error: Bad Comment")
		log.Printf("Unable to decode new comment: %v", err)
		return
	}

	comment, err := guard.Comment(ctx, uid, imageID, newComment.Message)
	if err != nil {
		WriteCoreError(w, err, "Comment")
		return
	}

	WriteJSONToWriter(w, comment)
}

func DELETEImageComment(ctx context.Context, w http.ResponseWriter, guard *interactions.Guard, commentID string, uid string) {
	if err := guard.DeleteComment(ctx, uid, commentID); err != nil {
		WriteCoreError(w, err, "Comment delete")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func DELETEModeratedComment(ctx context.Context, w http.ResponseWriter, guard *interactions.Guard, imageID string, commentID string, uid string) {
	if err := guard.ModerateComment(ctx, uid, imageID, commentID); err != nil {
		WriteCoreError(w, err, "Comment moderation")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
