package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	m "davidgram_services/src/models"
	"davidgram_services/src/store"
)

func WriteErrorToWriter(w http.ResponseWriter, errorString string) {
	responseBytes, err := json.MarshalIndent(errorString, "", "\t")
	if err != nil {
		http.Error(w, "Error encoding JSON", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(responseBytes)
}

func WriteJSONToWriter(w http.ResponseWriter, payload interface{}) {
	responseBytes, err := json.MarshalIndent(payload, "", "\t")
	if err != nil {
		http.Error(w, "Error encoding JSON", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(responseBytes)
}

// RequestingUser resolves the validated token's subject to the local user
// id. Every protected route goes through here; the core only ever sees the
// resolved principal.
func RequestingUser(ctx context.Context, w http.ResponseWriter, r *http.Request, pg *store.PGStore) (string, bool) {
	claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok {
		log.Printf("Failed to get validated claims")
		w.WriteHeader(http.StatusUnauthorized)
		WriteErrorToWriter(w, "Error: Failed to get validated claims")
		return "", false
	}

	uid, err := pg.UserIDFromSubject(ctx, claims.RegisteredClaims.Subject)
	if err != nil {
		if errors.Is(err, m.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			WriteErrorToWriter(w, "Error: User does not exist")
			return "", false
		}
		log.Printf("Unable to lookup requesting user: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		WriteErrorToWriter(w, "Error: Unable to lookup requesting user")
		return "", false
	}

	return uid, true
}

// WriteCoreError maps the core error taxonomy onto the response status:
// merged absent-or-forbidden to 404, field validation to 400, anything else
// to 500 for the caller to retry.
func WriteCoreError(w http.ResponseWriter, err error, operation string) {
	var validationErr *m.ValidationError

	switch {
	case errors.Is(err, m.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		WriteErrorToWriter(w, "Error: Not found")
	case errors.As(err, &validationErr):
		w.WriteHeader(http.StatusBadRequest)
		WriteJSONToWriter(w, validationErr)
	default:
		log.Printf("%v failed: %v", operation, err)
		w.WriteHeader(http.StatusInternalServerError)
		WriteErrorToWriter(w, "Error: "+operation+" failed")
	}
}
