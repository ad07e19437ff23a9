package handlers

import (
	"context"
	"net/http"
	"strings"

	"davidgram_services/src/search"
	"davidgram_services/src/store"
)

func HashtagSearchEndpointHandler(ctx context.Context, pg *store.PGStore, searcher *search.Searcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := RequestingUser(ctx, w, r, pg)
		if !ok {
			return
		}

		switch r.Method {
		case http.MethodGet:
			GETSearchByHashtags(ctx, w, r, searcher, uid)
		}
	})
}

func GETSearchByHashtags(ctx context.Context, w http.ResponseWriter, r *http.Request, searcher *search.Searcher, uid string) {
	var hashtags []string
	if raw := r.URL.Query().Get("hashtags"); raw != "" {
		hashtags = strings.Split(raw, ",")
	}

	images, err := searcher.SearchByHashtags(ctx, uid, hashtags)
	if err != nil {
		WriteCoreError(w, err, "Hashtag search")
		return
	}

	WriteJSONToWriter(w, images)
}

func TextSearchEndpointHandler(ctx context.Context, pg *store.PGStore, index *search.OpenSearchIndex) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := RequestingUser(ctx, w, r, pg); !ok {
			return
		}

		switch r.Method {
		case http.MethodGet:
			searchVal := r.URL.Query().Get("lookup")
			GETTextLookup(ctx, w, index, searchVal)
		}
	})
}

func GETTextLookup(ctx context.Context, w http.ResponseWriter, index *search.OpenSearchIndex, searchVal string) {
	if index == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		WriteErrorToWriter(w, "Error: Text search is not available")
		return
	}

	results, err := index.TextLookup(ctx, searchVal)
	if err != nil {
		WriteCoreError(w, err, "Text lookup")
		return
	}

	WriteJSONToWriter(w, results)
}
