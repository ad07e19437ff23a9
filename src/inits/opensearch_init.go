package inits

import (
	"context"
	"log"

	"github.com/opensearch-project/opensearch-go"

	"davidgram_services/src/search"
	"davidgram_services/src/store"
)

func CreateOpenSearchClient(address string) (*opensearch.Client, error) {
	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{address},
	})
	if err != nil {
		log.Print(err)
		return nil, err
	}

	return client, nil
}

// InitOpenSearch creates the search index and seeds it from the database.
// Text search is a convenience surface, so a failure here is logged and the
// server comes up without it.
func InitOpenSearch(ctx context.Context, pg *store.PGStore, client *opensearch.Client) *search.OpenSearchIndex {
	index := search.NewOpenSearchIndex(client)

	if err := index.EnsureIndex(ctx); err != nil {
		log.Printf("Unable to create the search index: %v", err)
		return nil
	}

	if err := index.SeedFromStore(ctx, pg); err != nil {
		log.Printf("Unable to seed the search index: %v", err)
	}

	return index
}
