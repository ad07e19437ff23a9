package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	m "davidgram_services/src/models"

	"github.com/opensearch-project/opensearch-go"
	"github.com/opensearch-project/opensearch-go/opensearchapi"
)

const searchIndex = "image-search"

type DocumentSource interface {
	SearchDocuments(ctx context.Context) ([]m.Search, error)
}

// OpenSearchIndex mirrors users and image captions into OpenSearch for the
// free-text lookup route. Hashtag search runs on the relational store; this
// index only serves text matching.
type OpenSearchIndex struct {
	Client *opensearch.Client
}

func NewOpenSearchIndex(client *opensearch.Client) *OpenSearchIndex {
	return &OpenSearchIndex{Client: client}
}

func (osi *OpenSearchIndex) EnsureIndex(ctx context.Context) error {
	settings := strings.NewReader(`{"settings": {"index": {"number_of_shards": 1, "number_of_replicas": 1}}}`)

	req := opensearchapi.IndicesCreateRequest{Index: searchIndex, Body: settings}
	res, err := req.Do(ctx, osi.Client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// 400 means the index already exists; any other error status is real.
	if res.IsError() && res.StatusCode != 400 {
		return fmt.Errorf("creating index %v: %v", searchIndex, res.Status())
	}

	return nil
}

// SeedFromStore reloads every searchable document from the database, e.g.
// after a fresh deployment.
func (osi *OpenSearchIndex) SeedFromStore(ctx context.Context, source DocumentSource) error {
	documents, err := source.SearchDocuments(ctx)
	if err != nil {
		return err
	}

	for _, document := range documents {
		if err := osi.indexDocument(ctx, document); err != nil {
			return err
		}
	}

	return nil
}

// IndexImage upserts the image's search document. Indexing is best effort:
// callers log the error and move on, the image itself is already stored.
func (osi *OpenSearchIndex) IndexImage(ctx context.Context, image m.Image) error {
	return osi.indexDocument(ctx, m.Search{
		ID:         image.ID,
		Username:   image.Username,
		Caption:    image.Caption,
		Tags:       image.Tags,
		ResultType: "image",
	})
}

func (osi *OpenSearchIndex) RemoveImage(ctx context.Context, imageID string) error {
	req := opensearchapi.DeleteRequest{Index: searchIndex, DocumentID: imageID}
	res, err := req.Do(ctx, osi.Client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	return nil
}

func (osi *OpenSearchIndex) indexDocument(ctx context.Context, document m.Search) error {
	data, err := json.Marshal(document)
	if err != nil {
		return err
	}

	req := opensearchapi.IndexRequest{
		Index:      searchIndex,
		DocumentID: document.ID,
		Body:       strings.NewReader(string(data)),
	}
	res, err := req.Do(ctx, osi.Client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing document %v: %v", document.ID, res.Status())
	}

	return nil
}

// TextLookup matches the lookup string against usernames, captions and tag
// names, prefix-style so results appear while the user is still typing.
func (osi *OpenSearchIndex) TextLookup(ctx context.Context, lookup string) ([]m.Search, error) {
	query := map[string]interface{}{
		"size": 20,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  lookup,
				"type":   "phrase_prefix",
				"fields": []string{"username^2", "caption", "tags"},
			},
		},
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	req := opensearchapi.SearchRequest{
		Index: []string{searchIndex},
		Body:  strings.NewReader(string(body)),
	}
	res, err := req.Do(ctx, osi.Client)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search lookup failed: %v", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source m.Search `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	results := make([]m.Search, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		results = append(results, hit.Source)
	}

	log.Printf("Text lookup %q returned %v results", lookup, len(results))

	return results, nil
}
