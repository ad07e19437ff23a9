package search

import (
	"context"

	"davidgram_services/src/interactions"
	m "davidgram_services/src/models"
)

type Store interface {
	ImagesByTagNames(ctx context.Context, viewerID string, tagNames []string) ([]m.Image, error)
}

// Searcher filters images by hashtag membership.
type Searcher struct {
	Store Store
}

func NewSearcher(store Store) *Searcher {
	return &Searcher{Store: store}
}

// SearchByHashtags returns every image tagged with at least one of the
// requested hashtags. An image matching several of them appears exactly
// once. At least one non-empty tag is required.
func (s *Searcher) SearchByHashtags(ctx context.Context, viewerID string, tags []string) ([]m.Image, error) {
	tags = interactions.NormalizeTags(tags)
	if len(tags) == 0 {
		return nil, &m.ValidationError{Field: "hashtags", Reason: "supply at least one hashtag"}
	}

	matches, err := s.Store.ImagesByTagNames(ctx, viewerID, tags)
	if err != nil {
		return nil, err
	}

	// The store reports one row per matching tag link.
	seen := make(map[string]bool, len(matches))
	results := matches[:0]
	for _, image := range matches {
		if seen[image.ID] {
			continue
		}
		seen[image.ID] = true
		results = append(results, image)
	}

	return results, nil
}
