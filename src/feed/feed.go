package feed

import (
	"context"
	"sort"

	m "davidgram_services/src/models"
)

// DefaultPerUserLimit caps how many images a single followed user can
// contribute to one feed build. The cap bounds fan-out cost against
// prolific posters; it is a load policy, not a correctness rule.
const DefaultPerUserLimit = 2

type Store interface {
	Following(ctx context.Context, userID string) ([]string, error)
	ImagesByCreator(ctx context.Context, creatorID string, viewerID string, limit int) ([]m.Image, error)
}

// Assembler builds a user's feed from their own posts and the posts of the
// users they follow.
type Assembler struct {
	Store        Store
	PerUserLimit int
}

func NewAssembler(store Store, perUserLimit int) *Assembler {
	if perUserLimit == 0 {
		perUserLimit = DefaultPerUserLimit
	}
	return &Assembler{Store: store, PerUserLimit: perUserLimit}
}

// BuildFeed returns the feed newest first. Each image appears once even
// when it is reachable both as the user's own post and through a follow
// edge. Equal timestamps are broken by image id so repeated builds over
// unchanged data agree.
func (a *Assembler) BuildFeed(ctx context.Context, userID string) ([]m.Image, error) {
	followed, err := a.Store.Following(ctx, userID)
	if err != nil {
		return nil, err
	}

	var candidates []m.Image
	for _, followedID := range followed {
		images, err := a.Store.ImagesByCreator(ctx, followedID, userID, a.PerUserLimit)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, images...)
	}

	ownImages, err := a.Store.ImagesByCreator(ctx, userID, userID, 0)
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, ownImages...)

	seen := make(map[string]bool, len(candidates))
	entries := candidates[:0]
	for _, image := range candidates {
		if seen[image.ID] {
			continue
		}
		seen[image.ID] = true
		entries = append(entries, image)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})

	return entries, nil
}
