package feed_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"davidgram_services/src/feed"
	m "davidgram_services/src/models"
)

type fakeFeedStore struct {
	following map[string][]string
	images    map[string][]m.Image
}

func (f *fakeFeedStore) Following(ctx context.Context, userID string) ([]string, error) {
	return f.following[userID], nil
}

func (f *fakeFeedStore) ImagesByCreator(ctx context.Context, creatorID string, viewerID string, limit int) ([]m.Image, error) {
	images := append([]m.Image(nil), f.images[creatorID]...)

	sort.Slice(images, func(i, j int) bool {
		if !images[i].CreatedAt.Equal(images[j].CreatedAt) {
			return images[i].CreatedAt.After(images[j].CreatedAt)
		}
		return images[i].ID > images[j].ID
	})

	if limit > 0 && len(images) > limit {
		images = images[:limit]
	}

	return images, nil
}

func postedImage(id string, owner string, createdAt time.Time) m.Image {
	return m.Image{ID: id, ImageOwner: owner, File: id + ".jpg", CreatedAt: createdAt}
}

func imageIDs(images []m.Image) []string {
	ids := make([]string, 0, len(images))
	for _, image := range images {
		ids = append(ids, image.ID)
	}
	return ids
}

func TestBuildFeedOrdersNewestFirst(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeFeedStore{
		following: map[string][]string{"alice": {"bob"}},
		images: map[string][]m.Image{
			"alice": {postedImage("i1", "alice", base.Add(1 * time.Hour))},
			"bob":   {postedImage("i2", "bob", base.Add(3 * time.Hour)), postedImage("i3", "bob", base.Add(2 * time.Hour))},
		},
	}

	entries, err := feed.NewAssembler(store, 0).BuildFeed(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, []string{"i2", "i3", "i1"}, imageIDs(entries))
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].CreatedAt.After(entries[i-1].CreatedAt))
	}
}

func TestBuildFeedDeduplicatesSelfFollow(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeFeedStore{
		following: map[string][]string{"alice": {"alice"}},
		images: map[string][]m.Image{
			"alice": {postedImage("i1", "alice", base), postedImage("i2", "alice", base.Add(time.Hour))},
		},
	}

	entries, err := feed.NewAssembler(store, 0).BuildFeed(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, []string{"i2", "i1"}, imageIDs(entries))
}

func TestBuildFeedCapsPerFollowedUser(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeFeedStore{
		following: map[string][]string{"alice": {"bob"}},
		images: map[string][]m.Image{
			"bob": {
				postedImage("i1", "bob", base.Add(1*time.Hour)),
				postedImage("i2", "bob", base.Add(2*time.Hour)),
				postedImage("i3", "bob", base.Add(3*time.Hour)),
			},
		},
	}

	entries, err := feed.NewAssembler(store, 0).BuildFeed(context.Background(), "alice")

	require.NoError(t, err)
	assert.Len(t, entries, feed.DefaultPerUserLimit)
	assert.Equal(t, []string{"i3", "i2"}, imageIDs(entries))
}

func TestBuildFeedOwnImagesUncapped(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ownImages := []m.Image{}
	for i := 0; i < 5; i++ {
		ownImages = append(ownImages, postedImage(string(rune('a'+i)), "alice", base.Add(time.Duration(i)*time.Hour)))
	}
	store := &fakeFeedStore{
		following: map[string][]string{},
		images:    map[string][]m.Image{"alice": ownImages},
	}

	entries, err := feed.NewAssembler(store, 0).BuildFeed(context.Background(), "alice")

	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestBuildFeedDeterministicTieBreak(t *testing.T) {
	sameInstant := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeFeedStore{
		following: map[string][]string{"alice": {"bob"}},
		images: map[string][]m.Image{
			"alice": {postedImage("i1", "alice", sameInstant)},
			"bob":   {postedImage("i2", "bob", sameInstant)},
		},
	}
	assembler := feed.NewAssembler(store, 0)

	first, err := assembler.BuildFeed(context.Background(), "alice")
	require.NoError(t, err)
	second, err := assembler.BuildFeed(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, []string{"i2", "i1"}, imageIDs(first))
	assert.Equal(t, imageIDs(first), imageIDs(second))
}

func TestBuildFeedEmpty(t *testing.T) {
	store := &fakeFeedStore{following: map[string][]string{}, images: map[string][]m.Image{}}

	entries, err := feed.NewAssembler(store, 0).BuildFeed(context.Background(), "alice")

	require.NoError(t, err)
	assert.Empty(t, entries)
}

// The worked example: alice follows bob, bob posted i1..i3 (i3 newest),
// alice posted i4 after that. The cap drops bob's oldest post.
func TestBuildFeedEndToEnd(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeFeedStore{
		following: map[string][]string{"alice": {"bob"}},
		images: map[string][]m.Image{
			"bob": {
				postedImage("i1", "bob", base.Add(1*time.Hour)),
				postedImage("i2", "bob", base.Add(2*time.Hour)),
				postedImage("i3", "bob", base.Add(3*time.Hour)),
			},
			"alice": {postedImage("i4", "alice", base.Add(4 * time.Hour))},
		},
	}

	entries, err := feed.NewAssembler(store, 0).BuildFeed(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, []string{"i4", "i3", "i2"}, imageIDs(entries))
}
