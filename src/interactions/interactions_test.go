package interactions_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"davidgram_services/src/interactions"
	m "davidgram_services/src/models"
)

type fakeStore struct {
	images   map[string]*m.Image
	likes    map[string]map[string]bool
	comments map[string]*m.Comment
	nextID   int

	// forceLikeConflict simulates a concurrent duplicate insert: HasLike
	// reports no like, but the insert itself hits the unique constraint.
	forceLikeConflict bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		images:   map[string]*m.Image{},
		likes:    map[string]map[string]bool{},
		comments: map[string]*m.Comment{},
	}
}

func (f *fakeStore) addImage(id string, owner string) *m.Image {
	image := &m.Image{
		ID:         id,
		ImageOwner: owner,
		File:       id + ".jpg",
		Caption:    "caption for " + id,
		Location:   "somewhere",
		Tags:       []string{"original"},
		CreatedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.images[id] = image
	return image
}

func (f *fakeStore) GetImage(ctx context.Context, imageID string, viewerID string) (*m.Image, error) {
	image, ok := f.images[imageID]
	if !ok {
		return nil, m.ErrNotFound
	}
	copied := *image
	return &copied, nil
}

func (f *fakeStore) GetImageForOwner(ctx context.Context, imageID string, ownerID string) (*m.Image, error) {
	image, ok := f.images[imageID]
	if !ok || image.ImageOwner != ownerID {
		return nil, m.ErrNotFound
	}
	copied := *image
	return &copied, nil
}

func (f *fakeStore) HasLike(ctx context.Context, userID string, imageID string) (bool, error) {
	return f.likes[imageID][userID], nil
}

func (f *fakeStore) CreateLike(ctx context.Context, userID string, imageID string) error {
	if f.forceLikeConflict || f.likes[imageID][userID] {
		return m.ErrConflict
	}
	if f.likes[imageID] == nil {
		f.likes[imageID] = map[string]bool{}
	}
	f.likes[imageID][userID] = true
	return nil
}

func (f *fakeStore) DeleteLike(ctx context.Context, userID string, imageID string) (bool, error) {
	if !f.likes[imageID][userID] {
		return false, nil
	}
	delete(f.likes[imageID], userID)
	return true, nil
}

func (f *fakeStore) CreateComment(ctx context.Context, comment *m.Comment) error {
	f.nextID++
	comment.ID = fmt.Sprintf("c%d", f.nextID)
	comment.CreatedAt = time.Now()
	stored := *comment
	f.comments[comment.ID] = &stored
	return nil
}

func (f *fakeStore) DeleteCommentByCreator(ctx context.Context, commentID string, creatorID string) (bool, error) {
	comment, ok := f.comments[commentID]
	if !ok || comment.UserID != creatorID {
		return false, nil
	}
	delete(f.comments, commentID)
	return true, nil
}

func (f *fakeStore) DeleteCommentByImageOwner(ctx context.Context, commentID string, imageID string, ownerID string) (bool, error) {
	comment, ok := f.comments[commentID]
	if !ok || comment.ImageID != imageID {
		return false, nil
	}
	image, ok := f.images[imageID]
	if !ok || image.ImageOwner != ownerID {
		return false, nil
	}
	delete(f.comments, commentID)
	return true, nil
}

func (f *fakeStore) UpdateImage(ctx context.Context, image *m.Image) error {
	if _, ok := f.images[image.ID]; !ok {
		return m.ErrNotFound
	}
	stored := *image
	f.images[image.ID] = &stored
	return nil
}

func (f *fakeStore) DeleteImage(ctx context.Context, imageID string) error {
	delete(f.images, imageID)
	delete(f.likes, imageID)
	for id, comment := range f.comments {
		if comment.ImageID == imageID {
			delete(f.comments, id)
		}
	}
	return nil
}

func (f *fakeStore) likeCount(imageID string) int {
	return len(f.likes[imageID])
}

type recordingNotifier struct {
	sent []m.EngagementNotification
}

func (n *recordingNotifier) Notify(notification m.EngagementNotification) {
	n.sent = append(n.sent, notification)
}

func TestLikeIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "bob")
	guard := interactions.NewGuard(store, nil)

	outcome, err := guard.Like(context.Background(), "alice", "img1")
	require.NoError(t, err)
	assert.Equal(t, interactions.LikeCreated, outcome)

	outcome, err = guard.Like(context.Background(), "alice", "img1")
	require.NoError(t, err)
	assert.Equal(t, interactions.AlreadyLiked, outcome)

	assert.Equal(t, 1, store.likeCount("img1"))
}

func TestLikeUnknownImage(t *testing.T) {
	guard := interactions.NewGuard(newFakeStore(), nil)

	_, err := guard.Like(context.Background(), "alice", "missing")

	assert.ErrorIs(t, err, m.ErrNotFound)
}

func TestLikeConflictMapsToAlreadyLiked(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "bob")
	store.forceLikeConflict = true
	guard := interactions.NewGuard(store, nil)

	outcome, err := guard.Like(context.Background(), "alice", "img1")

	require.NoError(t, err)
	assert.Equal(t, interactions.AlreadyLiked, outcome)
}

func TestUnlikeWithoutPriorLike(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "bob")
	guard := interactions.NewGuard(store, nil)

	outcome, err := guard.Unlike(context.Background(), "alice", "img1")

	require.NoError(t, err)
	assert.Equal(t, interactions.NotLiked, outcome)
}

func TestUnlikeUnknownImage(t *testing.T) {
	guard := interactions.NewGuard(newFakeStore(), nil)

	_, err := guard.Unlike(context.Background(), "alice", "missing")

	assert.ErrorIs(t, err, m.ErrNotFound)
}

func TestLikeUnlikeRoundTrip(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "bob")
	guard := interactions.NewGuard(store, nil)

	_, err := guard.Like(context.Background(), "alice", "img1")
	require.NoError(t, err)

	outcome, err := guard.Unlike(context.Background(), "alice", "img1")
	require.NoError(t, err)
	assert.Equal(t, interactions.LikeDeleted, outcome)
	assert.Equal(t, 0, store.likeCount("img1"))

	// A fresh like lands again after the round trip.
	likeOutcome, err := guard.Like(context.Background(), "alice", "img1")
	require.NoError(t, err)
	assert.Equal(t, interactions.LikeCreated, likeOutcome)
}

func TestLikeNotifiesImageOwner(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "bob")
	notifier := &recordingNotifier{}
	guard := interactions.NewGuard(store, notifier)

	_, err := guard.Like(context.Background(), "alice", "img1")
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "bob", notifier.sent[0].ReceiverID)
	assert.Equal(t, "alice", notifier.sent[0].NotifierID)
	assert.Equal(t, m.NotificationLike, notifier.sent[0].NotificationType)
}

func TestSelfLikeSkipsNotification(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "alice")
	notifier := &recordingNotifier{}
	guard := interactions.NewGuard(store, notifier)

	outcome, err := guard.Like(context.Background(), "alice", "img1")

	require.NoError(t, err)
	assert.Equal(t, interactions.LikeCreated, outcome)
	assert.Empty(t, notifier.sent)
}

func TestRepeatLikeDoesNotRenotify(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "bob")
	notifier := &recordingNotifier{}
	guard := interactions.NewGuard(store, notifier)

	_, err := guard.Like(context.Background(), "alice", "img1")
	require.NoError(t, err)
	_, err = guard.Like(context.Background(), "alice", "img1")
	require.NoError(t, err)

	assert.Len(t, notifier.sent, 1)
}

func TestCommentCreatesAndNotifies(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "bob")
	notifier := &recordingNotifier{}
	guard := interactions.NewGuard(store, notifier)

	comment, err := guard.Comment(context.Background(), "alice", "img1", "  great shot  ")

	require.NoError(t, err)
	assert.Equal(t, "great shot", comment.Message)
	assert.NotEmpty(t, comment.ID)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, m.NotificationComment, notifier.sent[0].NotificationType)
	assert.Equal(t, "great shot", notifier.sent[0].Detail)
}

func TestCommentEmptyMessage(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "bob")
	guard := interactions.NewGuard(store, nil)

	for _, message := range []string{"", "   ", "\n\t"} {
		_, err := guard.Comment(context.Background(), "alice", "img1", message)

		var validation *m.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "message", validation.Field)
	}
	assert.Empty(t, store.comments)
}

func TestCommentTooLong(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "bob")
	guard := interactions.NewGuard(store, nil)

	_, err := guard.Comment(context.Background(), "alice", "img1", strings.Repeat("x", 501))

	var validation *m.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "message", validation.Field)
}

func TestCommentUnknownImage(t *testing.T) {
	guard := interactions.NewGuard(newFakeStore(), nil)

	_, err := guard.Comment(context.Background(), "alice", "missing", "hello")

	assert.ErrorIs(t, err, m.ErrNotFound)
}

func TestDeleteOwnComment(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "bob")
	guard := interactions.NewGuard(store, nil)

	comment, err := guard.Comment(context.Background(), "alice", "img1", "hello")
	require.NoError(t, err)

	require.NoError(t, guard.DeleteComment(context.Background(), "alice", comment.ID))
	assert.Empty(t, store.comments)
}

func TestDeleteSomeoneElsesComment(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "bob")
	guard := interactions.NewGuard(store, nil)

	comment, err := guard.Comment(context.Background(), "alice", "img1", "hello")
	require.NoError(t, err)

	err = guard.DeleteComment(context.Background(), "mallory", comment.ID)

	assert.ErrorIs(t, err, m.ErrNotFound)
	assert.Len(t, store.comments, 1)
}

func TestModerateCommentAsImageOwner(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "bob")
	guard := interactions.NewGuard(store, nil)

	comment, err := guard.Comment(context.Background(), "alice", "img1", "hello")
	require.NoError(t, err)

	require.NoError(t, guard.ModerateComment(context.Background(), "bob", "img1", comment.ID))
	assert.Empty(t, store.comments)
}

func TestModerateCommentAsNonOwner(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "bob")
	guard := interactions.NewGuard(store, nil)

	comment, err := guard.Comment(context.Background(), "alice", "img1", "hello")
	require.NoError(t, err)

	err = guard.ModerateComment(context.Background(), "mallory", "img1", comment.ID)

	assert.ErrorIs(t, err, m.ErrNotFound)
	assert.Len(t, store.comments, 1)
}

func TestModerateCommentWrongImage(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "bob")
	store.addImage("img2", "bob")
	guard := interactions.NewGuard(store, nil)

	comment, err := guard.Comment(context.Background(), "alice", "img1", "hello")
	require.NoError(t, err)

	err = guard.ModerateComment(context.Background(), "bob", "img2", comment.ID)

	assert.ErrorIs(t, err, m.ErrNotFound)
}

func TestUpdateImagePartialFields(t *testing.T) {
	store := newFakeStore()
	original := store.addImage("img1", "alice")
	guard := interactions.NewGuard(store, nil)

	caption := "new caption"
	updated, err := guard.UpdateImage(context.Background(), "alice", "img1", m.ImageUpdate{Caption: &caption})

	require.NoError(t, err)
	assert.Equal(t, "new caption", updated.Caption)
	assert.Equal(t, original.File, updated.File)
	assert.Equal(t, original.Location, updated.Location)
	assert.Equal(t, []string{"original"}, updated.Tags)
}

func TestUpdateImageReplacesAndNormalizesTags(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "alice")
	guard := interactions.NewGuard(store, nil)

	updated, err := guard.UpdateImage(context.Background(), "alice", "img1",
		m.ImageUpdate{Tags: []string{"#Sunset", " beach ", "sunset", ""}})

	require.NoError(t, err)
	assert.Equal(t, []string{"sunset", "beach"}, updated.Tags)
}

func TestUpdateImageClearsTagsWithEmptySlice(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "alice")
	guard := interactions.NewGuard(store, nil)

	updated, err := guard.UpdateImage(context.Background(), "alice", "img1", m.ImageUpdate{Tags: []string{}})

	require.NoError(t, err)
	assert.Empty(t, updated.Tags)
}

func TestUpdateImageRejectsEmptyFile(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "alice")
	guard := interactions.NewGuard(store, nil)

	empty := " "
	_, err := guard.UpdateImage(context.Background(), "alice", "img1", m.ImageUpdate{File: &empty})

	var validation *m.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "file", validation.Field)
}

// A non-owner probing someone else's image must get the same answer as for
// an id that does not exist at all.
func TestUpdateImageOwnershipIndistinguishable(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "bob")
	guard := interactions.NewGuard(store, nil)

	caption := "hijacked"
	_, notOwnerErr := guard.UpdateImage(context.Background(), "alice", "img1", m.ImageUpdate{Caption: &caption})
	_, missingErr := guard.UpdateImage(context.Background(), "alice", "missing", m.ImageUpdate{Caption: &caption})

	assert.ErrorIs(t, notOwnerErr, m.ErrNotFound)
	assert.Equal(t, missingErr, notOwnerErr)
	assert.Equal(t, "caption for img1", store.images["img1"].Caption)
}

func TestDeleteImageOwnershipIndistinguishable(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "bob")
	guard := interactions.NewGuard(store, nil)

	notOwnerErr := guard.DeleteImage(context.Background(), "alice", "img1")
	missingErr := guard.DeleteImage(context.Background(), "alice", "missing")

	assert.ErrorIs(t, notOwnerErr, m.ErrNotFound)
	assert.Equal(t, missingErr, notOwnerErr)
	assert.Contains(t, store.images, "img1")
}

func TestDeleteImageCascades(t *testing.T) {
	store := newFakeStore()
	store.addImage("img1", "alice")
	guard := interactions.NewGuard(store, nil)

	_, err := guard.Like(context.Background(), "bob", "img1")
	require.NoError(t, err)
	_, err = guard.Comment(context.Background(), "bob", "img1", "hello")
	require.NoError(t, err)

	require.NoError(t, guard.DeleteImage(context.Background(), "alice", "img1"))

	assert.NotContains(t, store.images, "img1")
	assert.Equal(t, 0, store.likeCount("img1"))
	assert.Empty(t, store.comments)
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"sunset", "beach"},
		interactions.NormalizeTags([]string{"#Sunset", "sunset", "  #beach", "", "   "}))
	assert.Empty(t, interactions.NormalizeTags(nil))
}
