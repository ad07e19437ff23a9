package interactions

import (
	"context"
	"errors"
	"strings"

	m "davidgram_services/src/models"
)

const maxCommentLength = 500

type Store interface {
	GetImage(ctx context.Context, imageID string, viewerID string) (*m.Image, error)
	GetImageForOwner(ctx context.Context, imageID string, ownerID string) (*m.Image, error)
	HasLike(ctx context.Context, userID string, imageID string) (bool, error)
	CreateLike(ctx context.Context, userID string, imageID string) error
	DeleteLike(ctx context.Context, userID string, imageID string) (bool, error)
	CreateComment(ctx context.Context, comment *m.Comment) error
	DeleteCommentByCreator(ctx context.Context, commentID string, creatorID string) (bool, error)
	DeleteCommentByImageOwner(ctx context.Context, commentID string, imageID string, ownerID string) (bool, error)
	UpdateImage(ctx context.Context, image *m.Image) error
	DeleteImage(ctx context.Context, imageID string) error
}

// Notifier is the fire-and-forget notification trigger. Implementations
// must never block the caller on the notification backend or surface its
// failures.
type Notifier interface {
	Notify(notification m.EngagementNotification)
}

type LikeOutcome int

const (
	LikeCreated LikeOutcome = iota
	// AlreadyLiked is the idempotent no-op: the pair existed before the
	// call and nothing changed. Distinct from success so the surface can
	// answer with a non-mutating status.
	AlreadyLiked
)

type UnlikeOutcome int

const (
	LikeDeleted UnlikeOutcome = iota
	NotLiked
)

// Guard enforces like/unlike idempotence and ownership-scoped mutation of
// comments and images.
type Guard struct {
	Store    Store
	Notifier Notifier
}

func NewGuard(store Store, notifier Notifier) *Guard {
	return &Guard{Store: store, Notifier: notifier}
}

// Like records a like for (user, image). Liking an already liked image is a
// no-op. A concurrent duplicate insert is recovered by remapping the store
// conflict to AlreadyLiked.
func (g *Guard) Like(ctx context.Context, userID string, imageID string) (LikeOutcome, error) {
	image, err := g.Store.GetImage(ctx, imageID, userID)
	if err != nil {
		return 0, err
	}

	liked, err := g.Store.HasLike(ctx, userID, imageID)
	if err != nil {
		return 0, err
	}
	if liked {
		return AlreadyLiked, nil
	}

	err = g.Store.CreateLike(ctx, userID, imageID)
	if errors.Is(err, m.ErrConflict) {
		return AlreadyLiked, nil
	}
	if err != nil {
		return 0, err
	}

	g.notify(userID, image, m.NotificationLike, "")

	return LikeCreated, nil
}

func (g *Guard) Unlike(ctx context.Context, userID string, imageID string) (UnlikeOutcome, error) {
	if _, err := g.Store.GetImage(ctx, imageID, userID); err != nil {
		return 0, err
	}

	deleted, err := g.Store.DeleteLike(ctx, userID, imageID)
	if err != nil {
		return 0, err
	}
	if !deleted {
		return NotLiked, nil
	}

	return LikeDeleted, nil
}

// Comment creates a comment on the image and notifies its owner. The
// notification rides a side channel: its failure never rolls the comment
// back.
func (g *Guard) Comment(ctx context.Context, userID string, imageID string, message string) (*m.Comment, error) {
	image, err := g.Store.GetImage(ctx, imageID, userID)
	if err != nil {
		return nil, err
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, &m.ValidationError{Field: "message", Reason: "may not be empty"}
	}
	if len(message) > maxCommentLength {
		return nil, &m.ValidationError{Field: "message", Reason: "exceeds 500 characters"}
	}

	comment := &m.Comment{ImageID: imageID, UserID: userID, Message: message}
	if err := g.Store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	g.notify(userID, image, m.NotificationComment, message)

	return comment, nil
}

// DeleteComment removes the requester's own comment. Someone else's comment
// and a nonexistent one are both ErrNotFound.
func (g *Guard) DeleteComment(ctx context.Context, requesterID string, commentID string) error {
	deleted, err := g.Store.DeleteCommentByCreator(ctx, commentID, requesterID)
	if err != nil {
		return err
	}
	if !deleted {
		return m.ErrNotFound
	}
	return nil
}

// ModerateComment removes any comment on an image the requester owns.
func (g *Guard) ModerateComment(ctx context.Context, requesterID string, imageID string, commentID string) error {
	deleted, err := g.Store.DeleteCommentByImageOwner(ctx, commentID, imageID, requesterID)
	if err != nil {
		return err
	}
	if !deleted {
		return m.ErrNotFound
	}
	return nil
}

// FindOwnImage gates image mutation. It answers ErrNotFound both for a
// missing image and for one the user does not own.
func (g *Guard) FindOwnImage(ctx context.Context, imageID string, userID string) (*m.Image, error) {
	return g.Store.GetImageForOwner(ctx, imageID, userID)
}

// UpdateImage applies the supplied fields to the user's own image; fields
// absent from the update keep their prior values.
func (g *Guard) UpdateImage(ctx context.Context, userID string, imageID string, update m.ImageUpdate) (*m.Image, error) {
	image, err := g.FindOwnImage(ctx, imageID, userID)
	if err != nil {
		return nil, err
	}

	if update.File != nil {
		image.File = *update.File
	}
	if update.Location != nil {
		image.Location = *update.Location
	}
	if update.Caption != nil {
		image.Caption = *update.Caption
	}
	if update.Tags != nil {
		image.Tags = NormalizeTags(update.Tags)
	}

	if strings.TrimSpace(image.File) == "" {
		return nil, &m.ValidationError{Field: "file", Reason: "may not be empty"}
	}

	if err := g.Store.UpdateImage(ctx, image); err != nil {
		return nil, err
	}

	return image, nil
}

// DeleteImage removes the user's own image along with its likes and
// comments.
func (g *Guard) DeleteImage(ctx context.Context, userID string, imageID string) error {
	image, err := g.FindOwnImage(ctx, imageID, userID)
	if err != nil {
		return err
	}

	return g.Store.DeleteImage(ctx, image.ID)
}

// notify fires the engagement trigger unless the actor is engaging with
// their own image.
func (g *Guard) notify(actorID string, image *m.Image, kind string, detail string) {
	if g.Notifier == nil || actorID == image.ImageOwner {
		return
	}

	g.Notifier.Notify(m.EngagementNotification{
		ImageID:          image.ID,
		ReceiverID:       image.ImageOwner,
		NotifierID:       actorID,
		NotificationType: kind,
		Detail:           detail,
	})
}

// NormalizeTags trims, lowercases, strips a leading '#' and drops empty or
// duplicate entries while keeping the caller's order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#")))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		normalized = append(normalized, tag)
	}
	return normalized
}
