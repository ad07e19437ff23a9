package store

import (
	"context"

	m "davidgram_services/src/models"
)

func (s *PGStore) CreateComment(ctx context.Context, comment *m.Comment) error {
	addCommentQuery := `INSERT INTO comments (image_id, commenter_id, comment_text)
						VALUES ($1, $2, $3)
						RETURNING id, created_at`
	commenterQuery := `SELECT username FROM users WHERE user_id = $1`

	err := s.Pool.QueryRow(ctx, addCommentQuery, comment.ImageID, comment.UserID,
		comment.Message).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return err
	}

	return s.Pool.QueryRow(ctx, commenterQuery, comment.UserID).Scan(&comment.Username)
}

func (s *PGStore) CommentsByImage(ctx context.Context, imageID string) ([]m.Comment, error) {
	var comments []m.Comment

	query := `SELECT c.id, c.image_id, c.commenter_id, u.username, c.comment_text, c.created_at
			  FROM comments c
			  JOIN users u ON u.user_id = c.commenter_id
			  WHERE c.image_id = $1
			  ORDER BY c.created_at ASC`

	rows, err := s.Pool.Query(ctx, query, imageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var comment m.Comment
		err := rows.Scan(&comment.ID, &comment.ImageID, &comment.UserID, &comment.Username,
			&comment.Message, &comment.CreatedAt)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

// DeleteCommentByCreator deletes the comment only when the requester wrote
// it. The creator check is part of the delete predicate, so a foreign
// comment and a missing one both report no rows.
func (s *PGStore) DeleteCommentByCreator(ctx context.Context, commentID string, creatorID string) (bool, error) {
	query := `DELETE FROM comments WHERE id = $1 AND commenter_id = $2`

	tag, err := s.Pool.Exec(ctx, query, commentID, creatorID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteCommentByImageOwner deletes any comment on an image the requester
// owns, regardless of who wrote it.
func (s *PGStore) DeleteCommentByImageOwner(ctx context.Context, commentID string, imageID string, ownerID string) (bool, error) {
	query := `DELETE FROM comments c
			  USING images i
			  WHERE c.id = $1
			  AND c.image_id = $2
			  AND c.image_id = i.image_id
			  AND i.image_owner = $3`

	tag, err := s.Pool.Exec(ctx, query, commentID, imageID, ownerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
