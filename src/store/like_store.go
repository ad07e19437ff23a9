package store

import (
	"context"

	m "davidgram_services/src/models"
)

func (s *PGStore) HasLike(ctx context.Context, userID string, imageID string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM likes WHERE user_id = $1 AND image_id = $2)`

	err := s.Pool.QueryRow(ctx, query, userID, imageID).Scan(&exists)
	return exists, err
}

// CreateLike inserts the (user, image) pair. When a concurrent request got
// there first the unique index rejects the insert and the caller sees
// ErrConflict instead of a server error.
func (s *PGStore) CreateLike(ctx context.Context, userID string, imageID string) error {
	query := `INSERT INTO likes (user_id, image_id) VALUES ($1, $2)`

	_, err := s.Pool.Exec(ctx, query, userID, imageID)
	if isUniqueViolation(err) {
		return m.ErrConflict
	}
	return err
}

func (s *PGStore) DeleteLike(ctx context.Context, userID string, imageID string) (bool, error) {
	query := `DELETE FROM likes WHERE user_id = $1 AND image_id = $2`

	tag, err := s.Pool.Exec(ctx, query, userID, imageID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// LikersOfImage lists the users who liked an image, most recent first.
func (s *PGStore) LikersOfImage(ctx context.Context, imageID string) ([]m.User, error) {
	var users []m.User

	query := `SELECT u.user_id, u.username, u.name, u.bio, u.created_at
			  FROM users u
			  JOIN likes l ON l.user_id = u.user_id
			  WHERE l.image_id = $1
			  ORDER BY l.created_at DESC`

	rows, err := s.Pool.Query(ctx, query, imageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var user m.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Name, &user.Bio, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}
