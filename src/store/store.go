package store

import (
	"context"
	"errors"

	m "davidgram_services/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is the persistence collaborator for every core component. Keyed
// lookups, owner-scoped lookups and filtered scans are all single queries;
// ownership predicates live inside the SQL so an unauthorized caller gets
// the same answer as a missing row.
type PGStore struct {
	Pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{Pool: pool}
}

// isUniqueViolation reports whether err is SQLSTATE 23505, the duplicate-key
// error the likes and follows unique indexes raise.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *PGStore) UserIDFromSubject(ctx context.Context, subject string) (string, error) {
	var uid string

	query := `SELECT user_id FROM users WHERE auth_zero_id = $1`

	err := s.Pool.QueryRow(ctx, query, subject).Scan(&uid)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", m.ErrNotFound
		}
		return "", err
	}

	return uid, nil
}

func (s *PGStore) GetUser(ctx context.Context, userID string) (*m.User, error) {
	var user m.User

	query := `SELECT user_id, username, name, bio, created_at FROM users WHERE user_id = $1`

	err := s.Pool.QueryRow(ctx, query, userID).Scan(&user.ID, &user.Username, &user.Name, &user.Bio, &user.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, m.ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

// Following returns the ids of every user the given user follows.
func (s *PGStore) Following(ctx context.Context, userID string) ([]string, error) {
	var followed []string

	query := `SELECT followed_id FROM follows WHERE follower_id = $1`

	rows, err := s.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		followed = append(followed, id)
	}

	return followed, rows.Err()
}

// CreateFollow is idempotent: following a user twice leaves a single edge.
func (s *PGStore) CreateFollow(ctx context.Context, followerID string, followedID string) error {
	query := `INSERT INTO follows (follower_id, followed_id)
			  VALUES ($1, $2)
			  ON CONFLICT (follower_id, followed_id) DO NOTHING`

	_, err := s.Pool.Exec(ctx, query, followerID, followedID)
	return err
}

func (s *PGStore) DeleteFollow(ctx context.Context, followerID string, followedID string) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2`

	_, err := s.Pool.Exec(ctx, query, followerID, followedID)
	return err
}
