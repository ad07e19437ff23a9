package inits

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"davidgram_services/src/store"
)

func CreatePostgresPool(connString string, context context.Context) (*store.PGStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		log.Print(err)
		return nil, err
	}

	cfg.MaxConns = 8
	cfg.MaxConnIdleTime = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(context, cfg)
	if err != nil {
		log.Print(err)
		return nil, err
	}

	return store.NewPGStore(pool), nil
}

// InitTables bootstraps the schema. The unique index on likes is what lets
// concurrent double-likes resolve as conflicts instead of duplicates.
func InitTables(ctx context.Context, pg *store.PGStore) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			auth_zero_id text UNIQUE NOT NULL,
			username text UNIQUE NOT NULL,
			name text NOT NULL DEFAULT '',
			bio text NOT NULL DEFAULT '',
			created_at timestamptz NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
		)`,
		`CREATE TABLE IF NOT EXISTS follows (
			follower_id uuid NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
			followed_id uuid NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
			created_at timestamptz NOT NULL DEFAULT (now() AT TIME ZONE 'utc'),
			PRIMARY KEY (follower_id, followed_id)
		)`,
		`CREATE TABLE IF NOT EXISTS images (
			image_id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			image_owner uuid NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
			file text NOT NULL,
			location text NOT NULL DEFAULT '',
			caption text NOT NULL DEFAULT '',
			created_at timestamptz NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
		)`,
		`CREATE TABLE IF NOT EXISTS tags (
			tag_name text PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS imagetag (
			image_id uuid NOT NULL REFERENCES images (image_id) ON DELETE CASCADE,
			tag_name text NOT NULL REFERENCES tags (tag_name),
			PRIMARY KEY (image_id, tag_name)
		)`,
		`CREATE TABLE IF NOT EXISTS likes (
			user_id uuid NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
			image_id uuid NOT NULL REFERENCES images (image_id) ON DELETE CASCADE,
			created_at timestamptz NOT NULL DEFAULT (now() AT TIME ZONE 'utc'),
			CONSTRAINT likes_user_image_key UNIQUE (user_id, image_id)
		)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			image_id uuid NOT NULL REFERENCES images (image_id) ON DELETE CASCADE,
			commenter_id uuid NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
			comment_text text NOT NULL,
			created_at timestamptz NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			notification_uid uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			media_id uuid NOT NULL,
			sender_id uuid NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
			receiver_id uuid NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
			type text NOT NULL,
			detail text NOT NULL DEFAULT '',
			seen boolean NOT NULL DEFAULT false,
			received_at timestamptz NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
		)`,
		`CREATE INDEX IF NOT EXISTS images_owner_created_idx ON images (image_owner, created_at DESC)`,
	}

	for _, statement := range statements {
		if _, err := pg.Pool.Exec(ctx, statement); err != nil {
			log.Printf("Schema statement failed: %v", err)
			return err
		}
	}

	return nil
}
