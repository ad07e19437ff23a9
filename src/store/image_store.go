package store

import (
	"context"

	m "davidgram_services/src/models"

	"github.com/jackc/pgx/v5"
)

const imageColumns = `i.image_id, i.image_owner, u.username, i.file, i.location, i.caption,
	(SELECT COUNT(*) FROM likes l WHERE l.image_id = i.image_id) AS like_count,
	(SELECT COUNT(*) FROM comments c WHERE c.image_id = i.image_id) AS comment_count,
	EXISTS (SELECT 1 FROM likes l WHERE l.image_id = i.image_id AND l.user_id = $1) AS user_has_liked,
	i.created_at`

func scanImage(row pgx.Row, image *m.Image) error {
	return row.Scan(&image.ID, &image.ImageOwner, &image.Username, &image.File, &image.Location,
		&image.Caption, &image.Likes, &image.Comments, &image.UserHasLiked, &image.CreatedAt)
}

// ImagesByCreator returns the creator's images newest first, capped at limit
// when limit is positive. Like/comment counts and the viewer's like state
// are resolved in the same query.
func (s *PGStore) ImagesByCreator(ctx context.Context, creatorID string, viewerID string, limit int) ([]m.Image, error) {
	var images []m.Image

	if limit < 0 {
		limit = 0
	}

	query := `SELECT ` + imageColumns + `
			  FROM images i
			  JOIN users u ON i.image_owner = u.user_id
			  WHERE i.image_owner = $2
			  ORDER BY i.created_at DESC, i.image_id DESC
			  LIMIT NULLIF($3, 0)`

	rows, err := s.Pool.Query(ctx, query, viewerID, creatorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var image m.Image
		if err := scanImage(rows, &image); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range images {
		if err := s.loadImageTags(ctx, &images[i]); err != nil {
			return nil, err
		}
	}

	return images, nil
}

func (s *PGStore) GetImage(ctx context.Context, imageID string, viewerID string) (*m.Image, error) {
	var image m.Image

	query := `SELECT ` + imageColumns + `
			  FROM images i
			  JOIN users u ON i.image_owner = u.user_id
			  WHERE i.image_id = $2`

	err := scanImage(s.Pool.QueryRow(ctx, query, viewerID, imageID), &image)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, m.ErrNotFound
		}
		return nil, err
	}

	if err := s.loadImageTags(ctx, &image); err != nil {
		return nil, err
	}

	return &image, nil
}

// GetImageForOwner looks an image up by id and owner in one predicate. A
// missing image and an image owned by someone else are the same ErrNotFound.
func (s *PGStore) GetImageForOwner(ctx context.Context, imageID string, ownerID string) (*m.Image, error) {
	var image m.Image

	query := `SELECT ` + imageColumns + `
			  FROM images i
			  JOIN users u ON i.image_owner = u.user_id
			  WHERE i.image_id = $2 AND i.image_owner = $1`

	err := scanImage(s.Pool.QueryRow(ctx, query, ownerID, imageID), &image)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, m.ErrNotFound
		}
		return nil, err
	}

	if err := s.loadImageTags(ctx, &image); err != nil {
		return nil, err
	}

	return &image, nil
}

func (s *PGStore) CreateImage(ctx context.Context, image *m.Image) error {
	query := `INSERT INTO images (image_owner, file, location, caption)
			  VALUES ($1, $2, $3, $4)
			  RETURNING image_id, created_at`

	err := s.Pool.QueryRow(ctx, query, image.ImageOwner, image.File, image.Location,
		image.Caption).Scan(&image.ID, &image.CreatedAt)
	if err != nil {
		return err
	}

	return s.replaceImageTags(ctx, image.ID, image.Tags)
}

func (s *PGStore) UpdateImage(ctx context.Context, image *m.Image) error {
	query := `UPDATE images SET file = $2, location = $3, caption = $4 WHERE image_id = $1`

	_, err := s.Pool.Exec(ctx, query, image.ID, image.File, image.Location, image.Caption)
	if err != nil {
		return err
	}

	return s.replaceImageTags(ctx, image.ID, image.Tags)
}

// DeleteImage removes the image; likes, comments and tag links go with it
// through the schema's ON DELETE CASCADE.
func (s *PGStore) DeleteImage(ctx context.Context, imageID string) error {
	query := `DELETE FROM images WHERE image_id = $1`

	_, err := s.Pool.Exec(ctx, query, imageID)
	return err
}

// ImagesByTagNames returns every image carrying at least one of the given
// tags. An image matching several tags comes back once per matching tag;
// de-duplication is the caller's job.
func (s *PGStore) ImagesByTagNames(ctx context.Context, viewerID string, tagNames []string) ([]m.Image, error) {
	var images []m.Image

	query := `SELECT ` + imageColumns + `
			  FROM images i
			  JOIN users u ON i.image_owner = u.user_id
			  JOIN imagetag it ON i.image_id = it.image_id
			  WHERE it.tag_name = ANY($2)
			  ORDER BY i.created_at DESC, i.image_id DESC`

	rows, err := s.Pool.Query(ctx, query, viewerID, tagNames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var image m.Image
		if err := scanImage(rows, &image); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range images {
		if err := s.loadImageTags(ctx, &images[i]); err != nil {
			return nil, err
		}
	}

	return images, nil
}

func (s *PGStore) loadImageTags(ctx context.Context, image *m.Image) error {
	query := `SELECT tag_name FROM imagetag WHERE image_id = $1 ORDER BY tag_name`

	rows, err := s.Pool.Query(ctx, query, image.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		image.Tags = append(image.Tags, name)
	}

	return rows.Err()
}

func (s *PGStore) replaceImageTags(ctx context.Context, imageID string, tags []string) error {
	clearQuery := `DELETE FROM imagetag WHERE image_id = $1`
	tagQuery := `INSERT INTO tags (tag_name) VALUES ($1) ON CONFLICT (tag_name) DO NOTHING`
	linkQuery := `INSERT INTO imagetag (image_id, tag_name) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	batch := &pgx.Batch{}
	batch.Queue(clearQuery, imageID)
	for _, tag := range tags {
		batch.Queue(tagQuery, tag)
		batch.Queue(linkQuery, imageID, tag)
	}

	return s.Pool.SendBatch(ctx, batch).Close()
}
