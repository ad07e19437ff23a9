package store

import (
	"context"

	m "davidgram_services/src/models"
)

// SearchDocuments flattens users and images into the documents the text
// search index carries.
func (s *PGStore) SearchDocuments(ctx context.Context) ([]m.Search, error) {
	var documents []m.Search

	query := `SELECT id, username, caption, tags, type
			  FROM
			  (SELECT u.user_id AS id,
					  u.username,
					  '' AS caption,
					  '{}'::text[] AS tags,
					  'user' AS type
			  FROM users u
			  UNION ALL
			  SELECT i.image_id AS id,
					 u.username,
					 i.caption,
					 COALESCE(array_agg(it.tag_name) FILTER (WHERE it.tag_name IS NOT NULL), '{}') AS tags,
					 'image' AS type
			  FROM images i
			  INNER JOIN users u ON i.image_owner = u.user_id
			  LEFT JOIN imagetag it ON i.image_id = it.image_id
			  GROUP BY i.image_id, u.username, i.caption) AS search`

	rows, err := s.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var document m.Search
		err := rows.Scan(&document.ID, &document.Username, &document.Caption, &document.Tags, &document.ResultType)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}

	return documents, rows.Err()
}
