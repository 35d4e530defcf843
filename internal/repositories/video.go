package repositories

import (
	"context"
	"fmt"

	"github.com/sheravatov/kino-bot/internal/models/domain"
)

// UpsertVideo stores a catalog entry. An existing id is overwritten:
// re-uploading under the same number replaces the old video.
func (r *Repository) UpsertVideo(ctx context.Context, v domain.Video) error {
	op := "Repository.UpsertVideo"
	query := `INSERT INTO videos (id, file_id, title, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			file_id = EXCLUDED.file_id,
			title = EXCLUDED.title,
			description = EXCLUDED.description`
	_, err := r.DB.ExecContext(ctx, query, v.ID, v.FileID, v.Title, v.Description)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetVideo returns a catalog entry by its number.
// Returns sql.ErrNoRows (wrapped) when the id is not in the catalog.
func (r *Repository) GetVideo(ctx context.Context, id int64) (*domain.Video, error) {
	op := "Repository.GetVideo"
	var v domain.Video
	query := `SELECT id, file_id, title, description FROM videos WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&v.ID, &v.FileID, &v.Title, &v.Description)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &v, nil
}
