package repositories

import (
	"context"
	"fmt"
)

// SaveMessage appends a forwarded user message to the review log.
func (r *Repository) SaveMessage(ctx context.Context, userID int64, text string) error {
	op := "Repository.SaveMessage"
	query := `INSERT INTO messages (user_id, text) VALUES ($1, $2)`
	_, err := r.DB.ExecContext(ctx, query, userID, text)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
