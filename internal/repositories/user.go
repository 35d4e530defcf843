package repositories

import (
	"context"
	"fmt"
)

// UpsertUser inserts a user or refreshes username, first name and
// last_active for an existing one. Called for every inbound message.
func (r *Repository) UpsertUser(ctx context.Context, userID int64, username, firstName string) error {
	op := "Repository.UpsertUser"
	query := `INSERT INTO users (user_id, username, first_name, last_active)
		VALUES ($1, NULLIF($2, ''), $3, CURRENT_DATE)
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_active = EXCLUDED.last_active`
	_, err := r.DB.ExecContext(ctx, query, userID, username, firstName)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
