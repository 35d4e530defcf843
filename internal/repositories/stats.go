package repositories

import (
	"context"
	"fmt"

	"github.com/sheravatov/kino-bot/internal/models/domain"
)

// Stats collects the counters for the /stats report.
func (r *Repository) Stats(ctx context.Context) (*domain.Stats, error) {
	op := "Repository.Stats"
	var s domain.Stats

	counts := []struct {
		dst   *int
		query string
	}{
		{&s.TotalUsers, `SELECT COUNT(*) FROM users`},
		{&s.ActiveToday, `SELECT COUNT(*) FROM users WHERE last_active = CURRENT_DATE`},
		{&s.ActiveMonth, `SELECT COUNT(*) FROM users WHERE last_active >= CURRENT_DATE - INTERVAL '30 days'`},
		{&s.TotalVideos, `SELECT COUNT(*) FROM videos`},
		{&s.MessagesToday, `SELECT COUNT(*) FROM messages WHERE ts::date = CURRENT_DATE`},
	}

	for _, c := range counts {
		if err := r.DB.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return &s, nil
}
