package repositories

import (
	"context"
	"fmt"
)

// ListAdminIDs returns dynamically added admin ids in grant order.
// Statically configured admins are not stored here; the union is the
// admins resolver's job.
func (r *Repository) ListAdminIDs(ctx context.Context) ([]int64, error) {
	op := "Repository.ListAdminIDs"
	var ids []int64
	query := `SELECT admin_id FROM admins ORDER BY added_date`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// AddAdmin inserts an admin row. Returns false when the id already has a
// row, so duplicate grants are a reported outcome rather than a constraint
// violation bubbling up.
func (r *Repository) AddAdmin(ctx context.Context, adminID, addedBy int64) (bool, error) {
	op := "Repository.AddAdmin"
	query := `INSERT INTO admins (admin_id, added_by)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`
	res, err := r.DB.ExecContext(ctx, query, adminID, addedBy)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

// RemoveAdmin deletes a dynamically added admin row. Returns false when no
// row existed for the id.
func (r *Repository) RemoveAdmin(ctx context.Context, adminID int64) (bool, error) {
	op := "Repository.RemoveAdmin"
	query := `DELETE FROM admins WHERE admin_id = $1`
	res, err := r.DB.ExecContext(ctx, query, adminID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}
