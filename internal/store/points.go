package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/rewear/internal/model"
)

// ListPointTransfers returns transfers where userID paid or was paid, newest first.
func ListPointTransfers(ctx context.Context, db *sql.DB, userID string) ([]model.PointTransfer, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT pt.id, pt.swap_id, pt.from_user_id, pt.to_user_id, pt.amount, pt.created_at,
		        COALESCE(i.title, ` + unknown + `), COALESCE(fu.username, ` + unknown + `), COALESCE(tu.username, ` + unknown + `)
		 FROM point_transfers pt
		 LEFT JOIN swap_requests s ON s.id = pt.swap_id
		 LEFT JOIN items i ON i.id = s.item_id
		 LEFT JOIN users fu ON fu.id = pt.from_user_id
		 LEFT JOIN users tu ON tu.id = pt.to_user_id
		 WHERE pt.from_user_id = ? OR pt.to_user_id = ?
		 ORDER BY pt.id DESC`, userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing point transfers: %w", err)
	}
	defer rows.Close()

	transfers := []model.PointTransfer{}
	for rows.Next() {
		var pt model.PointTransfer
		if err := rows.Scan(&pt.ID, &pt.SwapID, &pt.FromUserID, &pt.ToUserID, &pt.Amount, &pt.CreatedAt,
			&pt.ItemTitle, &pt.FromUsername, &pt.ToUsername); err != nil {
			return nil, fmt.Errorf("scanning point transfer: %w", err)
		}
		transfers = append(transfers, pt)
	}
	return transfers, rows.Err()
}
