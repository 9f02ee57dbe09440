package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"platformBack/internal/models"
)

type BanRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewBanRepository(db *sql.DB, dialect Dialect) *BanRepository {
	return &BanRepository{DB: db, Dialect: dialect}
}

func (r *BanRepository) Create(ctx context.Context, b models.UserBan) error {
	query := r.Dialect.Rebind(`INSERT INTO user_bans (id, user_id, reason, banned_until, created_at) VALUES (?, ?, ?, ?, ?)`)
	if _, err := r.DB.ExecContext(ctx, query, b.ID, b.UserID, b.Reason, toMillis(b.BannedUntil), toMillis(b.CreatedAt)); err != nil {
		return fmt.Errorf("insert user ban: %w", err)
	}
	return nil
}

// ListByUser returns every ban issued to userID, newest first, expired ones included.
func (r *BanRepository) ListByUser(ctx context.Context, userID string) ([]models.UserBan, error) {
	query := r.Dialect.Rebind(`SELECT id, user_id, reason, banned_until, created_at FROM user_bans WHERE user_id = ? ORDER BY created_at DESC, id DESC`)
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query user bans: %w", err)
	}
	defer rows.Close()

	bans := []models.UserBan{}
	for rows.Next() {
		var (
			b                      models.UserBan
			bannedUntil, createdAt int64
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.Reason, &bannedUntil, &createdAt); err != nil {
			return nil, err
		}
		b.BannedUntil = fromMillis(bannedUntil)
		b.CreatedAt = fromMillis(createdAt)
		bans = append(bans, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bans, nil
}
