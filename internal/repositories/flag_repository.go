package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"platformBack/internal/models"
)

type FlagRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewFlagRepository(db *sql.DB, dialect Dialect) *FlagRepository {
	return &FlagRepository{DB: db, Dialect: dialect}
}

const flagColumns = `id, content_id, content_type, reported_by, reason, status, moderator_id, moderator_notes, reviewed_at, created_at`

func (r *FlagRepository) Create(ctx context.Context, f models.ContentFlag) error {
	query := r.Dialect.Rebind(`INSERT INTO content_flags (` + flagColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	var reviewedAt sql.NullInt64
	if f.ReviewedAt != nil {
		reviewedAt = sql.NullInt64{Int64: toMillis(*f.ReviewedAt), Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query, f.ID, f.ContentID, f.ContentType, f.ReportedBy, f.Reason, string(f.Status),
		nullString(f.ModeratorID), nullString(f.ModeratorNotes), reviewedAt, toMillis(f.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert content flag: %w", err)
	}
	return nil
}

func (r *FlagRepository) GetByID(ctx context.Context, id string) (models.ContentFlag, error) {
	row := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(`SELECT `+flagColumns+` FROM content_flags WHERE id = ?`), id)
	f, err := scanFlag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ContentFlag{}, models.ErrFlagNotFound
	}
	return f, err
}

// ListPending returns the review queue, oldest first.
func (r *FlagRepository) ListPending(ctx context.Context) ([]models.ContentFlag, error) {
	query := r.Dialect.Rebind(`SELECT ` + flagColumns + ` FROM content_flags WHERE status = ? ORDER BY created_at ASC, id ASC`)
	rows, err := r.DB.QueryContext(ctx, query, string(models.FlagStatusPending))
	if err != nil {
		return nil, fmt.Errorf("query pending flags: %w", err)
	}
	defer rows.Close()

	flags := []models.ContentFlag{}
	for rows.Next() {
		f, err := scanFlag(rows)
		if err != nil {
			return nil, err
		}
		flags = append(flags, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return flags, nil
}

func (r *FlagRepository) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(`SELECT COUNT(*) FROM content_flags WHERE status = ?`), string(models.FlagStatusPending)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending flags: %w", err)
	}
	return n, nil
}

// Review records a moderator decision on a PENDING flag. It reports false when
// the flag was already reviewed (or is missing).
func (r *FlagRepository) Review(ctx context.Context, id string, decision models.Decision, moderatorID, notes string, reviewedAt time.Time) (bool, error) {
	query := r.Dialect.Rebind(`UPDATE content_flags SET status = ?, moderator_id = ?, moderator_notes = ?, reviewed_at = ? WHERE id = ? AND status = ?`)
	res, err := r.DB.ExecContext(ctx, query, string(decision), moderatorID, notes, toMillis(reviewedAt), id, string(models.FlagStatusPending))
	if err != nil {
		return false, fmt.Errorf("review flag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanFlag(scanner interface{ Scan(dest ...any) error }) (models.ContentFlag, error) {
	var (
		f              models.ContentFlag
		status         string
		moderatorID    sql.NullString
		moderatorNotes sql.NullString
		reviewedAt     sql.NullInt64
		createdAt      int64
	)
	err := scanner.Scan(&f.ID, &f.ContentID, &f.ContentType, &f.ReportedBy, &f.Reason, &status,
		&moderatorID, &moderatorNotes, &reviewedAt, &createdAt)
	if err != nil {
		return models.ContentFlag{}, err
	}
	f.Status = models.FlagStatus(status)
	f.ModeratorID = stringPtr(moderatorID)
	f.ModeratorNotes = stringPtr(moderatorNotes)
	f.ReviewedAt = timePtr(reviewedAt)
	f.CreatedAt = fromMillis(createdAt)
	return f, nil
}
