package issue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("report not found")

func Create(ctx context.Context, db sqlx.ExtContext, rep Report) error {
	const q = `
	INSERT INTO issues (issue_id, order_id, username, summary, details, attachment_image_url, open, reported_at, admin_notes)
	VALUES (:issue_id, :order_id, :username, :summary, :details, :attachment_image_url, :open, :reported_at, :admin_notes)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, rep); err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}

	return nil
}

func FetchByOrder(ctx context.Context, db sqlx.ExtContext, orderID string) ([]Report, error) {
	const q = `SELECT * FROM issues WHERE order_id = $1 ORDER BY reported_at`

	reps := []Report{}
	if err := sqlx.SelectContext(ctx, db, &reps, q, orderID); err != nil {
		return nil, fmt.Errorf("selecting reports of order[%s]: %w", orderID, err)
	}

	return reps, nil
}

func FetchMine(ctx context.Context, db sqlx.ExtContext, orderID string, username string) (Report, error) {
	const q = `SELECT * FROM issues WHERE order_id = $1 AND username = $2 ORDER BY reported_at DESC LIMIT 1`

	var rep Report
	if err := sqlx.GetContext(ctx, db, &rep, q, orderID, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, ErrNotFound
		}
		return Report{}, fmt.Errorf("selecting report of order[%s] for user[%s]: %w", orderID, username, err)
	}

	return rep, nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, issueID string) (Report, error) {
	const q = `SELECT * FROM issues WHERE issue_id = $1`

	var rep Report
	if err := sqlx.GetContext(ctx, db, &rep, q, issueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, ErrNotFound
		}
		return Report{}, fmt.Errorf("selecting report[%s]: %w", issueID, err)
	}

	return rep, nil
}

func Resolve(ctx context.Context, db sqlx.ExtContext, issueID string, admin string, notes string, now time.Time) error {
	const q = `
	UPDATE issues SET open = FALSE, resolved_by_admin = $2, resolved_at = $3, admin_notes = $4
	WHERE issue_id = $1`

	if _, err := db.ExecContext(ctx, q, issueID, admin, now, notes); err != nil {
		return fmt.Errorf("resolving report[%s]: %w", issueID, err)
	}

	return nil
}
