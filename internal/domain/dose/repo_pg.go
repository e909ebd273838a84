package dose

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medimate/medimate/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const doseCols = `id, user_id, med_name, dosage, due_at, status, updated_at`

func (r *repoPG) Create(ctx context.Context, d *DoseEvent) (bool, error) {
	d.ID = uuid.New()
	if d.Status == "" {
		d.Status = StatusPending
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO dose_events (id, user_id, med_name, dosage, due_at, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (user_id, med_name, due_at) DO NOTHING`,
		d.ID, d.UserID, d.MedName, d.Dosage, d.DueAt, d.Status,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID) ([]*DoseEvent, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doseCols+` FROM dose_events WHERE user_id = $1 ORDER BY due_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDoses(rows)
}

func (r *repoPG) ListOverdue(ctx context.Context, cutoff time.Time) ([]*DoseEvent, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doseCols+` FROM dose_events WHERE status = $1 AND due_at < $2 ORDER BY due_at`,
		StatusPending, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDoses(rows)
}

func (r *repoPG) Transition(ctx context.Context, id, userID uuid.UUID, from, to Status) (*DoseEvent, error) {
	return scanDose(r.conn(ctx).QueryRow(ctx, `
		UPDATE dose_events SET status = $4, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = $3
		RETURNING `+doseCols,
		id, userID, from, to))
}

func (r *repoPG) TransitionByID(ctx context.Context, id uuid.UUID, from, to Status) (*DoseEvent, error) {
	return scanDose(r.conn(ctx).QueryRow(ctx, `
		UPDATE dose_events SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+doseCols,
		id, from, to))
}

func scanDose(row pgx.Row) (*DoseEvent, error) {
	var d DoseEvent
	err := row.Scan(&d.ID, &d.UserID, &d.MedName, &d.Dosage, &d.DueAt, &d.Status, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDoses(rows pgx.Rows) ([]*DoseEvent, error) {
	var doses []*DoseEvent
	for rows.Next() {
		var d DoseEvent
		if err := rows.Scan(&d.ID, &d.UserID, &d.MedName, &d.Dosage, &d.DueAt, &d.Status, &d.UpdatedAt); err != nil {
			return nil, err
		}
		doses = append(doses, &d)
	}
	return doses, rows.Err()
}
