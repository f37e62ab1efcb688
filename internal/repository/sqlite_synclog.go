package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/polymath/internal/db"
	"github.com/alexanderramin/polymath/internal/domain"
)

// SQLiteSyncLogRepo implements SyncLogRepo using the sync_log table.
type SQLiteSyncLogRepo struct {
	db db.DBTX
}

// NewSQLiteSyncLogRepo creates a new SQLiteSyncLogRepo.
func NewSQLiteSyncLogRepo(conn db.DBTX) *SQLiteSyncLogRepo {
	return &SQLiteSyncLogRepo{db: conn}
}

const syncLogColumns = `id, direction, state, message, revision, started_at, finished_at`

func (r *SQLiteSyncLogRepo) Append(ctx context.Context, rec *domain.SyncRecord) error {
	query := `INSERT INTO sync_log (direction, state, message, revision, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		string(rec.Direction),
		string(rec.State),
		rec.Message,
		rec.Revision,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting sync record: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

// ListRecent returns up to limit records, newest first.
func (r *SQLiteSyncLogRepo) ListRecent(ctx context.Context, limit int) ([]*domain.SyncRecord, error) {
	query := `SELECT ` + syncLogColumns + ` FROM sync_log ORDER BY id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sync records: %w", err)
	}
	defer rows.Close()

	var out []*domain.SyncRecord
	for rows.Next() {
		rec, err := scanSyncRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteSyncLogRepo) LastSuccess(ctx context.Context, direction domain.SyncDirection) (*domain.SyncRecord, error) {
	query := `SELECT ` + syncLogColumns + ` FROM sync_log
		WHERE direction = ? AND state = ? ORDER BY id DESC LIMIT 1`
	rec, err := scanSyncRecord(r.db.QueryRowContext(ctx, query, string(direction), string(domain.SyncSynced)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("last %s: %w", direction, ErrNotFound)
		}
		return nil, err
	}
	return rec, nil
}

func (r *SQLiteSyncLogRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sync_log`); err != nil {
		return fmt.Errorf("clearing sync log: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSyncRecord(s scanner) (*domain.SyncRecord, error) {
	var rec domain.SyncRecord
	var direction, state, startedAt, finishedAt string
	if err := s.Scan(&rec.ID, &direction, &state, &rec.Message, &rec.Revision, &startedAt, &finishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning sync record: %w", err)
	}
	rec.Direction = domain.SyncDirection(direction)
	rec.State = domain.SyncState(state)
	rec.StartedAt = parseTime(startedAt)
	rec.FinishedAt = parseTime(finishedAt)
	return &rec, nil
}
