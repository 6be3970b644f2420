package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// sqliteTimeLayout matches what encoding/json writes for a UTC time.Time and
// is understood by SQLite's julianday().
const sqliteTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// involvesTagSQL is the SQL form of involvesTagFilter. It expects the tag
// bound twice.
const involvesTagSQL = `(
	EXISTS (
		SELECT 1 FROM json_each(d.doc, '$.battle.teams') AS team, json_each(team.value) AS p
		WHERE json_extract(p.value, '$.tag') = ?
	)
	OR EXISTS (
		SELECT 1 FROM json_each(d.doc, '$.battle.players') AS p
		WHERE json_extract(p.value, '$.tag') = ?
	)
)`

// battleSinceSQL matches the expression of idx_documents_battle_time.
const battleSinceSQL = `julianday(json_extract(d.doc, '$.battle_time')) >= julianday(?)`

type sqliteBackend struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLite creates a Store backed by the documents table of a SQLite or
// libSQL database opened with database.InitDB.
func NewSQLite(db *sql.DB) Store {
	return &store{b: &sqliteBackend{db: db}}
}

func (s *sqliteBackend) upsert(ctx context.Context, collection, id string, record, out any) (bool, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return false, fmt.Errorf("failed to marshal record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO documents (collection, id, doc) VALUES (?, ?, ?)
		ON CONFLICT(collection, id) DO NOTHING;
	`, collection, id, string(raw))
	if err != nil {
		return false, err
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	isNew := inserted == 1

	if !isNew {
		_, err = tx.ExecContext(ctx, `
			UPDATE documents SET doc = ?, updated_at = strftime('%s', 'now')
			WHERE collection = ? AND id = ?;
		`, string(raw), collection, id)
		if err != nil {
			return false, err
		}
	}

	if out != nil {
		var stored string
		err = tx.QueryRowContext(ctx, `SELECT doc FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&stored)
		if err != nil {
			return false, fmt.Errorf("failed to read back document: %w", err)
		}
		if err := json.Unmarshal([]byte(stored), out); err != nil {
			return false, fmt.Errorf("failed to decode document: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return isNew, nil
}

func (s *sqliteBackend) get(ctx context.Context, collection, id string, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

func (s *sqliteBackend) list(ctx context.Context, collection string, each func(decode func(any) error) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM documents WHERE collection = ? ORDER BY id`, collection)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		decode := func(out any) error { return json.Unmarshal([]byte(raw), out) }
		if err := each(decode); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *sqliteBackend) delete(ctx context.Context, collection, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *sqliteBackend) battleCount(ctx context.Context, tag string, since time.Time, rankThreshold int) (BattleCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE
				WHEN json_extract(d.doc, '$.battle.result') = 'victory' THEN 1
				WHEN json_extract(d.doc, '$.battle.rank') <= ? THEN 1
				ELSE 0
			END), 0)
		FROM documents d
		WHERE d.collection = ? AND ` + involvesTagSQL
	args := []any{rankThreshold, CollectionBattle, tag, tag}
	if !since.IsZero() {
		query += ` AND ` + battleSinceSQL
		args = append(args, since.UTC().Format(sqliteTimeLayout))
	}

	var counts BattleCounts
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&counts.Total, &counts.Victories); err != nil {
		return BattleCounts{}, err
	}
	counts.Defeats = counts.Total - counts.Victories
	return counts, nil
}

func (s *sqliteBackend) starPlayerCount(ctx context.Context, tag string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM documents
		WHERE collection = ? AND json_extract(doc, '$.battle.star_player.tag') = ?
	`, CollectionBattle, tag).Scan(&n)
	return n, err
}

func (s *sqliteBackend) ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqliteBackend) close(ctx context.Context) error {
	return s.db.Close()
}
