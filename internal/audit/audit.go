// Package audit records mutating operations into the logs table and
// serves the admin log listing.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry represents a record stored in logs.
type Entry struct {
	ID       int64          `json:"id"`
	ActorID  int64          `json:"usuarioId"`
	Action   string         `json:"acao"`
	Entity   string         `json:"entidade"`
	EntityID string         `json:"entidadeId"`
	Meta     map[string]any `json:"meta,omitempty"`
	At       time.Time      `json:"criadoEm"`
}

// Recorder is the write side used by services; the pgx logger satisfies
// it, tests use in-memory fakes.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Logger writes entries into the logs table.
type Logger struct {
	pool *pgxpool.Pool
}

// NewLogger returns a new Logger.
func NewLogger(pool *pgxpool.Pool) *Logger {
	return &Logger{pool: pool}
}

// Record persists the entry. Failures here must not abort the business
// operation; callers log and continue.
func (l *Logger) Record(ctx context.Context, entry Entry) error {
	if l == nil {
		return errors.New("audit logger not initialised")
	}
	if entry.Action == "" || entry.Entity == "" || entry.EntityID == "" {
		return errors.New("audit entry requires action/entity/entity_id")
	}
	metaJSON, err := json.Marshal(entry.Meta)
	if err != nil {
		return err
	}
	at := entry.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO logs (usuario_id, acao, entidade, entidade_id, meta, criado_em) VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ActorID, entry.Action, entry.Entity, entry.EntityID, metaJSON, at)
	return err
}

// List returns entries ordered newest first.
func (l *Logger) List(ctx context.Context, limit, offset int) ([]Entry, int, error) {
	var total int
	if err := l.pool.QueryRow(ctx, `SELECT COUNT(*) FROM logs`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := l.pool.Query(ctx,
		`SELECT id, usuario_id, acao, entidade, entidade_id, meta, criado_em FROM logs ORDER BY criado_em DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var metaJSON []byte
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Entity, &e.EntityID, &metaJSON, &e.At); err != nil {
			return nil, 0, err
		}
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &e.Meta)
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
