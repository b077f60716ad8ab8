// Package audit appends workflow events (artifact status changes, risk
// runs) to an append-only log for later review and sync.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// Event types recorded by the gateway.
const (
	TypeArtifactStatusChanged = "ArtifactStatusChanged"
	TypePrecheckCompleted     = "PrecheckCompleted"
	TypeRiskRunCompleted      = "RiskRunCompleted"
)

type Event struct {
	Seq       int64  `json:"seq"`
	SiteID    string `json:"site_id"`
	Type      string `json:"type"`
	Key       string `json:"key"` // natural key: artifactID / projectID
	DataJSON  string `json:"data"`
	CreatedAt int64  `json:"created_at"`
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, typ, key string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		"local", typ, key, string(payload), time.Now().Unix())
	return err
}

// Recent returns the newest events, newest first.
func (r *EventRepo) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, site_id, typ, key, data, created_at
		 FROM event_log ORDER BY seq DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.SiteID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
