package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type progressRepo struct {
	db *sql.DB
}

func (r *progressRepo) Save(ctx context.Context, p Progress) error {
	statuses := p.Statuses
	if statuses == nil {
		statuses = map[string]string{}
	}
	raw, err := json.Marshal(statuses)
	if err != nil {
		return fmt.Errorf("marshal statuses: %w", err)
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO progress(template_id, session_id, cursor, statuses, paused, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(template_id) DO UPDATE SET
	session_id=excluded.session_id,
	cursor=excluded.cursor,
	statuses=excluded.statuses,
	paused=excluded.paused,
	updated_at=excluded.updated_at
`, p.TemplateID, p.SessionID, p.Cursor, string(raw), boolToInt(p.Paused), ts(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (r *progressRepo) Get(ctx context.Context, templateID string) (*Progress, error) {
	p := Progress{TemplateID: templateID}
	var raw, updated string
	var paused int
	err := r.db.QueryRowContext(ctx, `
SELECT session_id, cursor, statuses, paused, updated_at FROM progress WHERE template_id = ?`,
		templateID).Scan(&p.SessionID, &p.Cursor, &raw, &paused, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &p.Statuses); err != nil {
		return nil, fmt.Errorf("unmarshal statuses: %w", err)
	}
	p.Paused = paused != 0
	if p.UpdatedAt, err = parseTS(updated); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &p, nil
}

func (r *progressRepo) Delete(ctx context.Context, templateID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM progress WHERE template_id = ?`, templateID); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

func (r *progressRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM progress`); err != nil {
		return fmt.Errorf("delete all progress: %w", err)
	}
	return nil
}
