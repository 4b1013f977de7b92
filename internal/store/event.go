package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"
)

// sequenceCounter hands out the global sequence shared by every event
// table so status and session events can be ordered against each other.
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendStatusEvent(ctx context.Context, data StatusEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO status_events(sequence, session_id, template_id, item_id, status, cursor, timestamp)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.SessionID, data.TemplateID, data.ItemID, data.Status, data.Cursor, ts(time.Now()))
	if err != nil {
		return fmt.Errorf("save status event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO session_events(sequence, session_id, template_id, action, done, skipped, total, timestamp)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.SessionID, data.TemplateID, data.Action, data.Done, data.Skipped, data.Total, ts(time.Now()))
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryStatusEvents(ctx context.Context, opts QueryOpts) ([]StatusEventRecord, error) {
	where, args := opts.filter()
	rows, err := r.db.QueryContext(ctx, `
SELECT sequence, session_id, template_id, item_id, status, cursor, timestamp
FROM status_events`+where+` ORDER BY sequence`+opts.limit(), args...)
	if err != nil {
		return nil, fmt.Errorf("query status events: %w", err)
	}
	defer rows.Close()

	var records []StatusEventRecord
	for rows.Next() {
		var rec StatusEventRecord
		var stamp string
		if err := rows.Scan(&rec.Sequence, &rec.SessionID, &rec.TemplateID, &rec.ItemID, &rec.Status, &rec.Cursor, &stamp); err != nil {
			return nil, fmt.Errorf("scan status event: %w", err)
		}
		if rec.Timestamp, err = parseTS(stamp); err != nil {
			return nil, fmt.Errorf("parse status event time: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEventRecord, error) {
	where, args := opts.filter()
	rows, err := r.db.QueryContext(ctx, `
SELECT sequence, session_id, template_id, action, done, skipped, total, timestamp
FROM session_events`+where+` ORDER BY sequence`+opts.limit(), args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var records []SessionEventRecord
	for rows.Next() {
		var rec SessionEventRecord
		var stamp string
		if err := rows.Scan(&rec.Sequence, &rec.SessionID, &rec.TemplateID, &rec.Action, &rec.Done, &rec.Skipped, &rec.Total, &stamp); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		if rec.Timestamp, err = parseTS(stamp); err != nil {
			return nil, fmt.Errorf("parse session event time: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// filter renders the WHERE clause shared by the event tables.
func (o QueryOpts) filter() (string, []any) {
	var conds []string
	var args []any
	if o.TemplateID != "" {
		conds = append(conds, "template_id = ?")
		args = append(args, o.TemplateID)
	}
	if o.SessionID != "" {
		conds = append(conds, "session_id = ?")
		args = append(args, o.SessionID)
	}
	if o.After > 0 {
		conds = append(conds, "sequence > ?")
		args = append(args, o.After)
	}
	if o.Before > 0 {
		conds = append(conds, "sequence < ?")
		args = append(args, o.Before)
	}
	if !o.From.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, ts(o.From))
	}
	if !o.To.IsZero() {
		conds = append(conds, "timestamp <= ?")
		args = append(args, ts(o.To))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (o QueryOpts) limit() string {
	if o.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", o.Limit)
}
