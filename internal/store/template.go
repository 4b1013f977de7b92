package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/preflight/internal/checklist"
)

type templateRepo struct {
	db *sql.DB
}

func (r *templateRepo) Save(ctx context.Context, t *checklist.Template) error {
	if t == nil || t.ID == "" {
		return fmt.Errorf("save template: missing id")
	}
	body, err := checklist.Encode(t, checklist.KindJSON)
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	now := ts(time.Now())
	_, err = r.db.ExecContext(ctx, `
INSERT INTO templates(id, name, aircraft_model, airline, item_count, body, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name=excluded.name,
	aircraft_model=excluded.aircraft_model,
	airline=excluded.airline,
	item_count=excluded.item_count,
	body=excluded.body,
	updated_at=excluded.updated_at
`, t.ID, t.Name, t.AircraftModel, t.Airline, t.ItemCount(), string(body), now, now)
	if err != nil {
		if isUniqueErr(err) {
			return fmt.Errorf("save template %q: %w", t.Name, ErrDuplicate)
		}
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

func (r *templateRepo) Get(ctx context.Context, id string) (*checklist.Template, error) {
	return r.getBy(ctx, "id", id)
}

func (r *templateRepo) FindByName(ctx context.Context, name string) (*checklist.Template, error) {
	return r.getBy(ctx, "name", name)
}

func (r *templateRepo) getBy(ctx context.Context, column, value string) (*checklist.Template, error) {
	var body string
	err := r.db.QueryRowContext(ctx, `SELECT body FROM templates WHERE `+column+` = ?`, value).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query template: %w", err)
	}
	t, err := checklist.Decode([]byte(body), checklist.KindJSON)
	if err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}
	return t, nil
}

func (r *templateRepo) List(ctx context.Context) ([]TemplateInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, aircraft_model, airline, item_count, created_at, updated_at
FROM templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var infos []TemplateInfo
	for rows.Next() {
		var info TemplateInfo
		var created, updated string
		if err := rows.Scan(&info.ID, &info.Name, &info.AircraftModel, &info.Airline, &info.ItemCount, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		if info.CreatedAt, err = parseTS(created); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		if info.UpdatedAt, err = parseTS(updated); err != nil {
			return nil, fmt.Errorf("parse updated_at: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Rename changes the stored name and the name inside the template body.
func (r *templateRepo) Rename(ctx context.Context, id, name string) error {
	t, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	t.Name = name
	return r.Save(ctx, t)
}

func (r *templateRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
