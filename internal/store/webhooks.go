// ABOUTME: Webhook persistence for the SQLite store
// ABOUTME: CRUD, enabled-by-event lookup for notifications, and last-triggered stamping

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const webhookColumns = `id, url, event_type, is_enabled, last_triggered_at, created_at, updated_at`

func scanWebhook(row rowScanner) (*Webhook, error) {
	var w Webhook
	var lastTriggered sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(
		&w.ID,
		&w.URL,
		&w.EventType,
		&w.IsEnabled,
		&lastTriggered,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if lastTriggered.Valid {
		t, err := parseTime(lastTriggered.String)
		if err != nil {
			return nil, err
		}
		w.LastTriggeredAt = &t
	}
	if w.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateWebhook inserts w and fills in its ID and timestamps.
func (s *SQLiteStore) CreateWebhook(ctx context.Context, w *Webhook) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO webhooks (url, event_type, is_enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, w.URL, w.EventType, boolInt(w.IsEnabled), formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("inserting webhook: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading webhook id: %w", err)
	}
	w.ID = id
	w.CreatedAt = now
	w.UpdatedAt = now
	return nil
}

// GetWebhook retrieves a webhook by ID.
// Returns ErrNotFound if the webhook doesn't exist.
func (s *SQLiteStore) GetWebhook(ctx context.Context, id int64) (*Webhook, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+webhookColumns+` FROM webhooks WHERE id = ?`, id)
	w, err := scanWebhook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying webhook: %w", err)
	}
	return w, nil
}

// ListWebhooks returns every webhook, newest first.
func (s *SQLiteStore) ListWebhooks(ctx context.Context) ([]*Webhook, error) {
	return s.queryWebhooks(ctx,
		`SELECT `+webhookColumns+` FROM webhooks ORDER BY created_at DESC, id DESC`)
}

// ListEnabledWebhooks returns the enabled webhooks subscribed to eventType.
func (s *SQLiteStore) ListEnabledWebhooks(ctx context.Context, eventType string) ([]*Webhook, error) {
	return s.queryWebhooks(ctx,
		`SELECT `+webhookColumns+` FROM webhooks WHERE event_type = ? AND is_enabled = 1 ORDER BY id`,
		eventType)
}

func (s *SQLiteStore) queryWebhooks(ctx context.Context, query string, args ...any) ([]*Webhook, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying webhooks: %w", err)
	}
	defer rows.Close()

	webhooks := []*Webhook{}
	for rows.Next() {
		w, err := scanWebhook(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning webhook: %w", err)
		}
		webhooks = append(webhooks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating webhooks: %w", err)
	}
	return webhooks, nil
}

// UpdateWebhook applies update to the webhook and returns the new row.
// Returns ErrNotFound if the webhook doesn't exist.
func (s *SQLiteStore) UpdateWebhook(ctx context.Context, id int64, update WebhookUpdate) (*Webhook, error) {
	sets := []string{"updated_at = ?"}
	args := []any{formatTime(time.Now())}

	if update.URL != nil {
		sets = append(sets, "url = ?")
		args = append(args, *update.URL)
	}
	if update.EventType != nil {
		sets = append(sets, "event_type = ?")
		args = append(args, *update.EventType)
	}
	if update.IsEnabled != nil {
		sets = append(sets, "is_enabled = ?")
		args = append(args, boolInt(*update.IsEnabled))
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE webhooks SET `+strings.Join(sets, ", ")+` WHERE id = ?`,
		append(args, id)...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating webhook: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}

	return s.GetWebhook(ctx, id)
}

// DeleteWebhook removes a webhook.
// Returns ErrNotFound if the webhook doesn't exist.
func (s *SQLiteStore) DeleteWebhook(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM webhooks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting webhook: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted webhook: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchWebhook records that the webhook was triggered at the given time.
func (s *SQLiteStore) TouchWebhook(ctx context.Context, id int64, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE webhooks SET last_triggered_at = ? WHERE id = ?`, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("touching webhook: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
