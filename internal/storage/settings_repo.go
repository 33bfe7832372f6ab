package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_settings_store.go -package=mocks github.com/hyodin/dollkongbot/internal/storage SettingsStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SettingsStore persists the FAQ visibility overlay. Reads always reflect the latest write.
type SettingsStore interface {
	// List returns every stored setting ordered by keyword.
	List(ctx context.Context) ([]FAQSetting, error)
	// Get returns the setting for keyword. Returns ErrNotFound if none is stored.
	Get(ctx context.Context, keyword string) (*FAQSetting, error)
	// Upsert creates or replaces the setting for setting.Lvl1Keyword.
	Upsert(ctx context.Context, setting FAQSetting) error
	// Reorder assigns order i+1 to keywords[i], keeping each keyword's visibility.
	Reorder(ctx context.Context, keywords []string) error
}

// SettingsRepo implements SettingsStore on SQLite.
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo creates a new SettingsRepo.
func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// List returns every stored setting ordered by keyword.
func (r *SettingsRepo) List(ctx context.Context) ([]FAQSetting, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT lvl1_keyword, visible, sort_order, updated_at FROM faq_settings ORDER BY lvl1_keyword",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query faq settings: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	settings := []FAQSetting{}
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return settings, nil
}

// Get returns the setting for keyword. Returns ErrNotFound if none is stored.
func (r *SettingsRepo) Get(ctx context.Context, keyword string) (*FAQSetting, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT lvl1_keyword, visible, sort_order, updated_at FROM faq_settings WHERE lvl1_keyword = ?",
		keyword,
	)
	s, err := scanSetting(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert creates or replaces the setting for setting.Lvl1Keyword.
func (r *SettingsRepo) Upsert(ctx context.Context, setting FAQSetting) error {
	var order sql.NullInt64
	if setting.Order != nil {
		order = sql.NullInt64{Int64: int64(*setting.Order), Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO faq_settings (lvl1_keyword, visible, sort_order, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(lvl1_keyword) DO UPDATE SET visible = excluded.visible, sort_order = excluded.sort_order, updated_at = excluded.updated_at`,
		setting.Lvl1Keyword, setting.Visible, order, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert faq setting: %w", err)
	}
	return nil
}

// Reorder assigns order i+1 to keywords[i] in one transaction.
// Keywords without a stored setting are created visible.
func (r *SettingsRepo) Reorder(ctx context.Context, keywords []string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for i, kw := range keywords {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO faq_settings (lvl1_keyword, visible, sort_order, updated_at) VALUES (?, 1, ?, ?)
			ON CONFLICT(lvl1_keyword) DO UPDATE SET sort_order = excluded.sort_order, updated_at = excluded.updated_at`,
			kw, i+1, now,
		); err != nil {
			return fmt.Errorf("failed to reorder %q: %w", kw, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}
	return nil
}

func scanSetting(scanner interface{ Scan(...any) error }) (FAQSetting, error) {
	var (
		s     FAQSetting
		order sql.NullInt64
	)
	if err := scanner.Scan(&s.Lvl1Keyword, &s.Visible, &order, &s.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return s, err
		}
		return s, fmt.Errorf("failed to scan faq setting: %w", err)
	}
	if order.Valid {
		o := int(order.Int64)
		s.Order = &o
	}
	return s, nil
}
