package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	dom "Tasklist/internal/domain"
)

// SQLiteItemRepo implements ItemRepo on a database/sql handle opened with the
// modernc.org/sqlite driver. created_at is stored as unix milliseconds.
type SQLiteItemRepo struct {
	db *sql.DB
}

func NewSQLiteItemRepo(db *sql.DB) *SQLiteItemRepo {
	return &SQLiteItemRepo{db: db}
}

func (r *SQLiteItemRepo) List(ctx context.Context) ([]dom.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, completed, created_at FROM items ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	list := make([]dom.Item, 0)
	for rows.Next() {
		var t dom.Item
		var completed, createdAt int64
		if err := rows.Scan(&t.ID, &t.Title, &completed, &createdAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		t.Completed = completed != 0
		t.CreatedAt = unixMillisToTime(createdAt)
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return list, nil
}

func (r *SQLiteItemRepo) Insert(ctx context.Context, title string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO items (title) VALUES (?)`, title)
	if err != nil {
		return 0, fmt.Errorf("insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert item id: %w", err)
	}
	return id, nil
}

func (r *SQLiteItemRepo) Completed(ctx context.Context, id int64) (bool, error) {
	var completed int64
	err := r.db.QueryRowContext(ctx, `SELECT completed FROM items WHERE id = ?`, id).Scan(&completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("get item completion: %w", err)
	}
	return completed != 0, nil
}

func (r *SQLiteItemRepo) SetCompleted(ctx context.Context, id int64, done bool) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE items SET completed = ? WHERE id = ?`, flag(done), id); err != nil {
		return fmt.Errorf("set item completion: %w", err)
	}
	return nil
}

func (r *SQLiteItemRepo) Toggle(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE items SET completed = 1 - completed WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("toggle item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("toggle item rows: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteItemRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func unixMillisToTime(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
