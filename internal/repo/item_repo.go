package repo

import (
	"context"
	"errors"
	"fmt"

	dom "Tasklist/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no item has the requested id.
var ErrNotFound = errors.New("item not found")

// ItemRepo is the storage accessor for the items relation.
type ItemRepo interface {
	// List returns every item, newest first.
	List(ctx context.Context) ([]dom.Item, error)
	// Insert stores a new pending item and returns its id.
	Insert(ctx context.Context, title string) (int64, error)
	// Completed returns the completion flag of id or ErrNotFound.
	Completed(ctx context.Context, id int64) (bool, error)
	// SetCompleted writes the completion flag. Unknown ids are a no-op.
	SetCompleted(ctx context.Context, id int64, done bool) error
	// Toggle flips the completion flag in one statement and reports whether id exists.
	Toggle(ctx context.Context, id int64) (bool, error)
	// Delete removes id. Unknown ids are a no-op.
	Delete(ctx context.Context, id int64) error
}

type PGItemRepo struct {
	db *pgxpool.Pool
}

func NewPGItemRepo(db *pgxpool.Pool) *PGItemRepo {
	return &PGItemRepo{db: db}
}

func (r *PGItemRepo) List(ctx context.Context) ([]dom.Item, error) {
	query := `
		SELECT id, title, completed, created_at
		FROM items ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	list := make([]dom.Item, 0)
	for rows.Next() {
		var t dom.Item
		var completed int16
		if err := rows.Scan(&t.ID, &t.Title, &completed, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		t.Completed = completed != 0
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return list, nil
}

func (r *PGItemRepo) Insert(ctx context.Context, title string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO items (title) VALUES ($1) RETURNING id`, title).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert item: %w", err)
	}
	return id, nil
}

func (r *PGItemRepo) Completed(ctx context.Context, id int64) (bool, error) {
	var completed int16
	err := r.db.QueryRow(ctx, `SELECT completed FROM items WHERE id = $1`, id).Scan(&completed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("get item completion: %w", err)
	}
	return completed != 0, nil
}

func (r *PGItemRepo) SetCompleted(ctx context.Context, id int64, done bool) error {
	_, err := r.db.Exec(ctx, `UPDATE items SET completed = $2 WHERE id = $1`, id, flag(done))
	if err != nil {
		return fmt.Errorf("set item completion: %w", err)
	}
	return nil
}

func (r *PGItemRepo) Toggle(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE items SET completed = 1 - completed WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("toggle item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGItemRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// flag encodes a completion flag as the 0/1 integer stored in the completed column.
func flag(done bool) int16 {
	if done {
		return 1
	}
	return 0
}
