// Package menu provides the repository interface and PostgreSQL implementation
// for menu items and categories.
package menu

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("menu item not found")
	ErrCategoryInUse = errors.New("category still has menu items")
)

type Repository interface {
	ListAvailable(ctx context.Context, recommendedOnly bool) ([]Item, error)
	FindAvailableByIDs(ctx context.Context, ids []int64) ([]Item, error)
	GetItemByID(ctx context.Context, id int64) (*Item, error)
	CreateItem(ctx context.Context, it *Item) error
	UpdateItem(ctx context.Context, it *Item) error
	DeleteItem(ctx context.Context, id int64) (bool, error)

	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	UpdateCategory(ctx context.Context, c *Category) (bool, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const itemCols = `
	i.id, i.category_id, i.name, i.description, i.price::text, i.image_url,
	i.is_available, i.is_recommended, i.created_at, i.updated_at,
	c.id, c.name, c.created_at
`

func (r *PGRepo) ListAvailable(ctx context.Context, recommendedOnly bool) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+itemCols+`
		FROM menu_items i
		JOIN menu_categories c ON c.id = i.category_id
		WHERE i.is_available AND ($1 = false OR i.is_recommended)
		ORDER BY i.created_at DESC
	`, recommendedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// FindAvailableByIDs returns only currently-available items; a missing id in
// the result signals the item is unavailable or unknown.
func (r *PGRepo) FindAvailableByIDs(ctx context.Context, ids []int64) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+itemCols+`
		FROM menu_items i
		JOIN menu_categories c ON c.id = i.category_id
		WHERE i.id = ANY($1) AND i.is_available
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *PGRepo) GetItemByID(ctx context.Context, id int64) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT `+itemCols+`
		FROM menu_items i
		JOIN menu_categories c ON c.id = i.category_id
		WHERE i.id = $1
	`, id)
	var it Item
	var cat Category
	if err := row.Scan(&it.ID, &it.CategoryID, &it.Name, &it.Description, &it.Price, &it.ImageURL,
		&it.IsAvailable, &it.IsRecommended, &it.CreatedAt, &it.UpdatedAt,
		&cat.ID, &cat.Name, &cat.CreatedAt); err != nil {
		return nil, ErrNotFound
	}
	it.Category = &cat
	return &it, nil
}

func (r *PGRepo) CreateItem(ctx context.Context, it *Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.QueryRow(ctx, `
		INSERT INTO menu_items (category_id, name, description, price, image_url, is_available, is_recommended, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
		RETURNING id, created_at, updated_at
	`, it.CategoryID, it.Name, it.Description, it.Price, it.ImageURL, it.IsAvailable, it.IsRecommended).
		Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
}

func (r *PGRepo) UpdateItem(ctx context.Context, it *Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE menu_items
		SET category_id = $2, name = $3, description = $4, price = $5,
		    image_url = $6, is_available = $7, is_recommended = $8, updated_at = NOW()
		WHERE id = $1
	`, it.ID, it.CategoryID, it.Name, it.Description, it.Price, it.ImageURL, it.IsAvailable, it.IsRecommended)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteItem(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) ListCategories(ctx context.Context) ([]Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, name, created_at FROM menu_categories ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) CreateCategory(ctx context.Context, c *Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.QueryRow(ctx, `
		INSERT INTO menu_categories (name, created_at) VALUES ($1,NOW())
		RETURNING id, created_at
	`, c.Name).Scan(&c.ID, &c.CreatedAt)
}

func (r *PGRepo) UpdateCategory(ctx context.Context, c *Category) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `UPDATE menu_categories SET name=$2 WHERE id=$1`, c.ID, c.Name)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// DeleteCategory refuses to delete a category that still has menu items.
func (r *PGRepo) DeleteCategory(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM menu_items WHERE category_id=$1`, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM menu_categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type pgRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanItems(rows pgRows) ([]Item, error) {
	var out []Item
	for rows.Next() {
		var it Item
		var cat Category
		if err := rows.Scan(&it.ID, &it.CategoryID, &it.Name, &it.Description, &it.Price, &it.ImageURL,
			&it.IsAvailable, &it.IsRecommended, &it.CreatedAt, &it.UpdatedAt,
			&cat.ID, &cat.Name, &cat.CreatedAt); err != nil {
			return nil, err
		}
		it.Category = &cat
		out = append(out, it)
	}
	return out, rows.Err()
}
