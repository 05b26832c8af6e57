// Package promotion manages the banner entries shown on the storefront.
package promotion

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("promotion not found")

type Promotion struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title,omitempty"`
	ImageURL  string    `json:"image_url"`
	IsActive  bool      `json:"is_active"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// UpsertRequest payload for promotion create/update.
// swagger:model PromotionUpsertRequest
type UpsertRequest struct {
	Title     *string `json:"title"`
	ImageURL  *string `json:"imageUrl"`
	IsActive  *bool   `json:"isActive"`
	SortOrder *int    `json:"sortOrder"`
}

type Repository interface {
	List(ctx context.Context, activeOnly bool) ([]Promotion, error)
	GetByID(ctx context.Context, id int64) (*Promotion, error)
	Create(ctx context.Context, p *Promotion) error
	Update(ctx context.Context, p *Promotion) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) List(ctx context.Context, activeOnly bool) ([]Promotion, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, title, image_url, is_active, sort_order, created_at
		FROM promotions
		WHERE ($1 = false OR is_active)
		ORDER BY sort_order ASC, created_at DESC
	`, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Promotion
	for rows.Next() {
		var p Promotion
		if err := rows.Scan(&p.ID, &p.Title, &p.ImageURL, &p.IsActive, &p.SortOrder, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Promotion, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Promotion
	err := r.db.QueryRow(ctx, `
		SELECT id, title, image_url, is_active, sort_order, created_at
		FROM promotions WHERE id=$1
	`, id).Scan(&p.ID, &p.Title, &p.ImageURL, &p.IsActive, &p.SortOrder, &p.CreatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *PGRepo) Create(ctx context.Context, p *Promotion) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.QueryRow(ctx, `
		INSERT INTO promotions (title, image_url, is_active, sort_order, created_at)
		VALUES ($1,$2,$3,$4,NOW())
		RETURNING id, created_at
	`, p.Title, p.ImageURL, p.IsActive, p.SortOrder).Scan(&p.ID, &p.CreatedAt)
}

func (r *PGRepo) Update(ctx context.Context, p *Promotion) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE promotions SET title=$2, image_url=$3, is_active=$4, sort_order=$5 WHERE id=$1
	`, p.ID, p.Title, p.ImageURL, p.IsActive, p.SortOrder)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM promotions WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
