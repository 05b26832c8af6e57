// Package address keeps per-customer saved delivery addresses. Every write
// path that touches is_default runs in one transaction so a customer never has
// two defaults at once.
package address

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("address not found")
	ErrForbidden = errors.New("address belongs to another customer")
)

type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]Address, error)
	GetByID(ctx context.Context, id int64) (*Address, error)
	Create(ctx context.Context, a *Address) error
	Update(ctx context.Context, a *Address) error
	Delete(ctx context.Context, id, userID int64) error
	SetDefault(ctx context.Context, id, userID int64) (*Address, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const cols = `id, user_id, label, recipient_name, phone, line1, note, is_default, created_at`

func scanAddress(row pgx.Row, a *Address) error {
	return row.Scan(&a.ID, &a.UserID, &a.Label, &a.RecipientName, &a.Phone, &a.Line1, &a.Note, &a.IsDefault, &a.CreatedAt)
}

// ListByUser returns the default address first, then newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID int64) ([]Address, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+cols+` FROM addresses WHERE user_id=$1
		ORDER BY is_default DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Address
	for rows.Next() {
		var a Address
		if err := scanAddress(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Address, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a Address
	if err := scanAddress(r.db.QueryRow(ctx, `SELECT `+cols+` FROM addresses WHERE id=$1`, id), &a); err != nil {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *PGRepo) Create(ctx context.Context, a *Address) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if a.IsDefault {
		if err := clearDefaults(ctx, tx, a.UserID); err != nil {
			return err
		}
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO addresses (user_id, label, recipient_name, phone, line1, note, is_default, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
		RETURNING id, created_at
	`, a.UserID, a.Label, a.RecipientName, a.Phone, a.Line1, a.Note, a.IsDefault).Scan(&a.ID, &a.CreatedAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) Update(ctx context.Context, a *Address) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if a.IsDefault {
		if err := clearDefaults(ctx, tx, a.UserID); err != nil {
			return err
		}
	}
	tag, err := tx.Exec(ctx, `
		UPDATE addresses
		SET label=$2, recipient_name=$3, phone=$4, line1=$5, note=$6, is_default=$7
		WHERE id=$1
	`, a.ID, a.Label, a.RecipientName, a.Phone, a.Line1, a.Note, a.IsDefault)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

// Delete removes the address and, if it was the default, promotes the
// customer's most recently created remaining address in the same transaction.
func (r *PGRepo) Delete(ctx context.Context, id, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var owner int64
	var wasDefault bool
	if err := tx.QueryRow(ctx, `
		SELECT user_id, is_default FROM addresses WHERE id=$1 FOR UPDATE
	`, id).Scan(&owner, &wasDefault); err != nil {
		return ErrNotFound
	}
	if owner != userID {
		return ErrForbidden
	}

	if _, err := tx.Exec(ctx, `DELETE FROM addresses WHERE id=$1`, id); err != nil {
		return err
	}
	if wasDefault {
		if _, err := tx.Exec(ctx, `
			UPDATE addresses SET is_default = true
			WHERE id = (
				SELECT id FROM addresses WHERE user_id=$1 ORDER BY created_at DESC, id DESC LIMIT 1
			)
		`, userID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) SetDefault(ctx context.Context, id, userID int64) (*Address, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var owner int64
	if err := tx.QueryRow(ctx, `SELECT user_id FROM addresses WHERE id=$1 FOR UPDATE`, id).Scan(&owner); err != nil {
		return nil, ErrNotFound
	}
	if owner != userID {
		return nil, ErrForbidden
	}
	if err := clearDefaults(ctx, tx, userID); err != nil {
		return nil, err
	}
	var a Address
	if err := scanAddress(tx.QueryRow(ctx, `
		UPDATE addresses SET is_default = true WHERE id=$1 RETURNING `+cols, id), &a); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &a, nil
}

func clearDefaults(ctx context.Context, tx pgx.Tx, userID int64) error {
	_, err := tx.Exec(ctx, `UPDATE addresses SET is_default = false WHERE user_id=$1`, userID)
	return err
}
