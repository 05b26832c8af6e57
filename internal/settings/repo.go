// Package settings stores the single restaurant configuration row (id=1):
// delivery fee, opening hours, payment QR image and cash acceptance.
package settings

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Settings struct {
	ID          int64     `json:"id"`
	DeliveryFee string    `json:"delivery_fee"`
	OpenHours   string    `json:"open_hours"`
	QRImageURL  string    `json:"qr_image_url,omitempty"`
	AcceptCash  bool      `json:"accept_cash"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UpdateRequest payload for partial settings update.
// swagger:model SettingsUpdateRequest
type UpdateRequest struct {
	DeliveryFee *string `json:"deliveryFee" example:"20.00"`
	OpenHours   *string `json:"openHours"   example:"09:00 - 21:00"`
	QRImageURL  *string `json:"qrImageUrl"`
	AcceptCash  *bool   `json:"acceptCash"`
}

type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Upsert(ctx context.Context, s *Settings) error
	GetDeliveryFee(ctx context.Context) (decimal.Decimal, error)
	IsCashAccepted(ctx context.Context) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// Get returns nil when the settings row has never been written.
func (r *PGRepo) Get(ctx context.Context) (*Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s Settings
	err := r.db.QueryRow(ctx, `
		SELECT id, delivery_fee::text, open_hours, qr_image_url, accept_cash, updated_at
		FROM restaurant_settings WHERE id=1
	`).Scan(&s.ID, &s.DeliveryFee, &s.OpenHours, &s.QRImageURL, &s.AcceptCash, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PGRepo) Upsert(ctx context.Context, s *Settings) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.ID = 1
	return r.db.QueryRow(ctx, `
		INSERT INTO restaurant_settings (id, delivery_fee, open_hours, qr_image_url, accept_cash, updated_at)
		VALUES (1,$1,$2,$3,$4,NOW())
		ON CONFLICT (id) DO UPDATE
		SET delivery_fee=$1, open_hours=$2, qr_image_url=$3, accept_cash=$4, updated_at=NOW()
		RETURNING updated_at
	`, s.DeliveryFee, s.OpenHours, s.QRImageURL, s.AcceptCash).Scan(&s.UpdatedAt)
}

// GetDeliveryFee defaults to zero when settings are unset.
func (r *PGRepo) GetDeliveryFee(ctx context.Context) (decimal.Decimal, error) {
	s, err := r.Get(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if s == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s.DeliveryFee)
}

// IsCashAccepted defaults to true when settings are unset.
func (r *PGRepo) IsCashAccepted(ctx context.Context) (bool, error) {
	s, err := r.Get(ctx)
	if err != nil {
		return false, err
	}
	if s == nil {
		return true, nil
	}
	return s.AcceptCash, nil
}
