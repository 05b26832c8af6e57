package address

import "time"

type Address struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Label         string    `json:"label"`
	RecipientName string    `json:"recipient_name"`
	Phone         string    `json:"phone,omitempty"`
	Line1         string    `json:"line1"`
	Note          string    `json:"note,omitempty"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
}

// UpsertRequest payload for address create/update.
// swagger:model AddressUpsertRequest
type UpsertRequest struct {
	Label         string `json:"label"         example:"Home"`
	RecipientName string `json:"recipientName" example:"Somchai"`
	Phone         string `json:"phone"`
	Line1         string `json:"line1"`
	Note          string `json:"note"`
	IsDefault     *bool  `json:"isDefault"`
}
