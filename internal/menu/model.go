package menu

import "time"

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Item struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	Description string `json:"description,omitempty"`
	// Price is kept as a string to avoid rounding errors (NUMERIC in Postgres)
	Price         string    `json:"price"`
	ImageURL      string    `json:"image_url"`
	IsAvailable   bool      `json:"is_available"`
	IsRecommended bool      `json:"is_recommended"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Category *Category `json:"category,omitempty"`
}

// CreateItemRequest payload for menu item creation.
// swagger:model CreateItemRequest
type CreateItemRequest struct {
	CategoryID    int64  `json:"category_id" example:"1"`
	Name          string `json:"name"        example:"Pad Krapow"`
	Description   string `json:"description"`
	Price         string `json:"price"       example:"60.00"`
	ImageURL      string `json:"image_url"`
	IsAvailable   *bool  `json:"is_available"`
	IsRecommended bool   `json:"is_recommended"`
}

// UpdateItemRequest payload for partial menu item update.
// swagger:model UpdateItemRequest
type UpdateItemRequest struct {
	CategoryID    *int64  `json:"category_id"`
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Price         *string `json:"price"`
	ImageURL      *string `json:"image_url"`
	IsAvailable   *bool   `json:"is_available"`
	IsRecommended *bool   `json:"is_recommended"`
}
