package order

import "time"

const (
	PaymentMethodQRCode = "QR_CODE"
	PaymentMethodCash   = "CASH"
)

// AddressSnapshot is the delivery address copied onto the order at creation
// time. It stays valid even if the saved address is later edited or deleted.
type AddressSnapshot struct {
	Label         string `json:"label,omitempty"`
	RecipientName string `json:"recipientName,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Line1         string `json:"line1,omitempty"`
	Note          string `json:"note,omitempty"`
}

type Order struct {
	ID         int64  `json:"id"`
	OrderNo    string `json:"order_no"`
	CustomerID int64  `json:"customer_user_id"`
	Status     Status `json:"status"`
	// Money fields are NUMERIC in Postgres, carried as strings.
	Subtotal    string `json:"subtotal"`
	DeliveryFee string `json:"delivery_fee"`
	Total       string `json:"total"`

	CustomerNameSnapshot  string           `json:"customer_name_snapshot"`
	CustomerPhoneSnapshot string           `json:"customer_phone_snapshot,omitempty"`
	AddressSnapshot       *AddressSnapshot `json:"address_snapshot,omitempty"`
	AddressID             *int64           `json:"address_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	Items      []Item      `json:"items,omitempty"`
	StatusLogs []StatusLog `json:"status_logs,omitempty"`
}

// Item is a priced line snapshot; MenuItemID is a weak reference back to the
// catalog and may be nil once the source item is deleted.
type Item struct {
	ID            int64  `json:"id"`
	OrderID       int64  `json:"order_id"`
	MenuItemID    *int64 `json:"menu_item_id"`
	NameSnapshot  string `json:"name_snapshot"`
	PriceSnapshot string `json:"price_snapshot"`
	Qty           int    `json:"qty"`
	Total         string `json:"total"`
}

// StatusLog is one append-only entry of the order's audit trail.
type StatusLog struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Status    Status    `json:"status"`
	ByRole    string    `json:"by_role"`
	ByUserID  int64     `json:"by_user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Payment struct {
	ID           int64     `json:"id"`
	OrderID      int64     `json:"order_id"`
	Method       string    `json:"method"`
	Amount       string    `json:"amount"`
	Status       string    `json:"status"`
	PaidAt       time.Time `json:"paid_at"`
	RefCode      string    `json:"ref_code"`
	SlipImageURL string    `json:"slip_image_url,omitempty"`
}

// Actor identifies who performed a transition, for the audit trail.
type Actor struct {
	Role   string
	UserID int64
}

type DashboardWindow struct {
	Orders  int    `json:"orders"`
	Revenue string `json:"revenue"`
}

type TopItem struct {
	NameSnapshot string `json:"name_snapshot"`
	Qty          int64  `json:"qty"`
}

type DashboardStats struct {
	Daily    DashboardWindow `json:"daily"`
	Monthly  DashboardWindow `json:"monthly"`
	TopItems []TopItem       `json:"topItems"`
}
