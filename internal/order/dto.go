package order

// CreateOrderItem is one requested line.
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	MenuItemID int64 `json:"menuItemId" example:"3"`
	Qty        int   `json:"qty"        example:"2"`
}

// CreateOrderRequest payload for checkout. Either AddressID (a saved address
// owned by the caller) or Address (free-form) may be supplied.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	Items       []CreateOrderItem `json:"items"`
	AddressID   *int64            `json:"addressId"`
	Address     *AddressSnapshot  `json:"address"`
	DeliveryFee *string           `json:"deliveryFee" example:"20.00"`
}

// CreatePaymentRequest payload for payment capture.
// swagger:model CreatePaymentRequest
type CreatePaymentRequest struct {
	OrderID      int64  `json:"orderId" example:"12"`
	Method       string `json:"method"  example:"QR_CODE"`
	SlipImageURL string `json:"slipImageUrl"`
}

// UpdateStatusRequest payload for the generic merchant transition.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" example:"CONFIRMED"`
}
