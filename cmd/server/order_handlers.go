package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/teetananch67-commits/Tanny/internal/address"
	"github.com/teetananch67-commits/Tanny/internal/auth"
	"github.com/teetananch67-commits/Tanny/internal/httpx"
	"github.com/teetananch67-commits/Tanny/internal/menu"
	"github.com/teetananch67-commits/Tanny/internal/order"
	"github.com/teetananch67-commits/Tanny/internal/settings"
	"github.com/teetananch67-commits/Tanny/internal/user"
)

var (
	errInvalidQty      = errors.New("invalid quantity")
	errItemUnavailable = errors.New("some items are unavailable")
)

// buildOrderItems resolves the requested lines against currently-available
// menu items and snapshots name and price into the order lines. Count mismatch
// covers both unavailable and unknown ids.
func buildOrderItems(ctx context.Context, menus menu.Repository, lines []order.CreateOrderItem) ([]order.Item, decimal.Decimal, error) {
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if l.Qty <= 0 {
			return nil, decimal.Zero, errInvalidQty
		}
		ids = append(ids, l.MenuItemID)
	}

	avail, err := menus.FindAvailableByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if len(avail) != len(lines) {
		return nil, decimal.Zero, errItemUnavailable
	}
	byID := make(map[int64]menu.Item, len(avail))
	for _, m := range avail {
		byID[m.ID] = m
	}

	subtotal := decimal.Zero
	items := make([]order.Item, 0, len(lines))
	for _, l := range lines {
		m, ok := byID[l.MenuItemID]
		if !ok {
			return nil, decimal.Zero, errItemUnavailable
		}
		price, err := decimal.NewFromString(m.Price)
		if err != nil {
			return nil, decimal.Zero, err
		}
		lineTotal := price.Mul(decimal.NewFromInt(int64(l.Qty)))
		subtotal = subtotal.Add(lineTotal)
		menuID := m.ID
		items = append(items, order.Item{
			MenuItemID:    &menuID,
			NameSnapshot:  m.Name,
			PriceSnapshot: m.Price,
			Qty:           l.Qty,
			Total:         lineTotal.StringFixed(2),
		})
	}
	return items, subtotal, nil
}

func createOrderHandler(orders order.Repository, menus menu.Repository, addrs address.Repository,
	sets settings.Repository, users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := httpx.UserID(c)

		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil || len(req.Items) == 0 {
			fail(c, http.StatusBadRequest, "Items required")
			return
		}

		items, subtotal, err := buildOrderItems(c.Request.Context(), menus, req.Items)
		switch {
		case errors.Is(err, errInvalidQty):
			fail(c, http.StatusBadRequest, "Invalid quantity")
			return
		case errors.Is(err, errItemUnavailable):
			fail(c, http.StatusConflict, "Some items are unavailable")
			return
		case err != nil:
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}

		snapshot := req.Address
		var addressID *int64
		if req.AddressID != nil {
			saved, err := addrs.GetByID(c.Request.Context(), *req.AddressID)
			if err != nil || saved.UserID != userID {
				fail(c, http.StatusBadRequest, "Invalid address")
				return
			}
			addressID = &saved.ID
			snapshot = &order.AddressSnapshot{
				Label:         saved.Label,
				RecipientName: saved.RecipientName,
				Phone:         saved.Phone,
				Line1:         saved.Line1,
				Note:          saved.Note,
			}
		}

		var fee decimal.Decimal
		if req.DeliveryFee != nil {
			fee, err = decimal.NewFromString(*req.DeliveryFee)
			if err != nil || fee.IsNegative() {
				fail(c, http.StatusBadRequest, "Invalid delivery fee")
				return
			}
		} else {
			fee, err = sets.GetDeliveryFee(c.Request.Context())
			if err != nil {
				fail(c, http.StatusInternalServerError, "Internal error")
				return
			}
		}

		u, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			fail(c, http.StatusNotFound, "User not found")
			return
		}

		o := &order.Order{
			OrderNo:               order.GenerateOrderNo(time.Now()),
			CustomerID:            userID,
			Status:                order.StatusPendingPayment,
			Subtotal:              subtotal.StringFixed(2),
			DeliveryFee:           fee.StringFixed(2),
			Total:                 subtotal.Add(fee).StringFixed(2),
			CustomerNameSnapshot:  u.Name,
			CustomerPhoneSnapshot: u.Phone,
			AddressSnapshot:       snapshot,
			AddressID:             addressID,
		}
		if err := orders.Create(c.Request.Context(), o, items); err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

func createPaymentHandler(orders order.Repository, sets settings.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := httpx.UserID(c)

		var req order.CreatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.OrderID <= 0 {
			fail(c, http.StatusBadRequest, "orderId required")
			return
		}
		if req.Method != order.PaymentMethodQRCode && req.Method != order.PaymentMethodCash {
			fail(c, http.StatusBadRequest, "Invalid payment method")
			return
		}
		if req.Method == order.PaymentMethodQRCode && req.SlipImageURL == "" {
			fail(c, http.StatusBadRequest, "slipImageUrl required for QR payment")
			return
		}
		if req.Method == order.PaymentMethodCash {
			ok, err := sets.IsCashAccepted(c.Request.Context())
			if err != nil {
				fail(c, http.StatusInternalServerError, "Internal error")
				return
			}
			if !ok {
				fail(c, http.StatusConflict, "Cash payment not accepted")
				return
			}
		}

		refCode := order.GenerateRefCode(req.Method, time.Now())
		p, o, err := orders.CapturePayment(c.Request.Context(), req.OrderID, userID, req.Method, refCode, req.SlipImageURL)
		switch {
		case errors.Is(err, order.ErrNotFound):
			fail(c, http.StatusNotFound, "Order not found")
			return
		case errors.Is(err, order.ErrForbidden):
			fail(c, http.StatusForbidden, "Forbidden")
			return
		case errors.Is(err, order.ErrNotPendingPayment):
			fail(c, http.StatusConflict, "Order not pending payment")
			return
		case err != nil:
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment": p, "order": o})
	}
}

func listOrdersHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := orders.ListByCustomer(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func getOrderHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid id")
			return
		}
		o, err := orders.GetByID(c.Request.Context(), id)
		if err != nil {
			fail(c, http.StatusNotFound, "Order not found")
			return
		}
		if o.CustomerID != httpx.UserID(c) {
			fail(c, http.StatusForbidden, "Forbidden")
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// reorderHandler re-runs checkout against the original order's lines and
// address/fee snapshot. Availability is re-validated; prices are re-snapshotted
// at reorder time.
func reorderHandler(orders order.Repository, menus menu.Repository, users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := httpx.UserID(c)
		id, ok := idParam(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid id")
			return
		}
		prev, err := orders.GetByID(c.Request.Context(), id)
		if err != nil {
			fail(c, http.StatusNotFound, "Order not found")
			return
		}
		if prev.CustomerID != userID {
			fail(c, http.StatusForbidden, "Forbidden")
			return
		}

		lines := make([]order.CreateOrderItem, 0, len(prev.Items))
		for _, it := range prev.Items {
			if it.MenuItemID == nil {
				// source menu item deleted since
				fail(c, http.StatusConflict, "Some items are unavailable for reorder")
				return
			}
			lines = append(lines, order.CreateOrderItem{MenuItemID: *it.MenuItemID, Qty: it.Qty})
		}

		items, subtotal, err := buildOrderItems(c.Request.Context(), menus, lines)
		if errors.Is(err, errItemUnavailable) {
			fail(c, http.StatusConflict, "Some items are unavailable for reorder")
			return
		}
		if err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}

		fee, err := decimal.NewFromString(prev.DeliveryFee)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		u, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			fail(c, http.StatusNotFound, "User not found")
			return
		}

		o := &order.Order{
			OrderNo:               order.GenerateOrderNo(time.Now()),
			CustomerID:            userID,
			Status:                order.StatusPendingPayment,
			Subtotal:              subtotal.StringFixed(2),
			DeliveryFee:           fee.StringFixed(2),
			Total:                 subtotal.Add(fee).StringFixed(2),
			CustomerNameSnapshot:  u.Name,
			CustomerPhoneSnapshot: u.Phone,
			AddressSnapshot:       prev.AddressSnapshot,
			AddressID:             prev.AddressID,
		}
		if err := orders.Create(c.Request.Context(), o, items); err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

func cancelOrderHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid id")
			return
		}
		o, err := orders.CancelByCustomer(c.Request.Context(), id, httpx.UserID(c))
		switch {
		case errors.Is(err, order.ErrNotFound):
			fail(c, http.StatusNotFound, "Order not found")
			return
		case errors.Is(err, order.ErrForbidden):
			fail(c, http.StatusForbidden, "Forbidden")
			return
		case errors.Is(err, order.ErrNotCancellable):
			fail(c, http.StatusConflict, "Order cannot be cancelled after confirmation")
			return
		case err != nil:
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func merchantListOrdersHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter *order.Status
		if s := c.Query("status"); s != "" {
			st, ok := order.ParseStatus(s)
			if !ok {
				fail(c, http.StatusBadRequest, "Invalid status")
				return
			}
			filter = &st
		}
		out, err := orders.ListAll(c.Request.Context(), filter)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func merchantGetOrderHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid id")
			return
		}
		o, err := orders.GetByID(c.Request.Context(), id)
		if err != nil {
			fail(c, http.StatusNotFound, "Order not found")
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func runMerchantTransition(c *gin.Context, orders order.Repository, id int64, to order.Status) {
	actor := order.Actor{Role: auth.RoleMerchantAdmin, UserID: httpx.UserID(c)}
	o, err := orders.Transition(c.Request.Context(), id, to, actor)
	switch {
	case errors.Is(err, order.ErrNotFound):
		fail(c, http.StatusNotFound, "Order not found")
		return
	case errors.Is(err, order.ErrInvalidTransition):
		fail(c, http.StatusConflict, "Invalid status transition")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, "Internal error")
		return
	}
	c.JSON(http.StatusOK, o)
}

// merchantTransitionHandler serves the confirm/reject/cancel convenience
// routes; each is a thin call into the same guarded transition.
func merchantTransitionHandler(orders order.Repository, to order.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid id")
			return
		}
		runMerchantTransition(c, orders, id, to)
	}
}

func merchantUpdateStatusHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid id")
			return
		}
		var req order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
			fail(c, http.StatusBadRequest, "status required")
			return
		}
		to, ok := order.ParseStatus(req.Status)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid status")
			return
		}
		if !order.IsMerchantTarget(to) {
			fail(c, http.StatusForbidden, "Forbidden")
			return
		}
		runMerchantTransition(c, orders, id, to)
	}
}

func merchantDashboardHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

		stats, err := orders.Dashboard(c.Request.Context(), dayStart, monthStart)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
