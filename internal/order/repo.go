package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrForbidden         = errors.New("order belongs to another customer")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotCancellable    = errors.New("order cannot be cancelled after confirmation")
	ErrNotPendingPayment = errors.New("order not pending payment")
)

type Repository interface {
	Create(ctx context.Context, o *Order, items []Item) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]Order, error)
	ListAll(ctx context.Context, status *Status) ([]Order, error)
	Transition(ctx context.Context, id int64, to Status, actor Actor) (*Order, error)
	CancelByCustomer(ctx context.Context, id, customerID int64) (*Order, error)
	CapturePayment(ctx context.Context, orderID, customerID int64, method, refCode, slipImageURL string) (*Payment, *Order, error)
	Dashboard(ctx context.Context, dayStart, monthStart time.Time) (*DashboardStats, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// Create persists the order, its items and the initial PENDING_PAYMENT log
// entry in one transaction. Partial writes never survive.
func (r *PGRepo) Create(ctx context.Context, o *Order, items []Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.QueryRow(ctx, `
		INSERT INTO orders (order_no, customer_user_id, status, subtotal, delivery_fee, total,
		                    customer_name_snapshot, customer_phone_snapshot, address_snapshot, address_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW())
		RETURNING id, created_at
	`, o.OrderNo, o.CustomerID, o.Status, o.Subtotal, o.DeliveryFee, o.Total,
		o.CustomerNameSnapshot, o.CustomerPhoneSnapshot, o.AddressSnapshot, o.AddressID).
		Scan(&o.ID, &o.CreatedAt); err != nil {
		return err
	}

	for i := range items {
		it := &items[i]
		it.OrderID = o.ID
		if err := tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, name_snapshot, price_snapshot, qty, total)
			VALUES ($1,$2,$3,$4,$5,$6)
			RETURNING id
		`, it.OrderID, it.MenuItemID, it.NameSnapshot, it.PriceSnapshot, it.Qty, it.Total).Scan(&it.ID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO order_status_logs (order_id, status, by_role, by_user_id, created_at)
		VALUES ($1,$2,'CUSTOMER',$3,NOW())
	`, o.ID, StatusPendingPayment, o.CustomerID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	o.Items = items
	return nil
}

const orderCols = `
	id, order_no, customer_user_id, status, subtotal::text, delivery_fee::text, total::text,
	customer_name_snapshot, customer_phone_snapshot, address_snapshot, address_id, created_at
`

func scanOrder(row pgx.Row, o *Order) error {
	return row.Scan(&o.ID, &o.OrderNo, &o.CustomerID, &o.Status, &o.Subtotal, &o.DeliveryFee, &o.Total,
		&o.CustomerNameSnapshot, &o.CustomerPhoneSnapshot, &o.AddressSnapshot, &o.AddressID, &o.CreatedAt)
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	if err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id), &o); err != nil {
		return nil, ErrNotFound
	}

	items, err := r.itemsFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	o.Items = items[id]

	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, status, by_role, by_user_id, created_at
		FROM order_status_logs WHERE order_id=$1 ORDER BY created_at ASC, id ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var l StatusLog
		if err := rows.Scan(&l.ID, &l.OrderID, &l.Status, &l.ByRole, &l.ByUserID, &l.CreatedAt); err != nil {
			return nil, err
		}
		o.StatusLogs = append(o.StatusLogs, l)
	}
	return &o, rows.Err()
}

func (r *PGRepo) ListByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+orderCols+` FROM orders WHERE customer_user_id=$1 ORDER BY created_at DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectOrders(ctx, rows)
}

func (r *PGRepo) ListAll(ctx context.Context, status *Status) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+orderCols+` FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectOrders(ctx, rows)
}

func (r *PGRepo) collectOrders(ctx context.Context, rows pgx.Rows) ([]Order, error) {
	var out []Order
	var ids []int64
	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}
	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

func (r *PGRepo) itemsFor(ctx context.Context, orderIDs []int64) (map[int64][]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, menu_item_id, name_snapshot, price_snapshot::text, qty, total::text
		FROM order_items WHERE order_id = ANY($1) ORDER BY id ASC
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]Item)
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.NameSnapshot, &it.PriceSnapshot, &it.Qty, &it.Total); err != nil {
			return nil, err
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

// Transition applies one table-guarded status change. The current status is
// re-read under a row lock so concurrent attempts on the same order serialize
// and the loser sees the committed status, not a stale one.
func (r *PGRepo) Transition(ctx context.Context, id int64, to Status, actor Actor) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current Status
	if err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&current); err != nil {
		return nil, ErrNotFound
	}
	if !CanTransition(current, to) {
		return nil, ErrInvalidTransition
	}
	if err := applyTransition(ctx, tx, id, to, actor); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// CancelByCustomer is the customer-initiated cancel path, restricted to
// PENDING_PAYMENT and PAID source states and to the owning customer.
func (r *PGRepo) CancelByCustomer(ctx context.Context, id, customerID int64) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current Status
	var owner int64
	if err := tx.QueryRow(ctx, `
		SELECT status, customer_user_id FROM orders WHERE id=$1 FOR UPDATE
	`, id).Scan(&current, &owner); err != nil {
		return nil, ErrNotFound
	}
	if owner != customerID {
		return nil, ErrForbidden
	}
	if !IsCustomerCancellable(current) {
		return nil, ErrNotCancellable
	}
	if err := applyTransition(ctx, tx, id, StatusCancelled, Actor{Role: "CUSTOMER", UserID: customerID}); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func applyTransition(ctx context.Context, tx pgx.Tx, id int64, to Status, actor Actor) error {
	if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, id, to); err != nil {
		return err
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO order_status_logs (order_id, status, by_role, by_user_id, created_at)
		VALUES ($1,$2,$3,$4,NOW())
	`, id, to, actor.Role, actor.UserID)
	return err
}

// CapturePayment records the payment and moves the order PENDING_PAYMENT ->
// PAID as one atomic unit. A retry of a successful capture fails the status
// re-check under the row lock; that, plus the UNIQUE payments.order_id, is the
// only de-duplication this path has.
func (r *PGRepo) CapturePayment(ctx context.Context, orderID, customerID int64, method, refCode, slipImageURL string) (*Payment, *Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current Status
	var owner int64
	var total string
	if err := tx.QueryRow(ctx, `
		SELECT status, customer_user_id, total::text FROM orders WHERE id=$1 FOR UPDATE
	`, orderID).Scan(&current, &owner, &total); err != nil {
		return nil, nil, ErrNotFound
	}
	if owner != customerID {
		return nil, nil, ErrForbidden
	}
	if current != StatusPendingPayment {
		return nil, nil, ErrNotPendingPayment
	}

	p := Payment{
		OrderID:      orderID,
		Method:       method,
		Amount:       total,
		Status:       "SUCCESS",
		RefCode:      refCode,
		SlipImageURL: slipImageURL,
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO payments (order_id, method, amount, status, paid_at, ref_code, slip_image_url)
		VALUES ($1,$2,$3,'SUCCESS',NOW(),$4,$5)
		RETURNING id, paid_at
	`, orderID, method, total, refCode, slipImageURL).Scan(&p.ID, &p.PaidAt); err != nil {
		return nil, nil, err
	}
	if err := applyTransition(ctx, tx, orderID, StatusPaid, Actor{Role: "CUSTOMER", UserID: customerID}); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	o, err := r.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return &p, o, nil
}

// Dashboard aggregates paid-or-later orders for the two time windows plus the
// top 5 item names by quantity. Empty data yields zeros, never an error.
func (r *PGRepo) Dashboard(ctx context.Context, dayStart, monthStart time.Time) (*DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	stats := &DashboardStats{}
	window := func(since time.Time, w *DashboardWindow) error {
		return r.db.QueryRow(ctx, `
			SELECT COUNT(*), COALESCE(SUM(total),0)::text
			FROM orders WHERE created_at >= $1 AND status <> $2
		`, since, StatusPendingPayment).Scan(&w.Orders, &w.Revenue)
	}
	if err := window(dayStart, &stats.Daily); err != nil {
		return nil, err
	}
	if err := window(monthStart, &stats.Monthly); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT name_snapshot, SUM(qty) FROM order_items
		GROUP BY name_snapshot ORDER BY SUM(qty) DESC LIMIT 5
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t TopItem
		if err := rows.Scan(&t.NameSnapshot, &t.Qty); err != nil {
			return nil, err
		}
		stats.TopItems = append(stats.TopItems, t)
	}
	return stats, rows.Err()
}
