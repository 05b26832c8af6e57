package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/teetananch67-commits/Tanny/internal/address"
	"github.com/teetananch67-commits/Tanny/internal/httpx"
	"github.com/teetananch67-commits/Tanny/internal/menu"
	"github.com/teetananch67-commits/Tanny/internal/order"
	"github.com/teetananch67-commits/Tanny/internal/settings"
	"github.com/teetananch67-commits/Tanny/internal/user"
)

//
// ---------- STUBS & FAKES (in-memory repository implementations) ----------
//

// identity injects a resolved (userID, role) the way httpx.Auth would.
func identity(userID int64, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		httpx.SetIdentity(c, userID, role)
		c.Next()
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

// ===== menu.Repository =====

type stubMenuRepo struct {
	items      map[int64]menu.Item
	categories map[int64]menu.Category
	nextID     int64
}

func newStubMenuRepo() *stubMenuRepo {
	return &stubMenuRepo{items: map[int64]menu.Item{}, categories: map[int64]menu.Category{}}
}

func (s *stubMenuRepo) addItem(id int64, name, price string, available bool) {
	s.items[id] = menu.Item{ID: id, CategoryID: 1, Name: name, Price: price, IsAvailable: available}
}

func (s *stubMenuRepo) ListAvailable(ctx context.Context, recommendedOnly bool) ([]menu.Item, error) {
	var out []menu.Item
	for _, it := range s.items {
		if it.IsAvailable && (!recommendedOnly || it.IsRecommended) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *stubMenuRepo) FindAvailableByIDs(ctx context.Context, ids []int64) ([]menu.Item, error) {
	seen := map[int64]bool{}
	var out []menu.Item
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if it, ok := s.items[id]; ok && it.IsAvailable {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *stubMenuRepo) GetItemByID(ctx context.Context, id int64) (*menu.Item, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, menu.ErrNotFound
	}
	return &it, nil
}

func (s *stubMenuRepo) CreateItem(ctx context.Context, it *menu.Item) error {
	s.nextID++
	it.ID = s.nextID
	s.items[it.ID] = *it
	return nil
}

func (s *stubMenuRepo) UpdateItem(ctx context.Context, it *menu.Item) error {
	if _, ok := s.items[it.ID]; !ok {
		return menu.ErrNotFound
	}
	s.items[it.ID] = *it
	return nil
}

func (s *stubMenuRepo) DeleteItem(ctx context.Context, id int64) (bool, error) {
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *stubMenuRepo) ListCategories(ctx context.Context) ([]menu.Category, error) {
	var out []menu.Category
	for _, c := range s.categories {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubMenuRepo) CreateCategory(ctx context.Context, c *menu.Category) error {
	s.nextID++
	c.ID = s.nextID
	s.categories[c.ID] = *c
	return nil
}

func (s *stubMenuRepo) UpdateCategory(ctx context.Context, c *menu.Category) (bool, error) {
	if _, ok := s.categories[c.ID]; !ok {
		return false, nil
	}
	s.categories[c.ID] = *c
	return true, nil
}

func (s *stubMenuRepo) DeleteCategory(ctx context.Context, id int64) error {
	if _, ok := s.categories[id]; !ok {
		return menu.ErrNotFound
	}
	for _, it := range s.items {
		if it.CategoryID == id {
			return menu.ErrCategoryInUse
		}
	}
	delete(s.categories, id)
	return nil
}

// ===== order.Repository =====

// stubOrderRepo keeps orders in memory but runs the same transition guard the
// real repository does, so the handler tests exercise the actual table.
type stubOrderRepo struct {
	seq      int64
	orders   map[int64]*order.Order
	payments map[int64]*order.Payment
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: map[int64]*order.Order{}, payments: map[int64]*order.Payment{}}
}

func cloneOrder(o *order.Order) *order.Order {
	cp := *o
	cp.Items = append([]order.Item(nil), o.Items...)
	cp.StatusLogs = append([]order.StatusLog(nil), o.StatusLogs...)
	return &cp
}

func (s *stubOrderRepo) Create(ctx context.Context, o *order.Order, items []order.Item) error {
	s.seq++
	o.ID = s.seq
	o.CreatedAt = time.Now()
	for i := range items {
		items[i].OrderID = o.ID
		items[i].ID = int64(i + 1)
	}
	o.Items = items
	o.StatusLogs = []order.StatusLog{{
		OrderID: o.ID, Status: order.StatusPendingPayment, ByRole: "CUSTOMER", ByUserID: o.CustomerID, CreatedAt: o.CreatedAt,
	}}
	s.orders[o.ID] = cloneOrder(o)
	return nil
}

func (s *stubOrderRepo) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (s *stubOrderRepo) ListByCustomer(ctx context.Context, customerID int64) ([]order.Order, error) {
	var out []order.Order
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			out = append(out, *cloneOrder(o))
		}
	}
	return out, nil
}

func (s *stubOrderRepo) ListAll(ctx context.Context, status *order.Status) ([]order.Order, error) {
	var out []order.Order
	for _, o := range s.orders {
		if status == nil || o.Status == *status {
			out = append(out, *cloneOrder(o))
		}
	}
	return out, nil
}

func (s *stubOrderRepo) Transition(ctx context.Context, id int64, to order.Status, actor order.Actor) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	if !order.CanTransition(o.Status, to) {
		return nil, order.ErrInvalidTransition
	}
	o.Status = to
	o.StatusLogs = append(o.StatusLogs, order.StatusLog{
		OrderID: id, Status: to, ByRole: actor.Role, ByUserID: actor.UserID, CreatedAt: time.Now(),
	})
	return cloneOrder(o), nil
}

func (s *stubOrderRepo) CancelByCustomer(ctx context.Context, id, customerID int64) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	if o.CustomerID != customerID {
		return nil, order.ErrForbidden
	}
	if !order.IsCustomerCancellable(o.Status) {
		return nil, order.ErrNotCancellable
	}
	o.Status = order.StatusCancelled
	o.StatusLogs = append(o.StatusLogs, order.StatusLog{
		OrderID: id, Status: order.StatusCancelled, ByRole: "CUSTOMER", ByUserID: customerID, CreatedAt: time.Now(),
	})
	return cloneOrder(o), nil
}

func (s *stubOrderRepo) CapturePayment(ctx context.Context, orderID, customerID int64, method, refCode, slipImageURL string) (*order.Payment, *order.Order, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return nil, nil, order.ErrNotFound
	}
	if o.CustomerID != customerID {
		return nil, nil, order.ErrForbidden
	}
	if o.Status != order.StatusPendingPayment {
		return nil, nil, order.ErrNotPendingPayment
	}
	p := &order.Payment{
		ID: orderID, OrderID: orderID, Method: method, Amount: o.Total,
		Status: "SUCCESS", PaidAt: time.Now(), RefCode: refCode, SlipImageURL: slipImageURL,
	}
	s.payments[orderID] = p
	o.Status = order.StatusPaid
	o.StatusLogs = append(o.StatusLogs, order.StatusLog{
		OrderID: orderID, Status: order.StatusPaid, ByRole: "CUSTOMER", ByUserID: customerID, CreatedAt: time.Now(),
	})
	return p, cloneOrder(o), nil
}

func (s *stubOrderRepo) Dashboard(ctx context.Context, dayStart, monthStart time.Time) (*order.DashboardStats, error) {
	stats := &order.DashboardStats{
		Daily:   order.DashboardWindow{Revenue: "0"},
		Monthly: order.DashboardWindow{Revenue: "0"},
	}
	daily, monthly := decimal.Zero, decimal.Zero
	for _, o := range s.orders {
		if o.Status == order.StatusPendingPayment {
			continue
		}
		total, err := decimal.NewFromString(o.Total)
		if err != nil {
			return nil, err
		}
		if !o.CreatedAt.Before(dayStart) {
			stats.Daily.Orders++
			daily = daily.Add(total)
		}
		if !o.CreatedAt.Before(monthStart) {
			stats.Monthly.Orders++
			monthly = monthly.Add(total)
		}
	}
	stats.Daily.Revenue = daily.StringFixed(2)
	stats.Monthly.Revenue = monthly.StringFixed(2)

	qty := map[string]int64{}
	for _, o := range s.orders {
		for _, it := range o.Items {
			qty[it.NameSnapshot] += int64(it.Qty)
		}
	}
	for name, q := range qty {
		stats.TopItems = append(stats.TopItems, order.TopItem{NameSnapshot: name, Qty: q})
	}
	sort.Slice(stats.TopItems, func(i, j int) bool { return stats.TopItems[i].Qty > stats.TopItems[j].Qty })
	if len(stats.TopItems) > 5 {
		stats.TopItems = stats.TopItems[:5]
	}
	return stats, nil
}

// ===== address.Repository =====

type stubAddressRepo struct {
	seq   int64
	addrs map[int64]*address.Address
}

func newStubAddressRepo() *stubAddressRepo {
	return &stubAddressRepo{addrs: map[int64]*address.Address{}}
}

func (s *stubAddressRepo) clearDefaults(userID int64) {
	for _, a := range s.addrs {
		if a.UserID == userID {
			a.IsDefault = false
		}
	}
}

func (s *stubAddressRepo) ListByUser(ctx context.Context, userID int64) ([]address.Address, error) {
	var out []address.Address
	for _, a := range s.addrs {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *stubAddressRepo) GetByID(ctx context.Context, id int64) (*address.Address, error) {
	a, ok := s.addrs[id]
	if !ok {
		return nil, address.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *stubAddressRepo) Create(ctx context.Context, a *address.Address) error {
	if a.IsDefault {
		s.clearDefaults(a.UserID)
	}
	s.seq++
	a.ID = s.seq
	// strictly increasing creation times so promote-most-recent is decidable
	a.CreatedAt = time.Unix(s.seq, 0)
	cp := *a
	s.addrs[a.ID] = &cp
	return nil
}

func (s *stubAddressRepo) Update(ctx context.Context, a *address.Address) error {
	cur, ok := s.addrs[a.ID]
	if !ok {
		return address.ErrNotFound
	}
	if a.IsDefault {
		s.clearDefaults(a.UserID)
	}
	created := cur.CreatedAt
	cp := *a
	cp.CreatedAt = created
	s.addrs[a.ID] = &cp
	return nil
}

func (s *stubAddressRepo) Delete(ctx context.Context, id, userID int64) error {
	a, ok := s.addrs[id]
	if !ok {
		return address.ErrNotFound
	}
	if a.UserID != userID {
		return address.ErrForbidden
	}
	wasDefault := a.IsDefault
	delete(s.addrs, id)
	if wasDefault {
		var latest *address.Address
		for _, rest := range s.addrs {
			if rest.UserID != userID {
				continue
			}
			if latest == nil || rest.CreatedAt.After(latest.CreatedAt) {
				latest = rest
			}
		}
		if latest != nil {
			latest.IsDefault = true
		}
	}
	return nil
}

func (s *stubAddressRepo) SetDefault(ctx context.Context, id, userID int64) (*address.Address, error) {
	a, ok := s.addrs[id]
	if !ok {
		return nil, address.ErrNotFound
	}
	if a.UserID != userID {
		return nil, address.ErrForbidden
	}
	s.clearDefaults(userID)
	a.IsDefault = true
	cp := *a
	return &cp, nil
}

// ===== user.Repository =====

type stubUserRepo struct {
	seq   int64
	users map[int64]*user.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[int64]*user.User{}}
}

func (s *stubUserRepo) addUser(id int64, name, phone string) {
	s.users[id] = &user.User{ID: id, Name: name, Phone: phone, Role: "CUSTOMER"}
}

func (s *stubUserRepo) Create(ctx context.Context, u *user.User) error {
	for _, cur := range s.users {
		if cur.Email == u.Email {
			return user.ErrAlreadyExist
		}
	}
	s.seq++
	u.ID = s.seq + 1000
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

// ===== settings.Repository =====

type stubSettingsRepo struct {
	s *settings.Settings
}

func (r *stubSettingsRepo) Get(ctx context.Context) (*settings.Settings, error) { return r.s, nil }

func (r *stubSettingsRepo) Upsert(ctx context.Context, s *settings.Settings) error {
	s.ID = 1
	s.UpdatedAt = time.Now()
	r.s = s
	return nil
}

func (r *stubSettingsRepo) GetDeliveryFee(ctx context.Context) (decimal.Decimal, error) {
	if r.s == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(r.s.DeliveryFee)
}

func (r *stubSettingsRepo) IsCashAccepted(ctx context.Context) (bool, error) {
	if r.s == nil {
		return true, nil
	}
	return r.s.AcceptCash, nil
}
