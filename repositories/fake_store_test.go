package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"food-delivery/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// fakeStore is an in-memory stand-in for the orders and order_items tables. It
// implements both SessionPool and Querier so the order repository can run
// unchanged against it.
type fakeStore struct {
	mu sync.Mutex

	nextOrderID int64
	nextItemID  int64
	orders      map[int64]models.Order
	items       []models.OrderItem

	acquired int
	released int

	menuNames map[int64]string
	queryErr  error

	acquireErr  error
	beginErr    error
	commitErr   error
	orderErr    error
	failItemAt  int
	beforeOrder func(s *fakeStore)
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: map[int64]models.Order{}}
}

func (s *fakeStore) AcquireSession(ctx context.Context) (Session, error) {
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	s.mu.Lock()
	s.acquired++
	s.mu.Unlock()
	return &fakeSession{store: s}, nil
}

func (s *fakeStore) Begin(ctx context.Context) (pgx.Tx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return &fakeTx{store: s}, nil
}

func (s *fakeStore) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("fake: exec outside a transaction")
}

func (s *fakeStore) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case sql == selectOrdersSQL:
		return orderRows(s.newestFirst(func(models.Order) bool { return true })), nil
	case sql == selectOrderItemsSQL:
		return itemRows(s.itemsWhere(func(models.OrderItem) bool { return true })), nil
	case sql == selectItemsByOrderSQL:
		orderID := args[0].(int64)
		return itemRows(s.itemsWhere(func(it models.OrderItem) bool { return it.OrderID == orderID })), nil
	case sql == selectUserOrdersSQL:
		return s.userOrderRows(args[0].(int64)), nil
	case strings.Contains(sql, "LIMIT"):
		match := historyMatch(sql, args)
		orders := s.newestFirst(match)
		limit, offset := args[len(args)-2].(int), args[len(args)-1].(int)
		if offset > len(orders) {
			offset = len(orders)
		}
		end := min(offset+limit, len(orders))
		return orderRows(orders[offset:end]), nil
	default:
		return nil, fmt.Errorf("fake: unexpected query %q", sql)
	}
}

func (s *fakeStore) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case sql == selectOrderByKeySQL:
		userID, key := args[0].(int64), args[1].(string)
		for _, o := range s.orders {
			if o.UserID == userID && o.IdempotencyKey == key {
				return fakeRow{values: []any{o.ID, o.TotalAmount, o.DeliveryAddress, o.CreatedAt}}
			}
		}
		return fakeRow{err: pgx.ErrNoRows}
	case sql == selectOrderByIDSQL:
		if o, ok := s.orders[args[0].(int64)]; ok {
			return fakeRow{values: []any{o.ID, o.UserID, o.TotalAmount, o.DeliveryAddress, o.CreatedAt}}
		}
		return fakeRow{err: pgx.ErrNoRows}
	case strings.HasPrefix(sql, "SELECT COUNT(*) FROM orders"):
		return fakeRow{values: []any{len(s.newestFirst(historyMatch(sql, args)))}}
	default:
		return fakeRow{err: fmt.Errorf("fake: unexpected query %q", sql)}
	}
}

// newestFirst returns matching orders by created_at DESC, id DESC. Callers hold s.mu.
func (s *fakeStore) newestFirst(match func(models.Order) bool) []models.Order {
	orders := []models.Order{}
	for _, o := range s.orders {
		if match(o) {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
	return orders
}

func (s *fakeStore) itemsWhere(match func(models.OrderItem) bool) []models.OrderItem {
	items := []models.OrderItem{}
	for _, it := range s.items {
		if match(it) {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// userOrderRows joins orders, items and menu names; items whose menu item is
// unknown drop out as they would in the inner join.
func (s *fakeStore) userOrderRows(userID int64) *fakeRows {
	rows := &fakeRows{}
	for _, o := range s.newestFirst(func(o models.Order) bool { return o.UserID == userID }) {
		for _, it := range s.itemsWhere(func(it models.OrderItem) bool { return it.OrderID == o.ID }) {
			name, ok := s.menuNames[it.MenuItemID]
			if !ok {
				continue
			}
			rows.values = append(rows.values, []any{
				o.ID, o.UserID, o.TotalAmount, o.DeliveryAddress, o.CreatedAt,
				it.MenuItemID, it.Quantity, it.Price, name,
			})
		}
	}
	return rows
}

// historyMatch decodes the user and optional created_at range of a history query.
func historyMatch(sql string, args []any) func(models.Order) bool {
	userID := args[0].(int64)
	next := 1

	var from, to time.Time
	if strings.Contains(sql, "created_at >=") {
		from = args[next].(time.Time)
		next++
	}
	if strings.Contains(sql, "created_at <") {
		to = args[next].(time.Time)
	}

	return func(o models.Order) bool {
		if o.UserID != userID {
			return false
		}
		if !from.IsZero() && o.CreatedAt.Before(from) {
			return false
		}
		return to.IsZero() || o.CreatedAt.Before(to)
	}
}

// commitOrder stores an order directly, as if another connection had committed it.
func (s *fakeStore) commitOrder(o models.Order) models.Order {
	s.nextOrderID++
	o.ID = s.nextOrderID
	o.CreatedAt = time.Now()
	s.orders[o.ID] = o
	return o
}

func (s *fakeStore) snapshot() (map[int64]models.Order, []models.OrderItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make(map[int64]models.Order, len(s.orders))
	for id, o := range s.orders {
		orders[id] = o
	}
	return orders, append([]models.OrderItem(nil), s.items...)
}

func (s *fakeStore) sessions() (acquired, released int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acquired, s.released
}

type fakeSession struct {
	store    *fakeStore
	released bool
}

func (f *fakeSession) Begin(ctx context.Context) (pgx.Tx, error) {
	if f.released {
		return nil, errors.New("fake: session used after release")
	}
	return f.store.Begin(ctx)
}

func (f *fakeSession) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if f.released {
		return fakeRow{err: errors.New("fake: session used after release")}
	}
	return f.store.QueryRow(ctx, sql, args...)
}

func (f *fakeSession) Release() {
	if f.released {
		panic("fake: session released twice")
	}
	f.released = true
	f.store.mu.Lock()
	f.store.released++
	f.store.mu.Unlock()
}

// fakeTx buffers writes until Commit. Only the methods the repository calls
// are implemented; anything else panics through the nil embedded interface.
type fakeTx struct {
	pgx.Tx

	store       *fakeStore
	order       *models.Order
	items       []models.OrderItem
	itemInserts int
	deleteOrder int64
	closed      bool
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	switch sql {
	case insertOrderSQL:
		return t.insertOrder(args)
	case insertOrderItemSQL:
		return t.insertItem(args)
	default:
		return fakeRow{err: fmt.Errorf("fake: unexpected query %q", sql)}
	}
}

func (t *fakeTx) insertOrder(args []any) pgx.Row {
	s := t.store
	if s.orderErr != nil {
		return fakeRow{err: s.orderErr}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.beforeOrder != nil {
		s.beforeOrder(s)
	}

	userID := args[0].(int64)
	key, _ := args[3].(string)
	if key != "" {
		for _, o := range s.orders {
			if o.UserID == userID && o.IdempotencyKey == key {
				return fakeRow{err: &pgconn.PgError{Code: uniqueViolation, ConstraintName: idempotencyConstraint}}
			}
		}
	}

	s.nextOrderID++
	t.order = &models.Order{
		ID:              s.nextOrderID,
		UserID:          userID,
		TotalAmount:     args[1].(decimal.Decimal),
		DeliveryAddress: args[2].(string),
		IdempotencyKey:  key,
		CreatedAt:       time.Now(),
	}
	return fakeRow{values: []any{t.order.ID, t.order.CreatedAt}}
}

func (t *fakeTx) insertItem(args []any) pgx.Row {
	t.itemInserts++
	if t.itemInserts == t.store.failItemAt {
		return fakeRow{err: &pgconn.PgError{Code: foreignKeyViolation, ConstraintName: "order_items_menu_item_id_fkey"}}
	}
	if t.order == nil || args[0].(int64) != t.order.ID {
		return fakeRow{err: errors.New("fake: item does not reference the pending order")}
	}

	t.store.mu.Lock()
	t.store.nextItemID++
	id := t.store.nextItemID
	t.store.mu.Unlock()

	t.items = append(t.items, models.OrderItem{
		ID:         id,
		OrderID:    args[0].(int64),
		MenuItemID: args[1].(int64),
		Quantity:   args[2].(int),
		Price:      args[3].(decimal.Decimal),
	})
	return fakeRow{values: []any{id}}
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	id := args[0].(int64)

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	switch sql {
	case "DELETE FROM order_items WHERE order_id = $1":
		n := 0
		for _, it := range t.store.items {
			if it.OrderID == id {
				n++
			}
		}
		return pgconn.NewCommandTag(fmt.Sprintf("DELETE %d", n)), nil
	case "DELETE FROM orders WHERE id = $1":
		if _, ok := t.store.orders[id]; !ok {
			return pgconn.NewCommandTag("DELETE 0"), nil
		}
		t.deleteOrder = id
		return pgconn.NewCommandTag("DELETE 1"), nil
	default:
		return pgconn.CommandTag{}, fmt.Errorf("fake: unexpected exec %q", sql)
	}
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	if t.store.commitErr != nil {
		return t.store.commitErr
	}
	t.closed = true

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if t.order != nil {
		t.store.orders[t.order.ID] = *t.order
		t.store.items = append(t.store.items, t.items...)
	}
	if t.deleteOrder != 0 {
		delete(t.store.orders, t.deleteOrder)
		kept := t.store.items[:0]
		for _, it := range t.store.items {
			if it.OrderID != t.deleteOrder {
				kept = append(kept, it)
			}
		}
		t.store.items = kept
	}
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true
	t.order = nil
	t.items = nil
	return nil
}

// fakeRows serves buffered rows. Methods the repository does not call panic
// through the nil embedded interface.
type fakeRows struct {
	pgx.Rows

	values [][]any
	pos    int
	closed bool
}

func orderRows(orders []models.Order) *fakeRows {
	rows := &fakeRows{}
	for _, o := range orders {
		rows.values = append(rows.values, []any{o.ID, o.UserID, o.TotalAmount, o.DeliveryAddress, o.CreatedAt})
	}
	return rows
}

func itemRows(items []models.OrderItem) *fakeRows {
	rows := &fakeRows{}
	for _, it := range items {
		rows.values = append(rows.values, []any{it.ID, it.OrderID, it.MenuItemID, it.Quantity, it.Price})
	}
	return rows
}

func (r *fakeRows) Next() bool {
	if r.closed || r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return fakeRow{values: r.values[r.pos-1]}.Scan(dest...)
}

func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Close()     { r.closed = true }

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("fake: scan %d values into %d targets", len(r.values), len(dest))
	}

	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = r.values[i].(int64)
		case *int:
			*p = r.values[i].(int)
		case *string:
			*p = r.values[i].(string)
		case *time.Time:
			*p = r.values[i].(time.Time)
		case *decimal.Decimal:
			*p = r.values[i].(decimal.Decimal)
		default:
			return fmt.Errorf("fake: unsupported scan target %T", d)
		}
	}
	return nil
}

// seed stores an order and its items as already committed rows.
func (s *fakeStore) seed(o models.Order) models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextOrderID++
	o.ID = s.nextOrderID
	for i := range o.Items {
		s.nextItemID++
		o.Items[i].ID = s.nextItemID
		o.Items[i].OrderID = o.ID
		s.items = append(s.items, o.Items[i])
	}
	s.orders[o.ID] = o
	return o
}
