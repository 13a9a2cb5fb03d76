package repositories

import (
	"context"
	"fmt"
	"strings"

	"food-delivery/models"

	"github.com/jackc/pgx/v5"
)

const (
	insertOrderSQL = `
		INSERT INTO orders (user_id, total_amount, delivery_address, idempotency_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	insertOrderItemSQL = `
		INSERT INTO order_items (order_id, menu_item_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	selectOrderByKeySQL = `
		SELECT id, total_amount, delivery_address, created_at
		FROM orders WHERE user_id = $1 AND idempotency_key = $2`

	selectOrdersSQL = `
		SELECT id, user_id, total_amount, delivery_address, created_at
		FROM orders ORDER BY created_at DESC, id DESC`

	selectOrderByIDSQL = `
		SELECT id, user_id, total_amount, delivery_address, created_at
		FROM orders WHERE id = $1`

	selectItemsByOrderSQL = `
		SELECT id, order_id, menu_item_id, quantity, price
		FROM order_items WHERE order_id = $1 ORDER BY id`

	selectOrderItemsSQL = `
		SELECT id, order_id, menu_item_id, quantity, price
		FROM order_items ORDER BY id`

	selectUserOrdersSQL = `
		SELECT o.id, o.user_id, o.total_amount, o.delivery_address, o.created_at,
			oi.menu_item_id, oi.quantity, oi.price, mi.name AS item_name
		FROM orders o
		JOIN order_items oi ON o.id = oi.order_id
		JOIN menu_items mi ON oi.menu_item_id = mi.id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.id DESC, oi.id`

	idempotencyConstraint = "orders_user_idempotency_key"
)

type OrderRepository struct {
	db       Querier
	sessions SessionPool
}

func NewOrderRepository(db Querier, sessions SessionPool) *OrderRepository {
	return &OrderRepository{db: db, sessions: sessions}
}

// Create persists the order and all of its items in one transaction on a
// dedicated session. When the order carries an idempotency key that the buyer
// already used, nothing is written: order is filled from the stored row and
// replayed is true.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) (replayed bool, err error) {
	session, err := r.sessions.AcquireSession(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire session: %w", err)
	}
	defer session.Release()

	if order.IdempotencyKey != "" {
		found, err := r.loadByKey(ctx, session, order)
		if err != nil || found {
			return found, err
		}
	}

	err = r.insert(ctx, session, order)
	if err != nil && order.IdempotencyKey != "" && isUniqueViolation(err, idempotencyConstraint) {
		// A concurrent request with the same key committed first.
		found, lookupErr := r.loadByKey(ctx, session, order)
		if lookupErr != nil {
			return false, lookupErr
		}
		if found {
			return true, nil
		}
	}
	if err != nil {
		return false, err
	}

	return false, nil
}

func (r *OrderRepository) insert(ctx context.Context, session Session, order *models.Order) error {
	tx, err := session.Begin(ctx)
	if err != nil {
		return storeError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var key any
	if order.IdempotencyKey != "" {
		key = order.IdempotencyKey
	}

	err = tx.QueryRow(ctx, insertOrderSQL,
		order.UserID, order.TotalAmount, order.DeliveryAddress, key,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return storeError("insert order", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		err = tx.QueryRow(ctx, insertOrderItemSQL,
			order.ID, item.MenuItemID, item.Quantity, item.Price,
		).Scan(&item.ID)
		if err != nil {
			return storeError(fmt.Sprintf("insert order item %d", i+1), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return storeError("commit order", err)
	}

	return nil
}

func (r *OrderRepository) loadByKey(ctx context.Context, session Session, order *models.Order) (bool, error) {
	err := session.QueryRow(ctx, selectOrderByKeySQL, order.UserID, order.IdempotencyKey).Scan(
		&order.ID, &order.TotalAmount, &order.DeliveryAddress, &order.CreatedAt,
	)
	if err != nil {
		err = storeError("lookup idempotency key", err)
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}

	order.Items = nil
	return true, nil
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, selectOrdersSQL)
	if err != nil {
		return nil, storeError("query orders", err)
	}
	return collectOrders(rows)
}

// FindHistory pages through one buyer's orders, newest first, and reports the
// total number of orders matching the filter.
func (r *OrderRepository) FindHistory(ctx context.Context, userID int64, f models.HistoryFilter) ([]models.Order, int, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	if !f.From.IsZero() {
		args = append(args, f.From)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		where = append(where, fmt.Sprintf("created_at < $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, storeError("count order history", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`
		SELECT id, user_id, total_amount, delivery_address, created_at
		FROM orders WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, whereClause, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, storeError("query order history", err)
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func collectOrders(rows pgx.Rows) ([]models.Order, error) {
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.DeliveryAddress, &o.CreatedAt); err != nil {
			return nil, storeError("scan order", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate orders", err)
	}
	return orders, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	o := &models.Order{}
	err := r.db.QueryRow(ctx, selectOrderByIDSQL, id).Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.DeliveryAddress, &o.CreatedAt,
	)
	if err != nil {
		return nil, storeError("get order", err)
	}

	items, err := r.queryItems(ctx, selectItemsByOrderSQL, id)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return o, nil
}

func (r *OrderRepository) FindAllItems(ctx context.Context) ([]models.OrderItem, error) {
	return r.queryItems(ctx, selectOrderItemsSQL)
}

func (r *OrderRepository) queryItems(ctx context.Context, query string, args ...any) ([]models.OrderItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError("query order items", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Quantity, &it.Price); err != nil {
			return nil, storeError("scan order item", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate order items", err)
	}
	return items, nil
}

func (r *OrderRepository) FindByUser(ctx context.Context, userID int64) ([]models.UserOrderRow, error) {
	rows, err := r.db.Query(ctx, selectUserOrdersSQL, userID)
	if err != nil {
		return nil, storeError("query user orders", err)
	}
	defer rows.Close()

	result := []models.UserOrderRow{}
	for rows.Next() {
		var row models.UserOrderRow
		err := rows.Scan(
			&row.ID, &row.UserID, &row.TotalAmount, &row.DeliveryAddress, &row.CreatedAt,
			&row.MenuItemID, &row.Quantity, &row.Price, &row.ItemName,
		)
		if err != nil {
			return nil, storeError("scan user order", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate user orders", err)
	}
	return result, nil
}

// Delete removes an order together with its items. The schema does not cascade.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storeError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM order_items WHERE order_id = $1", id); err != nil {
		return storeError("delete order items", err)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return storeError("delete order", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete order %d: %w", id, ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return storeError("commit delete", err)
	}
	return nil
}
