package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"food-delivery/models"
	"food-delivery/repositories"

	"github.com/shopspring/decimal"
)

const (
	defaultOrderTxTimeout = 10 * time.Second
	maxIdempotencyKeyLen  = 255
	notifyTimeout         = 30 * time.Second

	legacyMenuItemID = 1

	defaultHistoryLimit = 4
	maxHistoryLimit     = 50
	historyMonthLayout  = "January 2006"
)

var orderRequiredFields = []string{"user_id", "items", "delivery_address"}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) (replayed bool, err error)
	FindAll(ctx context.Context) ([]models.Order, error)
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	FindByUser(ctx context.Context, userID int64) ([]models.UserOrderRow, error)
	FindHistory(ctx context.Context, userID int64, f models.HistoryFilter) ([]models.Order, int, error)
	FindAllItems(ctx context.Context) ([]models.OrderItem, error)
	Delete(ctx context.Context, id int64) error
}

// ReplayCache answers repeated Idempotency-Key requests without a database round trip.
type ReplayCache interface {
	LookupOrder(ctx context.Context, userID int64, key string) (*models.Order, bool, error)
	RememberOrder(ctx context.Context, key string, order *models.Order) error
	ForgetOrder(ctx context.Context, orderID int64) error
}

type OrderNotifier interface {
	SendOrderConfirmation(toEmail string, order *models.Order) error
}

// OrderEvents receives every newly committed order. Replays are not published.
type OrderEvents interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
}

type UserLookup interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// OrderPolicy selects how incomplete order lines and totals are treated.
//
// With LegacyDefaults a line without menu_item_id is recorded against menu item 1,
// a line without price is recorded at 0, and total_amount is stored as sent (0 when
// absent). Otherwise every line must be complete and the total is computed from the
// lines; a caller total that disagrees is rejected.
type OrderPolicy struct {
	LegacyDefaults bool
	TxTimeout      time.Duration
}

type OrderService struct {
	orders   OrderStore
	policy   OrderPolicy
	logger   *slog.Logger
	replay   ReplayCache
	notifier OrderNotifier
	users    UserLookup
	events   OrderEvents

	notifications sync.WaitGroup
}

func NewOrderService(orders OrderStore, policy OrderPolicy, logger *slog.Logger) *OrderService {
	if policy.TxTimeout <= 0 {
		policy.TxTimeout = defaultOrderTxTimeout
	}
	return &OrderService{orders: orders, policy: policy, logger: logger}
}

func (s *OrderService) WithReplayCache(cache ReplayCache) *OrderService {
	s.replay = cache
	return s
}

func (s *OrderService) WithEvents(events OrderEvents) *OrderService {
	s.events = events
	return s
}

func (s *OrderService) WithNotifier(notifier OrderNotifier, users UserLookup) *OrderService {
	s.notifier = notifier
	s.users = users
	return s
}

// CreateOrder validates req and persists the order with all of its lines atomically.
// Validation failures are returned as *MissingFieldsError or *FieldError before any
// database work starts.
func (s *OrderService) CreateOrder(ctx context.Context, req models.CreateOrderRequest, idempotencyKey string) (*models.OrderResult, error) {
	if missing := missingOrderFields(req); len(missing) > 0 {
		return nil, &MissingFieldsError{Required: orderRequiredFields, Missing: missing}
	}

	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if len(idempotencyKey) > maxIdempotencyKeyLen {
		return nil, &FieldError{Field: "Idempotency-Key", Message: fmt.Sprintf("must be at most %d characters", maxIdempotencyKeyLen)}
	}

	order, err := s.buildOrder(req)
	if err != nil {
		return nil, err
	}
	order.IdempotencyKey = idempotencyKey

	if idempotencyKey != "" && s.replay != nil {
		cached, found, err := s.replay.LookupOrder(ctx, order.UserID, idempotencyKey)
		if err != nil {
			s.logger.Warn("idempotency cache lookup failed", "user_id", order.UserID, "error", err)
		}
		if found {
			return &models.OrderResult{Order: cached, Replayed: true}, nil
		}
	}

	// A client disconnect must not abort a transaction halfway through its
	// inserts; the timeout still bounds how long a session can be held.
	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.policy.TxTimeout)
	defer cancel()

	replayed, err := s.orders.Create(txCtx, order)
	if err != nil {
		s.logger.Error("order transaction failed",
			"user_id", order.UserID,
			"items", len(order.Items),
			"error", err,
		)
		return nil, fmt.Errorf("create order: %w", err)
	}

	if idempotencyKey != "" && s.replay != nil {
		if err := s.replay.RememberOrder(txCtx, idempotencyKey, order); err != nil {
			s.logger.Warn("idempotency cache store failed", "order_id", order.ID, "error", err)
		}
	}

	if replayed {
		s.logger.Info("order replayed", "order_id", order.ID, "user_id", order.UserID)
	} else {
		s.logger.Info("order created", "order_id", order.ID, "user_id", order.UserID, "items", len(order.Items))
		s.notify(order)
	}

	return &models.OrderResult{Order: order, Replayed: replayed}, nil
}

func missingOrderFields(req models.CreateOrderRequest) []string {
	missing := []string{}
	if req.UserID == 0 {
		missing = append(missing, "user_id")
	}
	if req.Items == nil {
		missing = append(missing, "items")
	}
	if strings.TrimSpace(req.DeliveryAddress) == "" {
		missing = append(missing, "delivery_address")
	}
	return missing
}

func (s *OrderService) buildOrder(req models.CreateOrderRequest) (*models.Order, error) {
	if req.UserID < 0 {
		return nil, &FieldError{Field: "user_id", Message: "must be greater than 0"}
	}

	order := &models.Order{
		UserID:          req.UserID,
		DeliveryAddress: req.DeliveryAddress,
		Items:           make([]models.OrderItem, 0, len(req.Items)),
	}

	if req.TotalAmount != nil {
		if err := checkCents("total_amount", *req.TotalAmount); err != nil {
			return nil, err
		}
	}

	computed := decimal.Zero
	for i, line := range req.Items {
		prefix := fmt.Sprintf("items[%d]", i)

		item, err := s.buildItem(prefix, line)
		if err != nil {
			return nil, err
		}

		order.Items = append(order.Items, item)
		computed = computed.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	switch {
	case s.policy.LegacyDefaults:
		if req.TotalAmount != nil {
			order.TotalAmount = *req.TotalAmount
		}
		if order.TotalAmount.IsNegative() {
			return nil, &FieldError{Field: "total_amount", Message: "must be greater than or equal to 0"}
		}
	case req.TotalAmount != nil && !req.TotalAmount.Equal(computed):
		return nil, &FieldError{
			Field:   "total_amount",
			Message: fmt.Sprintf("does not match the sum of the items (%s)", computed.StringFixed(2)),
		}
	default:
		order.TotalAmount = computed
	}

	return order, nil
}

func (s *OrderService) buildItem(prefix string, line models.CreateOrderItemRequest) (models.OrderItem, error) {
	if !s.policy.LegacyDefaults {
		if err := validate.Struct(line); err != nil {
			return models.OrderItem{}, fieldError(prefix, err)
		}
		if err := checkCents(prefix+".price", *line.Price); err != nil {
			return models.OrderItem{}, err
		}
		return models.OrderItem{MenuItemID: *line.MenuItemID, Quantity: line.Quantity, Price: *line.Price}, nil
	}

	if err := validate.Var(line.Quantity, "gt=0,lte=2147483647"); err != nil {
		return models.OrderItem{}, fieldError(prefix+".quantity", err)
	}

	item := models.OrderItem{MenuItemID: legacyMenuItemID, Quantity: line.Quantity}
	if line.MenuItemID != nil && *line.MenuItemID != 0 {
		item.MenuItemID = *line.MenuItemID
	}
	if line.Price != nil {
		item.Price = *line.Price
	}
	if item.Price.IsNegative() {
		return models.OrderItem{}, &FieldError{Field: prefix + ".price", Message: "must be greater than or equal to 0"}
	}
	if err := checkCents(prefix+".price", item.Price); err != nil {
		return models.OrderItem{}, err
	}
	return item, nil
}

// notify publishes the order event and sends the confirmation mail in the
// background. Failures are only logged.
func (s *OrderService) notify(order *models.Order) {
	mail := s.notifier != nil && s.users != nil
	if !mail && s.events == nil {
		return
	}

	snapshot := *order
	snapshot.Items = append([]models.OrderItem(nil), order.Items...)

	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if s.events != nil {
			if err := s.events.PublishOrderCreated(ctx, &snapshot); err != nil {
				s.logger.Warn("order event publish failed", "order_id", snapshot.ID, "error", err)
			}
		}
		if !mail {
			return
		}

		user, err := s.users.FindByID(ctx, snapshot.UserID)
		if err != nil {
			s.logger.Warn("order confirmation skipped", "order_id", snapshot.ID, "error", err)
			return
		}
		if err := s.notifier.SendOrderConfirmation(user.Email, &snapshot); err != nil {
			s.logger.Warn("order confirmation failed", "order_id", snapshot.ID, "error", err)
		}
	}()
}

// Wait blocks until every pending event and confirmation mail has been attempted.
func (s *OrderService) Wait() {
	s.notifications.Wait()
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.FindAll(ctx)
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID int64) ([]models.UserOrderRow, error) {
	return s.orders.FindByUser(ctx, userID)
}

// OrderHistory returns one page of a buyer's orders. month, when set, limits the
// page to orders placed in that calendar month (UTC) and is written like "January 2006".
func (s *OrderService) OrderHistory(ctx context.Context, userID int64, page, limit int, month string) ([]models.Order, models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	filter := models.HistoryFilter{Limit: limit, Offset: (page - 1) * limit}
	if month = strings.TrimSpace(month); month != "" {
		start, err := time.Parse(historyMonthLayout, month)
		if err != nil {
			return nil, models.Pagination{}, &FieldError{Field: "month", Message: "must look like " + historyMonthLayout}
		}
		filter.From = start
		filter.To = start.AddDate(0, 1, 0)
	}

	orders, total, err := s.orders.FindHistory(ctx, userID, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	return orders, models.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

func (s *OrderService) ListOrderItems(ctx context.Context) ([]models.OrderItem, error) {
	return s.orders.FindAllItems(ctx)
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	err := s.orders.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		s.logger.Error("delete order failed", "order_id", id, "error", err)
		return err
	}

	// A retry with the deleted order's key must not replay its id.
	if s.replay != nil {
		if err := s.replay.ForgetOrder(ctx, id); err != nil {
			s.logger.Warn("idempotency cache cleanup failed", "order_id", id, "error", err)
		}
	}
	return nil
}
