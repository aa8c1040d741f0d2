package service

import (
	"context"
	"time"

	"orders-ms/internal/events"
	"orders-ms/internal/metrics"
	"orders-ms/internal/model"
	"orders-ms/internal/product"
	"orders-ms/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	products  product.Client
	publisher events.Publisher
	metrics   *metrics.OrderMetrics
	logger    zerolog.Logger

	publishTimeout time.Duration
}

// DefaultPublishTimeout bounds how long a request waits on the event publisher after commit.
const DefaultPublishTimeout = 2 * time.Second

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	products product.Client,
	publisher events.Publisher,
	m *metrics.OrderMetrics,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		products:  products,
		publisher: publisher,
		metrics:   m,
		logger:    logger.With().Str("service", "order").Logger(),

		publishTimeout: DefaultPublishTimeout,
	}
}

// Create prices the requested items and persists the order in one transaction.
func (s *orderService) Create(ctx context.Context, req *model.CreateOrderRequest) (*model.Order, error) {
	productIDs := req.ProductIDs()

	products, err := s.validateProducts(ctx, productIDs)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Strs("product_ids", productIDs).
			Msg("product validation failed")
		return nil, s.fail("create", model.ErrOrderCreationFailed)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	order := &model.Order{
		ID:        uuid.New(),
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	items, total, count, err := newCatalog(products).priceItems(order.ID, req.Items)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Strs("product_ids", productIDs).
			Msg("order references unknown product")
		return nil, s.fail("create", model.ErrOrderCreationFailed)
	}
	order.TotalAmount = total
	order.TotalItems = count

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, s.fail("create", model.ErrOrderCreationFailed)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, s.fail("create", model.ErrOrderCreationFailed)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, s.fail("create", model.ErrOrderCreationFailed)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, s.fail("create", model.ErrOrderCreationFailed)
	}

	order.Items = items
	s.metrics.Created.Inc()

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("total_amount", order.TotalAmount.StringFixed(2)).
		Int("total_items", order.TotalItems).
		Msg("order created successfully")

	s.publish(ctx, events.NewOrderCreated(order))

	return order, nil
}

// FindAll returns one page of orders matching the query.
func (s *orderService) FindAll(ctx context.Context, query *model.OrderQuery) (*model.OrderPage, error) {
	filter := model.OrderFilter{
		Status: query.Status,
		Take:   query.Limit(),
		Skip:   query.Offset(),
	}

	total, err := s.orderRepo.Count(ctx, filter.Status)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count orders")
		return nil, s.fail("find_all", model.ErrOrderListingFailed)
	}

	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("take", filter.Take).
			Int("skip", filter.Skip).
			Msg("failed to list orders")
		return nil, s.fail("find_all", model.ErrOrderListingFailed)
	}

	if orders == nil {
		orders = []model.Order{}
	}

	return &model.OrderPage{
		Data: orders,
		Meta: model.NewPageMeta(total, filter),
	}, nil
}

// FindOne retrieves an order and resolves the product names of its items.
func (s *orderService) FindOne(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.findOne(ctx, "find_one", id, model.ErrOrderRetrievalFailed)
}

// ChangeStatus updates the status of an order unless it already has it.
// Both replies carry item names, like FindOne.
func (s *orderService) ChangeStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	order, err := s.findOne(ctx, "change_status", id, model.ErrOrderUpdateFailed)
	if err != nil {
		return nil, err
	}

	if order.Status == status {
		s.logger.Debug().
			Str("order_id", id.String()).
			Str("status", string(status)).
			Msg("status unchanged")
		return order, nil
	}

	previous := order.Status

	updated, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("status", string(status)).
			Msg("failed to update order status")
		return nil, s.fail("change_status", model.ErrOrderUpdateFailed)
	}

	if updated == nil {
		return nil, s.fail("change_status", model.NewOrderNotFoundError(id))
	}
	updated.Items = order.Items

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(previous)).
		Str("to", string(status)).
		Msg("order status changed")

	s.publish(ctx, events.NewOrderStatusChanged(updated, previous))

	return updated, nil
}

// findOne loads an order and attaches catalogue names to its items.
func (s *orderService) findOne(ctx context.Context, op string, id uuid.UUID, failed *model.DomainError) (*model.Order, error) {
	order, err := s.load(ctx, op, id, failed)
	if err != nil {
		return nil, err
	}

	productIDs := model.ProductIDs(order.Items)

	products, err := s.validateProducts(ctx, productIDs)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Msg("failed to retrieve product details")
		return nil, s.fail(op, failed)
	}

	if err := newCatalog(products).attachNames(order.Items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Msg("order references product missing from catalogue")
		return nil, s.fail(op, failed)
	}

	return order, nil
}

// load fetches an order, mapping absence to ORDER_NOT_FOUND and any other failure to failed.
func (s *orderService) load(ctx context.Context, op string, id uuid.UUID, failed *model.DomainError) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, s.fail(op, failed)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, s.fail(op, model.NewOrderNotFoundError(id))
	}

	return order, nil
}

func (s *orderService) validateProducts(ctx context.Context, ids []string) ([]model.Product, error) {
	start := time.Now()
	products, err := s.products.Validate(ctx, ids)
	s.metrics.ProductLookupMS.Observe(float64(time.Since(start).Milliseconds()))
	return products, err
}

// publish emits event under its own deadline, detached from the caller's
// cancellation. Failures are counted and logged only.
func (s *orderService) publish(ctx context.Context, event events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.EventFailures.Inc()
		s.logger.Error().
			Err(err).
			Str("type", event.Type).
			Str("order_id", event.OrderID).
			Msg("failed to publish order event")
	}
}

func (s *orderService) fail(op string, err *model.DomainError) error {
	s.metrics.Failures.WithLabelValues(op, err.Code).Inc()
	return err
}
