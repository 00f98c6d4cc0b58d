package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/hellcat/store/internal/domain/catalog"
	"github.com/hellcat/store/internal/domain/order"
	"github.com/hellcat/store/internal/domain/shared"
	"github.com/hellcat/store/internal/infrastructure/latency"
	"github.com/hellcat/store/internal/infrastructure/metrics"
	"github.com/hellcat/store/internal/infrastructure/storage"
	"github.com/hellcat/store/internal/infrastructure/telemetry"
)

const (
	serviceName         = "OrderService"
	recentPurchaseLimit = 5
	declineReason       = "declined by payment provider"
	csvContentType      = "text/csv; charset=utf-8"
)

// ServiceConfig holds the dependencies of OrderService
type ServiceConfig struct {
	Orders      order.OrderRepository
	Products    catalog.ProductRepository
	Latency     latency.Waiter
	Outcomes    order.PaymentOutcomeSource
	Credentials order.CredentialGenerator
	// Idempotency is optional; without it Idempotency-Key headers are ignored
	Idempotency    shared.IdempotencyStore
	IdempotencyTTL time.Duration
	Transitions    order.TransitionPolicy
	EventPublisher shared.EventPublisher
	// Archiver is optional; when set CSV exports are also written to it
	Archiver storage.Archiver
	Metrics  *metrics.Metrics
	Clock    func() time.Time
	Logger   *zap.Logger
}

// OrderService handles checkout, payment and order administration
type OrderService struct {
	orders         order.OrderRepository
	products       catalog.ProductRepository
	latency        latency.Waiter
	outcomes       order.PaymentOutcomeSource
	credentials    order.CredentialGenerator
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	transitions    order.TransitionPolicy
	eventPublisher shared.EventPublisher
	archiver       storage.Archiver
	metrics        *metrics.Metrics
	now            func() time.Time
	logger         *zap.Logger

	// createMu serialises id allocation, payMu serialises payment settlement
	createMu sync.Mutex
	payMu    sync.Mutex
}

// NewOrderService creates a new OrderService
func NewOrderService(cfg ServiceConfig) *OrderService {
	s := &OrderService{
		orders:         cfg.Orders,
		products:       cfg.Products,
		latency:        cfg.Latency,
		outcomes:       cfg.Outcomes,
		credentials:    cfg.Credentials,
		idempotency:    cfg.Idempotency,
		idempotencyTTL: cfg.IdempotencyTTL,
		transitions:    cfg.Transitions,
		eventPublisher: cfg.EventPublisher,
		archiver:       cfg.Archiver,
		metrics:        cfg.Metrics,
		now:            cfg.Clock,
		logger:         cfg.Logger,
	}
	if s.latency == nil {
		s.latency = latency.Disabled()
	}
	if s.transitions == nil {
		s.transitions = order.PermissiveTransitions{}
	}
	if s.idempotencyTTL <= 0 {
		s.idempotencyTTL = shared.DefaultIdempotencyConfig().TTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// CreateOrder places a pending order for an available product
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "CreateOrder", attribute.Int64("product.id", req.ProductID))
	defer span.End()

	if err := s.latency.Wait(ctx, latency.CreateOrder); err != nil {
		return nil, err
	}

	if req.PaymentMethod != "" && !order.PaymentMethod(req.PaymentMethod).IsValid() {
		return nil, shared.NewValidationError("Unsupported payment method: " + req.PaymentMethod)
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	buyer := order.Buyer{Name: req.Buyer.Name, Email: req.Buyer.Email, Phone: req.Buyer.Phone}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	now := s.now()
	id, err := s.nextOrderID(ctx, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	o, err := order.NewOrder(id, product, buyer, now)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Create(ctx, o); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, o)
	s.logger.Info("Order created",
		zap.String("order_id", o.ID),
		zap.Int64("product_id", o.ProductID),
		zap.Int64("amount", o.Amount),
		zap.String("buyer", o.Buyer.RedactedName()),
	)

	resp := ToOrderResponse(o)
	return &resp, nil
}

// ProcessPayment settles a pending order. A missing order is reported
// before any outcome is drawn. On success the order is completed, the
// credentials are delivered and the product is marked sold out.
func (s *OrderService) ProcessPayment(ctx context.Context, orderID string, req PaymentRequest) (*PaymentResultResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "ProcessPayment", attribute.String("order.id", orderID))
	defer span.End()

	if err := s.latency.Wait(ctx, latency.ProcessPayment); err != nil {
		return nil, err
	}

	if req.PaymentMethod != "" && !order.PaymentMethod(req.PaymentMethod).IsValid() {
		return nil, shared.NewValidationError("Unsupported payment method: " + req.PaymentMethod)
	}

	s.payMu.Lock()
	defer s.payMu.Unlock()

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	claimed := false
	if req.IdempotencyKey != "" && s.idempotency != nil {
		ok, owner, err := s.idempotency.Claim(ctx, req.IdempotencyKey, orderID, s.idempotencyTTL)
		if err != nil {
			return nil, fmt.Errorf("claim idempotency key: %w", err)
		}
		if !ok {
			s.metrics.DuplicatePayment()
			if owner == orderID && o.IsCompleted() && o.PaymentID != nil && o.Credentials != nil {
				s.logger.Info("Payment replayed", zap.String("order_id", orderID))
				return &PaymentResultResponse{
					Success:     true,
					OrderID:     o.ID,
					ProductID:   o.ProductID,
					PaymentID:   *o.PaymentID,
					Credentials: toCredentialsResponse(*o.Credentials),
					Replayed:    true,
				}, nil
			}
			return nil, shared.ErrDuplicateRequest
		}
		claimed = true
	}

	result, err := s.settle(ctx, o)
	if err != nil {
		telemetry.RecordError(span, err)
		if claimed {
			if relErr := s.idempotency.Release(context.WithoutCancel(ctx), req.IdempotencyKey); relErr != nil {
				s.logger.Warn("Failed to release idempotency key", zap.String("order_id", orderID), zap.Error(relErr))
			}
		}
		return nil, err
	}
	return result, nil
}

func (s *OrderService) settle(ctx context.Context, o *order.Order) (*PaymentResultResponse, error) {
	if !o.Status.IsPayable() {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Cannot pay for order in status "+string(o.Status))
	}

	// a cancelled request is not a decline
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.outcomes.Approve(ctx, o) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		o.RecordPaymentFailure(declineReason)
		s.publishEvents(ctx, o)
		s.logger.Info("Payment declined", zap.String("order_id", o.ID))
		return nil, shared.NewDomainError(shared.CodePaymentFailed, shared.ErrPaymentFailed.Message)
	}

	now := s.now()
	credentials := s.credentials.Generate(o.Product.LoginType)
	paymentID := fmt.Sprintf("pay_%d", now.UnixMilli())
	if err := o.CompletePayment(paymentID, credentials, now); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, o)

	s.markSoldOut(ctx, o.ProductID)

	s.logger.Info("Payment completed",
		zap.String("order_id", o.ID),
		zap.String("payment_id", paymentID),
		zap.Int64("amount", o.Amount),
	)

	return &PaymentResultResponse{
		Success:     true,
		OrderID:     o.ID,
		ProductID:   o.ProductID,
		PaymentID:   paymentID,
		Credentials: toCredentialsResponse(credentials),
	}, nil
}

// markSoldOut flips the purchased product. A product deleted since checkout is skipped.
func (s *OrderService) markSoldOut(ctx context.Context, productID int64) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("Failed to load purchased product", zap.Int64("product_id", productID), zap.Error(err))
		}
		return
	}
	product.MarkSoldOut()
	if err := s.products.Save(ctx, product); err != nil {
		s.logger.Error("Failed to mark product sold out", zap.Int64("product_id", productID), zap.Error(err))
		return
	}
	s.publishEvents(ctx, product)
	s.logger.Info("Product sold out", zap.Int64("product_id", productID))
}

// GetOrders lists orders newest first, optionally filtered by search and status
func (s *OrderService) GetOrders(ctx context.Context, query OrderListQuery) (*OrderListResponse, error) {
	if err := s.latency.Wait(ctx, latency.GetOrders); err != nil {
		return nil, err
	}

	var status order.Status
	if query.Status != "" && !strings.EqualFold(query.Status, "all") {
		parsed, err := order.ParseStatus(query.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	all, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	term := strings.ToLower(strings.TrimSpace(query.Search))
	filtered := make([]order.Order, 0, len(all))
	for i := range all {
		o := &all[i]
		if status != "" && o.Status != status {
			continue
		}
		if term != "" && !matchesOrder(o, term) {
			continue
		}
		filtered = append(filtered, *o)
	}

	return &OrderListResponse{Orders: ToOrderResponses(filtered), Total: len(filtered)}, nil
}

func matchesOrder(o *order.Order, term string) bool {
	for _, field := range []string{o.ID, o.Buyer.Name, o.Buyer.Email, o.Product.Title} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// GetOrder returns a single order
func (s *OrderService) GetOrder(ctx context.Context, id string) (*OrderResponse, error) {
	if err := s.latency.Wait(ctx, latency.GetOrder); err != nil {
		return nil, err
	}

	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// UpdateOrderStatus overwrites an order status subject to the transition policy
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "UpdateOrderStatus",
		attribute.String("order.id", id),
		attribute.String("order.status", req.Status),
	)
	defer span.End()

	if err := s.latency.Wait(ctx, latency.UpdateOrderStatus); err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	s.payMu.Lock()
	defer s.payMu.Unlock()

	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := o.Status
	if err := o.ChangeStatus(status, s.transitions, s.now()); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, o)
	s.logger.Info("Order status changed",
		zap.String("order_id", o.ID),
		zap.String("from", string(from)),
		zap.String("to", string(o.Status)),
	)

	resp := ToOrderResponse(o)
	return &resp, nil
}

// ExportOrders flattens every order into CSV-ready rows
func (s *OrderService) ExportOrders(ctx context.Context) ([]ExportRow, error) {
	if err := s.latency.Wait(ctx, latency.ExportOrders); err != nil {
		return nil, err
	}

	all, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export orders: %w", err)
	}

	rows := make([]ExportRow, len(all))
	for i := range all {
		rows[i] = toExportRow(&all[i])
	}
	return rows, nil
}

// ExportOrdersCSV renders the export as a CSV file and archives it when an archiver is configured.
// An archive failure is logged and the file is still returned.
func (s *OrderService) ExportOrdersCSV(ctx context.Context) (*ExportFile, error) {
	rows, err := s.ExportOrders(ctx)
	if err != nil {
		return nil, err
	}

	file := &ExportFile{
		Filename: ExportFilename(s.now()),
		Content:  RenderCSV(rows),
		Rows:     len(rows),
	}

	if s.archiver != nil {
		location, err := s.archiver.Archive(ctx, file.Filename, csvContentType, file.Content)
		if err != nil {
			s.logger.Error("Failed to archive order export", zap.String("filename", file.Filename), zap.Error(err))
		} else {
			file.Location = location
			s.logger.Info("Order export archived", zap.String("location", location), zap.Int("rows", file.Rows))
		}
	}
	return file, nil
}

// GetRecentPurchases returns the latest completed orders with buyer names redacted
func (s *OrderService) GetRecentPurchases(ctx context.Context) ([]RecentPurchaseResponse, error) {
	if err := s.latency.Wait(ctx, latency.RecentPurchases); err != nil {
		return nil, err
	}

	completed, err := s.orders.FindCompleted(ctx, recentPurchaseLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent purchases: %w", err)
	}

	out := make([]RecentPurchaseResponse, len(completed))
	for i := range completed {
		o := &completed[i]
		out[i] = RecentPurchaseResponse{
			ID:          o.ID,
			ProductName: o.Product.Title,
			BuyerName:   o.Buyer.RedactedName(),
			Amount:      o.Amount,
			PurchasedAt: o.CreatedAt,
		}
	}
	return out, nil
}

// nextOrderID returns ORD-<millis>, adding a numeric suffix when that id is taken
func (s *OrderService) nextOrderID(ctx context.Context, now time.Time) (string, error) {
	base := fmt.Sprintf("ORD-%d", now.UnixMilli())
	id := base
	for n := 1; ; n++ {
		taken, err := s.orders.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check order id: %w", err)
		}
		if !taken {
			return id, nil
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

func (s *OrderService) publishEvents(ctx context.Context, src eventSource) {
	events := src.GetDomainEvents()
	src.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish order events", zap.Error(err))
	}
}
