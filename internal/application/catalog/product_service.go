package catalog

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/hellcat/store/internal/domain/catalog"
	"github.com/hellcat/store/internal/domain/shared"
	"github.com/hellcat/store/internal/infrastructure/latency"
	"github.com/hellcat/store/internal/infrastructure/telemetry"
)

const (
	defaultPage  = 1
	defaultLimit = 12
	pageDelta    = 2
	customRange  = "Custom"
	serviceName  = "ProductService"
)

// ProductServiceConfig holds the dependencies of ProductService
type ProductServiceConfig struct {
	Repo           catalog.ProductRepository
	Latency        latency.Waiter
	EventPublisher shared.EventPublisher
	FilterOptions  *catalog.FilterOptions
	DefaultLimit   int
	// SlicePages cuts the page window server side. When false the whole
	// filtered set is returned and page/limit are metadata only.
	SlicePages bool
	Logger     *zap.Logger
}

// ProductService handles catalog browsing and product administration
type ProductService struct {
	repo           catalog.ProductRepository
	latency        latency.Waiter
	eventPublisher shared.EventPublisher
	options        catalog.FilterOptions
	defaultLimit   int
	slicePages     bool
	logger         *zap.Logger

	// createMu keeps id allocation and insert together
	createMu sync.Mutex
}

// NewProductService creates a new ProductService
func NewProductService(cfg ProductServiceConfig) *ProductService {
	options := catalog.DefaultFilterOptions()
	if cfg.FilterOptions != nil {
		options = *cfg.FilterOptions
	}
	limit := cfg.DefaultLimit
	if limit <= 0 {
		limit = defaultLimit
	}
	waiter := cfg.Latency
	if waiter == nil {
		waiter = latency.Disabled()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ProductService{
		repo:           cfg.Repo,
		latency:        waiter,
		eventPublisher: cfg.EventPublisher,
		options:        options,
		defaultLimit:   limit,
		slicePages:     cfg.SlicePages,
		logger:         logger,
	}
}

// GetProducts returns the catalog filtered and sorted by the query
func (s *ProductService) GetProducts(ctx context.Context, query ProductListQuery) (*ProductListResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "GetProducts",
		attribute.String("catalog.search", query.Search),
		attribute.String("catalog.sort_by", query.SortBy),
	)
	defer span.End()

	if err := s.latency.Wait(ctx, latency.GetProducts); err != nil {
		return nil, err
	}

	criteria, err := s.criteria(query)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	all, err := s.repo.FindAll(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("list products: %w", err)
	}

	filtered := catalog.Apply(all, criteria)
	page := query.Page
	if page < 1 {
		page = defaultPage
	}
	limit := query.Limit
	if limit < 1 {
		limit = s.defaultLimit
	}

	visible := filtered
	if s.slicePages {
		visible = catalog.Page(filtered, page, limit)
	}

	info := shared.NewPageInfo(len(filtered), page, limit)
	span.SetAttributes(attribute.Int("catalog.total", len(filtered)))

	return &ProductListResponse{
		Products:   ToProductResponses(visible),
		Total:      len(filtered),
		Page:       page,
		Limit:      limit,
		Pagination: info,
		Pages:      shared.VisiblePages(page, info.TotalPages, pageDelta),
	}, nil
}

// GetProduct returns a single product
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "GetProduct", attribute.Int64("product.id", id))
	defer span.End()

	if err := s.latency.Wait(ctx, latency.GetProduct); err != nil {
		return nil, err
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetFilterOptions returns the choices offered by the filter bar
func (s *ProductService) GetFilterOptions(ctx context.Context) (*FilterOptionsResponse, error) {
	if err := s.latency.Wait(ctx, latency.GetFilterOptions); err != nil {
		return nil, err
	}

	sortOptions := make([]string, len(catalog.SortKeys))
	for i, key := range catalog.SortKeys {
		sortOptions[i] = string(key)
	}

	return &FilterOptionsResponse{
		Ranks:        append([]string(nil), s.options.Ranks...),
		LoginTypes:   append([]string(nil), s.options.LoginTypes...),
		Statuses:     append([]string(nil), s.options.Statuses...),
		PriceRanges:  toRangeResponses(s.options.PriceRanges),
		MythicCounts: toRangeResponses(s.options.MythicCounts),
		SortOptions:  sortOptions,
	}, nil
}

// AddProduct lists a new product with the next free id
func (s *ProductService) AddProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "AddProduct")
	defer span.End()

	if err := s.latency.Wait(ctx, latency.AddProduct); err != nil {
		return nil, err
	}

	product, err := s.createProduct(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, product)
	s.logger.Info("Product added",
		zap.Int64("product_id", product.ID),
		zap.String("title", product.Title),
		zap.Int64("price", product.Price),
	)

	resp := ToProductResponse(product)
	return &resp, nil
}

func (s *ProductService) createProduct(ctx context.Context, req CreateProductRequest) (*catalog.Product, error) {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate product id: %w", err)
	}

	product, err := catalog.NewProduct(id, req.attributes())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct merges the supplied fields into an existing product
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "UpdateProduct", attribute.Int64("product.id", id))
	defer span.End()

	if err := s.latency.Wait(ctx, latency.UpdateProduct); err != nil {
		return nil, err
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.patch(product)); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, product)
	s.logger.Info("Product updated", zap.Int64("product_id", product.ID))

	resp := ToProductResponse(product)
	return &resp, nil
}

// DeleteProduct removes a product from the catalog
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) (*DeleteProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "DeleteProduct", attribute.Int64("product.id", id))
	defer span.End()

	if err := s.latency.Wait(ctx, latency.DeleteProduct); err != nil {
		return nil, err
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	product.AddDomainEvent(catalog.NewProductDeletedEvent(product))
	s.publishEvents(ctx, product)
	s.logger.Info("Product deleted", zap.Int64("product_id", id))

	return &DeleteProductResponse{Success: true}, nil
}

// criteria translates a list query into domain criteria
func (s *ProductService) criteria(query ProductListQuery) (catalog.Criteria, error) {
	c := catalog.DefaultCriteria()
	c.Search = query.Search
	if query.Rank != "" {
		c.Rank = query.Rank
	}
	if query.LoginType != "" {
		c.LoginType = query.LoginType
	}
	if query.Status != "" {
		c.Status = query.Status
	}
	if query.SortBy != "" {
		c.SortBy = catalog.SortKey(query.SortBy)
	}

	price, err := resolveRange("price", query.PriceRange, query.PriceMin, query.PriceMax, s.options.PriceRange)
	if err != nil {
		return c, err
	}
	c.PriceRange = price

	mythics, err := resolveRange("mythic count", query.MythicCount, query.MythicMin, query.MythicMax, s.options.MythicCount)
	if err != nil {
		return c, err
	}
	c.MythicCount = mythics

	return c, nil
}

// resolveRange picks explicit bounds over a label. A nil result disables the filter.
func resolveRange(name, label string, lo, hi *int64, lookup func(string) (catalog.Range, bool)) (*catalog.Range, error) {
	if lo != nil || hi != nil {
		r := catalog.Range{Label: customRange, Max: hi}
		if lo != nil {
			r.Min = *lo
		}
		if hi != nil && *hi < r.Min {
			return nil, shared.NewValidationError(
				"Invalid " + name + " range: min " + strconv.FormatInt(r.Min, 10) + " exceeds max " + strconv.FormatInt(*hi, 10))
		}
		return &r, nil
	}
	if label == "" || label == catalog.All {
		return nil, nil
	}
	r, ok := lookup(label)
	if !ok {
		return nil, shared.NewValidationError("Unknown " + name + " range: " + label)
	}
	return &r, nil
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish product events",
			zap.Int64("product_id", product.ID),
			zap.Error(err),
		)
	}
}
