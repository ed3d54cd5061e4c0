package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"olgish-cakes/internal/cache"
	"olgish-cakes/internal/domain"
	"olgish-cakes/internal/jsonld"
	"olgish-cakes/internal/metrics"
	"olgish-cakes/internal/repository"
	"olgish-cakes/internal/schema"

	"go.uber.org/zap"
)

const (
	// RecentReviewLimit caps the reviews embedded in a product document
	RecentReviewLimit = 5

	cacheKindProduct  = "product"
	cacheKindBusiness = "business"
	cacheKindCatalog  = "catalog"
)

// SchemaService builds structured-data documents from the catalog
type SchemaService interface {
	Product(ctx context.Context, slug string) (*schema.Product, error)
	ProductDocument(ctx context.Context, slug string) ([]byte, error)
	Catalog(ctx context.Context) ([]schema.Product, error)
	CatalogDocument(ctx context.Context) ([]byte, error)
	Breadcrumbs(ctx context.Context, slug string) (schema.BreadcrumbList, error)
	BusinessDocument(ctx context.Context) ([]byte, error)
	Preview(record domain.Cake, index int, stats domain.ReviewStats) Preview
	Validate(p *schema.Product) schema.ValidationResult
	CatalogReport(ctx context.Context) (*schema.CatalogReport, error)
	Invalidate(ctx context.Context, slug string) error
}

// Preview is a document built from an unsaved record together with its
// validation result.
type Preview struct {
	Schema     schema.Product          `json:"schema"`
	Validation schema.ValidationResult `json:"validation"`
}

// Option configures the schema service
type Option func(*schemaService)

// WithCache enables caching of rendered documents
func WithCache(c cache.SchemaCache) Option {
	return func(s *schemaService) {
		s.cache = c
	}
}

// WithClock sets the clock used for cache keys. It should match the
// builder's clock.
func WithClock(now func() time.Time) Option {
	return func(s *schemaService) {
		if now != nil {
			s.now = now
		}
	}
}

type schemaService struct {
	cakes      repository.CakeRepository
	categories repository.CategoryRepository
	reviews    repository.ReviewRepository
	builder    *schema.Builder
	validator  *schema.Validator
	cache      cache.SchemaCache
	logger     *zap.Logger
	now        func() time.Time
}

// NewSchemaService creates a new instance of SchemaService
func NewSchemaService(
	cakes repository.CakeRepository,
	categories repository.CategoryRepository,
	reviews repository.ReviewRepository,
	builder *schema.Builder,
	validator *schema.Validator,
	logger *zap.Logger,
	opts ...Option,
) SchemaService {
	s := &schemaService{
		cakes:      cakes,
		categories: categories,
		reviews:    reviews,
		builder:    builder,
		validator:  validator,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Product builds the document for the cake at slug. The persisted position
// is the SKU index so SKUs survive catalog reordering.
func (s *schemaService) Product(ctx context.Context, slug string) (*schema.Product, error) {
	cake, err := s.cakes.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	stats, err := s.statsFor(ctx, cake)
	if err != nil {
		return nil, err
	}

	p := s.builder.GenerateProductSchema(*cake, cake.Position, stats)
	metrics.SchemasGenerated.WithLabelValues("Product").Inc()
	return &p, nil
}

// ProductDocument returns the encoded Product document, from cache when possible
func (s *schemaService) ProductDocument(ctx context.Context, slug string) ([]byte, error) {
	return s.cached(ctx, cacheKindProduct, slug, func() (interface{}, error) {
		return s.Product(ctx, slug)
	})
}

// Catalog builds one document per cake in position order
func (s *schemaService) Catalog(ctx context.Context) ([]schema.Product, error) {
	cakes, err := s.cakes.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	products := make([]schema.Product, 0, len(cakes))
	for _, cake := range cakes {
		stats, err := s.statsFor(ctx, cake)
		if err != nil {
			return nil, err
		}
		products = append(products, s.builder.GenerateProductSchema(*cake, cake.Position, stats))
	}

	metrics.SchemasGenerated.WithLabelValues("Product").Add(float64(len(products)))
	return products, nil
}

// CatalogDocument returns the encoded ItemList of the catalog page
func (s *schemaService) CatalogDocument(ctx context.Context) ([]byte, error) {
	return s.cached(ctx, cacheKindCatalog, "cakes", func() (interface{}, error) {
		products, err := s.Catalog(ctx)
		if err != nil {
			return nil, err
		}
		metrics.SchemasGenerated.WithLabelValues("ItemList").Inc()
		return s.builder.GenerateItemListSchema(products), nil
	})
}

// Breadcrumbs builds Home > Cakes > Category > Cake for a product page.
// The category step is skipped for uncategorised cakes.
func (s *schemaService) Breadcrumbs(ctx context.Context, slug string) (schema.BreadcrumbList, error) {
	cake, err := s.cakes.FindBySlug(ctx, slug)
	if err != nil {
		return schema.BreadcrumbList{}, err
	}

	crumbs := []schema.Crumb{
		{Name: "Home", Path: "/"},
		{Name: s.builder.Settings().CategoryName, Path: "cakes"},
	}

	if cake.CategoryID != nil {
		category, err := s.categories.FindByID(ctx, *cake.CategoryID)
		switch {
		case err == nil:
			crumbs = append(crumbs, schema.Crumb{Name: category.Name, Path: "cakes/category/" + category.Slug})
		case errors.Is(err, repository.ErrCategoryNotFound):
			s.logger.Warn("Cake references missing category",
				zap.String("slug", slug),
				zap.String("category_id", cake.CategoryID.String()),
			)
		default:
			return schema.BreadcrumbList{}, fmt.Errorf("failed to load category: %w", err)
		}
	}

	crumbs = append(crumbs, schema.Crumb{Name: cake.Name})

	metrics.SchemasGenerated.WithLabelValues("BreadcrumbList").Inc()
	return s.builder.GenerateBreadcrumbSchema(crumbs), nil
}

// BusinessDocument returns the encoded Bakery document
func (s *schemaService) BusinessDocument(ctx context.Context) ([]byte, error) {
	return s.cached(ctx, cacheKindBusiness, "bakery", func() (interface{}, error) {
		stats, err := s.reviews.Stats(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load business review stats: %w", err)
		}
		metrics.SchemasGenerated.WithLabelValues("Bakery").Inc()
		return s.builder.GenerateBakerySchema(stats), nil
	})
}

// Preview builds and validates a record without touching storage
func (s *schemaService) Preview(record domain.Cake, index int, stats domain.ReviewStats) Preview {
	p := s.builder.GenerateProductSchema(record, index, stats)
	metrics.SchemasGenerated.WithLabelValues("Product").Inc()

	return Preview{
		Schema:     p,
		Validation: s.Validate(&p),
	}
}

// Validate checks a Product document and records the outcome
func (s *schemaService) Validate(p *schema.Product) schema.ValidationResult {
	res := s.validator.ValidateProductSchema(p)
	metrics.RecordValidation(res.IsValid, len(res.Errors))
	return res
}

// CatalogReport validates every document of the catalog as it would be served
func (s *schemaService) CatalogReport(ctx context.Context) (*schema.CatalogReport, error) {
	products, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	report := s.validator.ValidateCatalog(products)

	for _, issue := range report.Issues {
		metrics.RecordValidation(false, len(issue.Errors))
	}
	for i := 0; i < report.Valid; i++ {
		metrics.RecordValidation(true, 0)
	}
	metrics.DuplicateMPNs.Set(float64(len(report.Uniqueness.Duplicates)))

	s.logger.Info("Catalog schema report generated",
		zap.Int("total", report.Total),
		zap.Int("valid", report.Valid),
		zap.Int("duplicate_mpns", len(report.Uniqueness.Duplicates)),
	)

	return &report, nil
}

// Invalidate drops cached documents affected by a change to the cake at slug
func (s *schemaService) Invalidate(ctx context.Context, slug string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx, cacheKindProduct, slug); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, cacheKindCatalog, "cakes")
}

// statsFor prefers the cake's own reviews and falls back to the business
// totals while a cake has none.
func (s *schemaService) statsFor(ctx context.Context, cake *domain.Cake) (domain.ReviewStats, error) {
	stats, err := s.reviews.Stats(ctx, &cake.ID)
	if err != nil {
		return domain.ReviewStats{}, fmt.Errorf("failed to load review stats: %w", err)
	}

	if stats.Count == 0 {
		stats, err = s.reviews.Stats(ctx, nil)
		if err != nil {
			return domain.ReviewStats{}, fmt.Errorf("failed to load business review stats: %w", err)
		}
		return stats, nil
	}

	recent, err := s.reviews.Recent(ctx, &cake.ID, RecentReviewLimit)
	if err != nil {
		return domain.ReviewStats{}, fmt.Errorf("failed to load recent reviews: %w", err)
	}
	stats.Recent = recent

	return stats, nil
}

// cached serves kind/id from the cache or builds, encodes and stores it.
// Cache failures are logged and never fail the request.
func (s *schemaService) cached(ctx context.Context, kind, id string, build func() (interface{}, error)) ([]byte, error) {
	day := s.now()

	if s.cache != nil {
		data, err := s.cache.Get(ctx, kind, id, day)
		switch {
		case err == nil:
			metrics.RecordCacheLookup(true)
			return data, nil
		case errors.Is(err, cache.ErrCacheMiss):
			metrics.RecordCacheLookup(false)
		default:
			metrics.RecordCacheLookup(false)
			s.logger.Warn("Schema cache read failed", zap.String("kind", kind), zap.String("id", id), zap.Error(err))
		}
	}

	doc, err := build()
	if err != nil {
		return nil, err
	}

	data, err := jsonld.Marshal(doc)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, kind, id, day, data); err != nil {
			s.logger.Warn("Schema cache write failed", zap.String("kind", kind), zap.String("id", id), zap.Error(err))
		}
	}

	return data, nil
}
