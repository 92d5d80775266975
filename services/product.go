package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-svc/cache"
	"catalog-svc/middleware"
	"catalog-svc/models"
	"catalog-svc/store"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const productCacheTTL = 5 * time.Minute

// ProductService is the catalog CRUD layer, with a read-through Redis
// cache on single-product lookups when Redis is configured.
type ProductService struct {
	products store.ProductStore
	rdb      *redis.Client // nil when Redis is not configured
	logger   *zap.Logger
}

func NewProductService(products store.ProductStore, rdb *redis.Client, logger *zap.Logger) *ProductService {
	return &ProductService{products: products, rdb: rdb, logger: logger}
}

func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	ctx, span := otel.Tracer("catalog-service").Start(ctx, "GetProducts")
	defer span.End()

	list, err := s.products.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list products: %w", err)
	}
	span.SetAttributes(attribute.Int("products.count", len(list)))
	return list, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	ctx, span := otel.Tracer("catalog-service").Start(ctx, "GetProduct")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", id))

	if s.rdb != nil {
		if data, err := cache.GetProduct(ctx, s.rdb, id); err == nil {
			var p models.Product
			if err := json.Unmarshal(data, &p); err == nil {
				span.SetAttributes(attribute.Bool("cache.hit", true))
				s.logger.Info("Cache hit", zap.Int64("product_id", id))
				return p, nil
			}
		}
		span.SetAttributes(attribute.Bool("cache.hit", false))
	}

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	if s.rdb != nil {
		if err := cache.SetProduct(ctx, s.rdb, p.ID, p, productCacheTTL); err != nil {
			s.logger.Warn("Failed to cache product", zap.Error(err), zap.Int64("product_id", p.ID))
		}
	}
	return p, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (models.Product, error) {
	ctx, span := otel.Tracer("catalog-service").Start(ctx, "CreateProduct")
	defer span.End()

	if req.Name == "" {
		return models.Product{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.Price < 0 {
		return models.Product{}, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	created, err := s.products.Create(ctx, models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		span.RecordError(err)
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}

	span.SetAttributes(attribute.Int64("product.id", created.ID))
	s.logger.Info("Product created",
		zap.String("trace_id", middleware.GetTraceID(ctx)),
		zap.Int64("product_id", created.ID),
		zap.String("name", created.Name),
	)
	return created, nil
}

// UpdateProduct overwrites only the fields the request provides. An
// empty name/description/category and a zero price mean "leave as is".
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req models.UpdateProductRequest) (models.Product, error) {
	ctx, span := otel.Tracer("catalog-service").Start(ctx, "UpdateProduct")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", id))

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.Price > 0 {
		p.Price = req.Price
	}
	if req.Category != "" {
		p.Category = req.Category
	}

	updated, err := s.products.Update(ctx, p)
	if err != nil {
		span.RecordError(err)
		return models.Product{}, fmt.Errorf("update product: %w", err)
	}

	s.invalidate(ctx, id)
	s.logger.Info("Product updated",
		zap.String("trace_id", middleware.GetTraceID(ctx)),
		zap.Int64("product_id", id),
	)
	return updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer("catalog-service").Start(ctx, "DeleteProduct")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", id))

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.logger.Info("Product deleted",
		zap.String("trace_id", middleware.GetTraceID(ctx)),
		zap.Int64("product_id", id),
	)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, id int64) {
	if s.rdb == nil {
		return
	}
	if err := cache.DeleteProduct(ctx, s.rdb, id); err != nil {
		s.logger.Warn("Failed to invalidate product cache", zap.Error(err), zap.Int64("product_id", id))
	}
}
