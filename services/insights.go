package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"catalog-svc/cache"
	"catalog-svc/circuitbreaker"
	"catalog-svc/llm"
	"catalog-svc/middleware"
	"catalog-svc/models"
	"catalog-svc/store"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// InsightService generates AI copy for products and the catalog. With
// no generator configured it falls back to deterministic templates, so
// every endpoint works without credentials.
type InsightService struct {
	products  store.ProductStore
	generator llm.Generator // nil selects mock mode
	breaker   *circuitbreaker.CircuitBreaker
	rdb       *redis.Client // nil when Redis is not configured
	logger    *zap.Logger
}

func NewInsightService(products store.ProductStore, generator llm.Generator, rdb *redis.Client, logger *zap.Logger) *InsightService {
	return &InsightService{
		products:  products,
		generator: generator,
		breaker:   circuitbreaker.NewCircuitBreaker(5, 30*time.Second),
		rdb:       rdb,
		logger:    logger,
	}
}

// Enabled reports whether a real text generator is configured.
func (s *InsightService) Enabled() bool { return s.generator != nil }

func (s *InsightService) mode() string {
	if s.generator == nil {
		return "mock"
	}
	return "real"
}

// GenerateMarketingDescription writes an AI description for the
// product and persists it alongside the analysis timestamp.
func (s *InsightService) GenerateMarketingDescription(ctx context.Context, productID int64) (string, error) {
	ctx, span := otel.Tracer("catalog-service").Start(ctx, "GenerateMarketingDescription")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID))

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return "", err
	}
	text, err := s.descriptionFor(ctx, p)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	p.AIDescription = text
	if _, err := s.saveAnalysis(ctx, p); err != nil {
		return "", err
	}
	middleware.RecordAIGeneration("marketing_description", s.mode())
	return text, nil
}

func (s *InsightService) AnalyzeProductPositioning(ctx context.Context, productID int64) (string, error) {
	ctx, span := otel.Tracer("catalog-service").Start(ctx, "AnalyzeProductPositioning")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID))

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return "", err
	}
	text, err := s.positioningFor(ctx, p)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	p.AIPositioning = text
	if _, err := s.saveAnalysis(ctx, p); err != nil {
		return "", err
	}
	middleware.RecordAIGeneration("positioning", s.mode())
	return text, nil
}

func (s *InsightService) AnalyzePricing(ctx context.Context, productID int64) (string, error) {
	ctx, span := otel.Tracer("catalog-service").Start(ctx, "AnalyzePricing")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID))

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return "", err
	}
	text, err := s.pricingFor(ctx, p)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	p.AIPricingAnalysis = text
	if _, err := s.saveAnalysis(ctx, p); err != nil {
		return "", err
	}
	middleware.RecordAIGeneration("pricing_analysis", s.mode())
	return text, nil
}

func (s *InsightService) SuggestCategory(ctx context.Context, productID int64) (string, error) {
	ctx, span := otel.Tracer("catalog-service").Start(ctx, "SuggestCategory")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID))

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return "", err
	}
	text, err := s.categoryFor(ctx, p)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	p.AISuggestedCategory = text
	if _, err := s.saveAnalysis(ctx, p); err != nil {
		return "", err
	}
	middleware.RecordAIGeneration("category_suggestion", s.mode())
	return text, nil
}

// GenerateProductInsights runs all four analyses in order and persists
// them together. The first failure aborts the whole call; nothing is
// written in that case.
func (s *InsightService) GenerateProductInsights(ctx context.Context, productID int64) (models.AIInsightResponse, error) {
	ctx, span := otel.Tracer("catalog-service").Start(ctx, "GenerateProductInsights")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID))

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return models.AIInsightResponse{}, err
	}

	description, err := s.descriptionFor(ctx, p)
	if err != nil {
		span.RecordError(err)
		return models.AIInsightResponse{}, err
	}
	positioning, err := s.positioningFor(ctx, p)
	if err != nil {
		span.RecordError(err)
		return models.AIInsightResponse{}, err
	}
	pricing, err := s.pricingFor(ctx, p)
	if err != nil {
		span.RecordError(err)
		return models.AIInsightResponse{}, err
	}
	category, err := s.categoryFor(ctx, p)
	if err != nil {
		span.RecordError(err)
		return models.AIInsightResponse{}, err
	}

	p.AIDescription = description
	p.AIPositioning = positioning
	p.AIPricingAnalysis = pricing
	p.AISuggestedCategory = category
	if _, err := s.saveAnalysis(ctx, p); err != nil {
		return models.AIInsightResponse{}, err
	}

	middleware.RecordAIGeneration("product_insights", s.mode())
	s.logger.Info("Product insights generated",
		zap.String("trace_id", middleware.GetTraceID(ctx)),
		zap.Int64("product_id", p.ID),
		zap.String("mode", s.mode()),
	)

	return models.AIInsightResponse{
		ProductID:         p.ID,
		Description:       description,
		Positioning:       positioning,
		PricingAnalysis:   pricing,
		SuggestedCategory: category,
		GeneratedAt:       time.Now(),
	}, nil
}

// GenerateCatalogInsights aggregates the whole catalog and attaches a
// recommendation built from the aggregate numbers.
func (s *InsightService) GenerateCatalogInsights(ctx context.Context) (models.CatalogInsights, error) {
	ctx, span := otel.Tracer("catalog-service").Start(ctx, "GenerateCatalogInsights")
	defer span.End()

	products, err := s.products.List(ctx)
	if err != nil {
		span.RecordError(err)
		return models.CatalogInsights{}, fmt.Errorf("list products: %w", err)
	}

	insights, categories := catalogStats(products)

	if s.generator == nil {
		insights.Recommendation = mockRecommendation(insights, categories)
	} else {
		rec, err := s.generate(ctx, catalogPrompt(insights, categories))
		if err != nil {
			span.RecordError(err)
			return models.CatalogInsights{}, err
		}
		insights.Recommendation = rec
	}
	insights.GeneratedAt = time.Now()

	span.SetAttributes(attribute.Int("products.count", insights.TotalProducts))
	middleware.RecordAIGeneration("catalog_insights", s.mode())
	return insights, nil
}

// BatchAnalyze runs GenerateProductInsights over every product and
// reports per-product success or failure. A failed product does not
// stop the batch.
func (s *InsightService) BatchAnalyze(ctx context.Context) (models.BatchAnalyzeResponse, error) {
	ctx, span := otel.Tracer("catalog-service").Start(ctx, "BatchAnalyze")
	defer span.End()

	products, err := s.products.List(ctx)
	if err != nil {
		span.RecordError(err)
		return models.BatchAnalyzeResponse{}, fmt.Errorf("list products: %w", err)
	}

	resp := models.BatchAnalyzeResponse{
		Total:   len(products),
		Results: make([]models.BatchAnalyzeResult, 0, len(products)),
	}
	for _, p := range products {
		result := models.BatchAnalyzeResult{ProductID: p.ID, Name: p.Name, Status: "analyzed"}
		if _, err := s.GenerateProductInsights(ctx, p.ID); err != nil {
			result.Status = "failed"
			result.Error = err.Error()
			resp.Failed++
		} else {
			resp.Analyzed++
		}
		resp.Results = append(resp.Results, result)
	}

	span.SetAttributes(
		attribute.Int("batch.analyzed", resp.Analyzed),
		attribute.Int("batch.failed", resp.Failed),
	)
	s.logger.Info("Batch analysis finished",
		zap.String("trace_id", middleware.GetTraceID(ctx)),
		zap.Int("total", resp.Total),
		zap.Int("analyzed", resp.Analyzed),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}

func (s *InsightService) descriptionFor(ctx context.Context, p models.Product) (string, error) {
	if s.generator == nil {
		return mockMarketingDescription(p), nil
	}
	return s.generate(ctx, descriptionPrompt(p))
}

func (s *InsightService) positioningFor(ctx context.Context, p models.Product) (string, error) {
	if s.generator == nil {
		return mockPositioning(p), nil
	}
	return s.generate(ctx, positioningPrompt(p))
}

func (s *InsightService) pricingFor(ctx context.Context, p models.Product) (string, error) {
	if s.generator == nil {
		return mockPricingAnalysis(p), nil
	}
	return s.generate(ctx, pricingPrompt(p))
}

func (s *InsightService) categoryFor(ctx context.Context, p models.Product) (string, error) {
	if s.generator == nil {
		return keywordCategory(p), nil
	}
	return s.generate(ctx, categoryPrompt(p))
}

// generate runs one real-mode LLM call through the circuit breaker.
func (s *InsightService) generate(ctx context.Context, prompt string) (string, error) {
	var out string
	err := s.breaker.Execute(ctx, func() error {
		text, err := s.generator.Generate(ctx, prompt)
		if err != nil {
			return err
		}
		out = text
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	return out, nil
}

// saveAnalysis stamps the analysis time, persists the product and
// drops any cached copy.
func (s *InsightService) saveAnalysis(ctx context.Context, p models.Product) (models.Product, error) {
	now := time.Now()
	p.LastAnalyzedAt = &now
	updated, err := s.products.Update(ctx, p)
	if err != nil {
		return models.Product{}, fmt.Errorf("save analysis: %w", err)
	}
	if s.rdb != nil {
		if err := cache.DeleteProduct(ctx, s.rdb, updated.ID); err != nil {
			s.logger.Warn("Failed to invalidate product cache", zap.Error(err), zap.Int64("product_id", updated.ID))
		}
	}
	return updated, nil
}

func positioningSegment(price float64) string {
	switch {
	case price < 50:
		return "budget-friendly"
	case price < 200:
		return "mid-range"
	default:
		return "premium"
	}
}

func pricingSegment(price float64) string {
	switch {
	case price < 50:
		return "budget"
	case price < 200:
		return "mid-range"
	default:
		return "premium"
	}
}

// keywordCategory suggests a category from fixed keyword matches on
// the name and description; with no match the current category stands.
func keywordCategory(p models.Product) string {
	text := strings.ToLower(p.Name + " " + p.Description)
	switch {
	case strings.Contains(text, "watch"), strings.Contains(text, "headphone"), strings.Contains(text, "phone"):
		return "Electronics"
	case strings.Contains(text, "yoga"), strings.Contains(text, "fitness"), strings.Contains(text, "sport"):
		return "Sports & Fitness"
	case strings.Contains(text, "book"), strings.Contains(text, "read"):
		return "Books & Media"
	}
	return p.Category
}

func mockMarketingDescription(p models.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Introducing %s", p.Name)
	if p.Category != "" {
		fmt.Fprintf(&b, ", a standout pick in %s", p.Category)
	}
	b.WriteString(". ")
	if p.Description != "" {
		b.WriteString(p.Description)
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "Available now at $%.2f.", p.Price)
	return b.String()
}

func mockPositioning(p models.Product) string {
	category := p.Category
	if category == "" {
		category = "general merchandise"
	}
	return fmt.Sprintf("%s sits in the %s segment of the %s market, competing on value and everyday reliability rather than flagship features.",
		p.Name, positioningSegment(p.Price), category)
}

func mockPricingAnalysis(p models.Product) string {
	return fmt.Sprintf("At $%.2f, %s is a %s offering. The price point leaves room for promotional discounts while remaining competitive in its segment.",
		p.Price, p.Name, pricingSegment(p.Price))
}

func mockRecommendation(stats models.CatalogInsights, categories []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your catalog has %d products across %d categories", stats.TotalProducts, len(stats.CategoryCounts))
	if len(categories) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(categories, ", "))
	}
	fmt.Fprintf(&b, ", with prices from $%.2f to $%.2f averaging $%.2f.\n\n", stats.MinPrice, stats.MaxPrice, stats.AveragePrice)
	b.WriteString("Recommendations:\n")
	b.WriteString("- Fill price gaps between your cheapest and most expensive items\n")
	b.WriteString("- Add seasonal promotions for slower categories\n")
	b.WriteString("- Bundle complementary products to raise average order value")
	return b.String()
}

// catalogStats aggregates counts and prices. The returned slice lists
// categories in first-occurrence order, which the recommendation text
// uses; an empty catalog yields zeros throughout.
func catalogStats(products []models.Product) (models.CatalogInsights, []string) {
	stats := models.CatalogInsights{
		TotalProducts:  len(products),
		CategoryCounts: make(map[string]int),
	}
	var categories []string
	if len(products) == 0 {
		return stats, categories
	}

	var sum float64
	lo, hi := products[0].Price, products[0].Price
	for _, p := range products {
		category := p.Category
		if category == "" {
			category = "Uncategorized"
		}
		if _, seen := stats.CategoryCounts[category]; !seen {
			categories = append(categories, category)
		}
		stats.CategoryCounts[category]++

		sum += p.Price
		if p.Price < lo {
			lo = p.Price
		}
		if p.Price > hi {
			hi = p.Price
		}
	}

	stats.AveragePrice = round2(sum / float64(len(products)))
	stats.MinPrice = lo
	stats.MaxPrice = hi
	return stats, categories
}

func descriptionPrompt(p models.Product) string {
	return fmt.Sprintf(`Write a concise marketing description for this product.

Name: %s
Description: %s
Price: $%.2f
Category: %s

Keep it under 100 words and highlight what makes it worth buying.`,
		p.Name, p.Description, p.Price, p.Category)
}

func positioningPrompt(p models.Product) string {
	return fmt.Sprintf(`Analyze the market positioning of this product.

Name: %s
Description: %s
Price: $%.2f
Category: %s

Cover the target customer, the price segment and how it compares to typical alternatives.`,
		p.Name, p.Description, p.Price, p.Category)
}

func pricingPrompt(p models.Product) string {
	return fmt.Sprintf(`Analyze the pricing of this product.

Name: %s
Description: %s
Price: $%.2f
Category: %s

State whether the price fits the product and suggest an adjustment if it does not.`,
		p.Name, p.Description, p.Price, p.Category)
}

func categoryPrompt(p models.Product) string {
	return fmt.Sprintf(`Suggest the best catalog category for this product.

Name: %s
Description: %s
Current category: %s

Reply with only the category name.`,
		p.Name, p.Description, p.Category)
}

func catalogPrompt(stats models.CatalogInsights, categories []string) string {
	return fmt.Sprintf(`You are advising an e-commerce merchant. Their catalog has %d products across these categories: %s. Prices range from $%.2f to $%.2f with an average of $%.2f.

Give three short recommendations to improve the catalog.`,
		stats.TotalProducts, strings.Join(categories, ", "), stats.MinPrice, stats.MaxPrice, stats.AveragePrice)
}
