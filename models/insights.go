package models

import "time"

// CatalogInsights aggregates the whole catalog for the AI
// recommendation endpoint. Nothing here is persisted.
type CatalogInsights struct {
	TotalProducts  int            `json:"totalProducts"`
	CategoryCounts map[string]int `json:"categoryCounts"`
	AveragePrice   float64        `json:"averagePrice"`
	MinPrice       float64        `json:"minPrice"`
	MaxPrice       float64        `json:"maxPrice"`
	Recommendation string         `json:"recommendation"`
	GeneratedAt    time.Time      `json:"generatedAt"`
}

type AIInsightResponse struct {
	ProductID         int64     `json:"productId"`
	Description       string    `json:"description"`
	Positioning       string    `json:"positioning"`
	PricingAnalysis   string    `json:"pricingAnalysis"`
	SuggestedCategory string    `json:"suggestedCategory"`
	GeneratedAt       time.Time `json:"generatedAt"`
}

type BatchAnalyzeResult struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Status    string `json:"status"` // analyzed, failed
	Error     string `json:"error,omitempty"`
}

type BatchAnalyzeResponse struct {
	Total    int                  `json:"total"`
	Analyzed int                  `json:"analyzed"`
	Failed   int                  `json:"failed"`
	Results  []BatchAnalyzeResult `json:"results"`
}
