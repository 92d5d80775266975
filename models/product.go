package models

import "time"

type Product struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	Description         string     `json:"description"`
	Price               float64    `json:"price"`
	Category            string     `json:"category"`
	AIDescription       string     `json:"aiDescription,omitempty"`
	AIPositioning       string     `json:"aiPositioning,omitempty"`
	AIPricingAnalysis   string     `json:"aiPricingAnalysis,omitempty"`
	AISuggestedCategory string     `json:"aiSuggestedCategory,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	LastAnalyzedAt      *time.Time `json:"lastAnalyzedAt,omitempty"`
}

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

type UpdateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

// PriceQuote is the body of the standalone price-calculation endpoint.
type PriceQuote struct {
	ProductID   int64   `json:"productId"`
	Quantity    int     `json:"quantity"`
	TotalAmount float64 `json:"totalAmount"`
}
