package store

import (
	"context"
	"errors"

	"catalog-svc/models"
)

// ErrNotFound is returned when no record matches the given key.
var ErrNotFound = errors.New("record not found")

type ProductStore interface {
	Create(ctx context.Context, p models.Product) (models.Product, error)
	GetByID(ctx context.Context, id int64) (models.Product, error)
	// List returns all products ordered by id.
	List(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, p models.Product) (models.Product, error)
	Delete(ctx context.Context, id int64) error
}

type PaymentStore interface {
	Create(ctx context.Context, in models.PaymentIntent) (models.PaymentIntent, error)
	GetByIntentID(ctx context.Context, intentID string) (models.PaymentIntent, error)
	// List returns intents newest first, optionally filtered by
	// customer email.
	List(ctx context.Context, customerEmail string) ([]models.PaymentIntent, error)
	Update(ctx context.Context, in models.PaymentIntent) (models.PaymentIntent, error)
}

type ShipmentStore interface {
	Create(ctx context.Context, sh models.Shipment) (models.Shipment, error)
	GetByID(ctx context.Context, id int64) (models.Shipment, error)
	GetByTracking(ctx context.Context, trackingNumber string) (models.Shipment, error)
	// List returns shipments newest first, optionally filtered by the
	// destination address email.
	List(ctx context.Context, destinationEmail string) ([]models.Shipment, error)
	Update(ctx context.Context, sh models.Shipment) (models.Shipment, error)
}
