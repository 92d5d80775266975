package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"catalog-svc/kafka"
	"catalog-svc/middleware"
	"catalog-svc/models"
	"catalog-svc/store"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const maxPackageWeight = 150.0

// ShippingService quotes rates across the carrier matrix and manages
// the shipment lifecycle. All carrier behavior is synthesized; no real
// carrier API is called.
type ShippingService struct {
	shipments store.ShipmentStore
	producer  sarama.SyncProducer // nil when Kafka is not configured
	topic     string
	logger    *zap.Logger
}

func NewShippingService(shipments store.ShipmentStore, producer sarama.SyncProducer, topic string, logger *zap.Logger) *ShippingService {
	return &ShippingService{
		shipments: shipments,
		producer:  producer,
		topic:     topic,
		logger:    logger,
	}
}

func validateAddress(a models.Address, field string) error {
	if a.Street == "" || a.City == "" || a.State == "" || a.PostalCode == "" {
		return fmt.Errorf("%w: %s requires street, city, state and postalCode", ErrValidation, field)
	}
	return nil
}

func validateShipmentInput(from, to models.Address, dims models.Dimensions) error {
	if err := validateAddress(from, "fromAddress"); err != nil {
		return err
	}
	if err := validateAddress(to, "toAddress"); err != nil {
		return err
	}
	if dims.Length <= 0 || dims.Width <= 0 || dims.Height <= 0 || dims.Weight <= 0 {
		return fmt.Errorf("%w: dimensions must all be positive", ErrValidation)
	}
	if dims.Weight > maxPackageWeight {
		return fmt.Errorf("%w: weight exceeds %.0f lb limit", ErrValidation, maxPackageWeight)
	}
	return nil
}

// GetShippingRates quotes every carrier and speed combination for the
// package, cheapest first. Ties keep the carrier-major table order.
func (s *ShippingService) GetShippingRates(ctx context.Context, from, to models.Address, dims models.Dimensions) ([]models.ShippingRate, error) {
	_, span := otel.Tracer("catalog-service").Start(ctx, "GetShippingRates")
	defer span.End()

	if err := validateShipmentInput(from, to, dims); err != nil {
		return nil, err
	}

	now := time.Now()
	rates := make([]models.ShippingRate, 0, len(models.Carriers)*len(models.Speeds))
	for _, carrier := range models.Carriers {
		for _, speed := range models.Speeds {
			days := transitDays(speed)
			rates = append(rates, models.ShippingRate{
				Carrier:           carrier,
				Speed:             speed,
				ServiceName:       serviceLabel(carrier, speed),
				Cost:              shippingCost(carrier, speed, dims.Weight),
				Currency:          "usd",
				EstimatedDays:     days,
				EstimatedDelivery: now.AddDate(0, 0, days),
			})
		}
	}

	sort.SliceStable(rates, func(i, j int) bool { return rates[i].Cost < rates[j].Cost })

	span.SetAttributes(attribute.Int("rates.count", len(rates)))
	return rates, nil
}

// CreateShipment validates the request, prices it with the same
// formula the rate quote uses, and persists a labeled shipment.
func (s *ShippingService) CreateShipment(ctx context.Context, req models.CreateShipmentRequest) (models.ShipmentResponse, error) {
	ctx, span := otel.Tracer("catalog-service").Start(ctx, "CreateShipment")
	defer span.End()

	if err := validateShipmentInput(req.FromAddress, req.ToAddress, req.Dimensions); err != nil {
		return models.ShipmentResponse{}, err
	}

	now := time.Now()
	tracking := newTrackingNumber(req.Carrier)

	shipment := models.Shipment{
		TrackingNumber:    tracking,
		Carrier:           req.Carrier,
		Speed:             req.Speed,
		Status:            models.StatusLabelGenerated,
		PaymentIntentID:   req.PaymentIntentID,
		FromAddress:       req.FromAddress,
		ToAddress:         req.ToAddress,
		Dimensions:        req.Dimensions,
		Cost:              shippingCost(req.Carrier, req.Speed, req.Dimensions.Weight),
		Currency:          "usd",
		LabelURL:          labelURL(tracking),
		CreatedAt:         now,
		EstimatedDelivery: now.AddDate(0, 0, transitDays(req.Speed)),
		Notes:             req.Notes,
	}

	created, err := s.shipments.Create(ctx, shipment)
	if err != nil {
		span.RecordError(err)
		return models.ShipmentResponse{}, fmt.Errorf("create shipment: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("shipment.id", created.ID),
		attribute.String("shipment.tracking_number", created.TrackingNumber),
	)
	middleware.RecordShipmentCreated(string(created.Carrier))
	s.publishEvent(ctx, created, "shipment_created")

	s.logger.Info("Shipment created",
		zap.String("trace_id", middleware.GetTraceID(ctx)),
		zap.Int64("shipment_id", created.ID),
		zap.String("tracking_number", created.TrackingNumber),
		zap.String("carrier", string(created.Carrier)),
		zap.Float64("cost", created.Cost),
	)

	return models.ShipmentResponse{
		ShipmentID:        created.ID,
		TrackingNumber:    created.TrackingNumber,
		Carrier:           created.Carrier,
		Status:            created.Status,
		Cost:              created.Cost,
		Currency:          created.Currency,
		LabelURL:          created.LabelURL,
		EstimatedDelivery: created.EstimatedDelivery,
	}, nil
}

func (s *ShippingService) GetShipment(ctx context.Context, id int64) (models.Shipment, error) {
	return s.shipments.GetByID(ctx, id)
}

func (s *ShippingService) GetShipmentByTracking(ctx context.Context, trackingNumber string) (models.Shipment, error) {
	return s.shipments.GetByTracking(ctx, trackingNumber)
}

// GetTrackingUpdates synthesizes an event history from the shipment's
// current status. Only the linear delivery milestones produce events;
// a cancelled or failed shipment reports nothing past label creation.
func (s *ShippingService) GetTrackingUpdates(ctx context.Context, trackingNumber string) ([]models.TrackingUpdate, error) {
	ctx, span := otel.Tracer("catalog-service").Start(ctx, "GetTrackingUpdates")
	defer span.End()

	sh, err := s.shipments.GetByTracking(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}

	origin := cityState(sh.FromAddress)
	destination := cityState(sh.ToAddress)

	updates := []models.TrackingUpdate{{
		TrackingNumber: sh.TrackingNumber,
		Status:         models.StatusLabelGenerated,
		Location:       origin,
		Timestamp:      sh.CreatedAt,
		Description:    "Shipping label generated",
	}}

	t := sh.CreatedAt
	if sh.Status.ReachedAtLeast(models.StatusPickedUp) {
		t = t.Add(4 * time.Hour)
		updates = append(updates, models.TrackingUpdate{
			TrackingNumber: sh.TrackingNumber,
			Status:         models.StatusPickedUp,
			Location:       origin,
			Timestamp:      t,
			Description:    "Package picked up by carrier",
		})
	}
	if sh.Status.ReachedAtLeast(models.StatusInTransit) {
		t = t.Add(24 * time.Hour)
		updates = append(updates, models.TrackingUpdate{
			TrackingNumber: sh.TrackingNumber,
			Status:         models.StatusInTransit,
			Location:       fmt.Sprintf("%s sorting facility", sh.Carrier),
			Timestamp:      t,
			Description:    "Package in transit to destination",
		})
	}
	if sh.Status.ReachedAtLeast(models.StatusOutForDelivery) {
		t = t.Add(24 * time.Hour)
		updates = append(updates, models.TrackingUpdate{
			TrackingNumber: sh.TrackingNumber,
			Status:         models.StatusOutForDelivery,
			Location:       destination,
			Timestamp:      t,
			Description:    "Out for delivery",
		})
	}
	if sh.Status == models.StatusDelivered {
		t = t.Add(6 * time.Hour)
		updates = append(updates, models.TrackingUpdate{
			TrackingNumber: sh.TrackingNumber,
			Status:         models.StatusDelivered,
			Location:       destination,
			Timestamp:      t,
			Description:    "Delivered",
		})
	}

	span.SetAttributes(attribute.Int("updates.count", len(updates)))
	return updates, nil
}

// CancelShipment moves a shipment to Cancelled. Terminal shipments
// cannot be cancelled; cancelling twice fails the second time.
func (s *ShippingService) CancelShipment(ctx context.Context, id int64) (models.Shipment, error) {
	ctx, span := otel.Tracer("catalog-service").Start(ctx, "CancelShipment")
	defer span.End()

	sh, err := s.shipments.GetByID(ctx, id)
	if err != nil {
		return models.Shipment{}, err
	}

	if sh.Status.Terminal() {
		if sh.Status == models.StatusCancelled {
			return models.Shipment{}, fmt.Errorf("%w: shipment already cancelled", ErrIllegalState)
		}
		return models.Shipment{}, fmt.Errorf("%w: cannot cancel a %s shipment", ErrIllegalState, strings.ToLower(string(sh.Status)))
	}

	sh.Status = models.StatusCancelled
	updated, err := s.shipments.Update(ctx, sh)
	if err != nil {
		span.RecordError(err)
		return models.Shipment{}, fmt.Errorf("cancel shipment: %w", err)
	}

	s.publishEvent(ctx, updated, "shipment_cancelled")
	s.logger.Info("Shipment cancelled",
		zap.String("trace_id", middleware.GetTraceID(ctx)),
		zap.Int64("shipment_id", updated.ID),
		zap.String("tracking_number", updated.TrackingNumber),
	)
	return updated, nil
}

func (s *ShippingService) GetShipmentHistory(ctx context.Context, destinationEmail string) ([]models.Shipment, error) {
	return s.shipments.List(ctx, destinationEmail)
}

// CalculateShippingCost exposes the rate formula for the standalone
// quote endpoint.
func (s *ShippingService) CalculateShippingCost(carrier models.Carrier, speed models.ShippingSpeed, weight float64) float64 {
	return shippingCost(carrier, speed, weight)
}

func (s *ShippingService) publishEvent(ctx context.Context, sh models.Shipment, eventType string) {
	if s.producer == nil {
		return
	}
	event := models.ShipmentEvent{
		ShipmentID:     sh.ID,
		TrackingNumber: sh.TrackingNumber,
		Carrier:        sh.Carrier,
		Status:         sh.Status,
		EventType:      eventType,
	}
	if err := kafka.PublishEvent(ctx, s.producer, s.topic, eventType, event, s.logger); err != nil {
		s.logger.Error("Failed to publish shipment event",
			zap.Error(err),
			zap.String("event_type", eventType),
			zap.Int64("shipment_id", sh.ID),
		)
	}
}

func cityState(a models.Address) string {
	return fmt.Sprintf("%s, %s", a.City, a.State)
}
