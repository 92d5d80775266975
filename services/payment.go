package services

import (
	"context"
	"fmt"
	"time"

	"catalog-svc/gateway"
	"catalog-svc/kafka"
	"catalog-svc/middleware"
	"catalog-svc/models"
	"catalog-svc/store"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const mockPublishableKey = "pk_test_mock"

// PaymentService creates and settles payment intents through whichever
// gateway was selected at startup. The local PaymentIntent record is
// the source of truth for amount; the gateway is the source of truth
// for status.
type PaymentService struct {
	products       store.ProductStore
	payments       store.PaymentStore
	gateway        gateway.Gateway
	publishableKey string
	producer       sarama.SyncProducer // nil when Kafka is not configured
	topic          string
	logger         *zap.Logger
}

func NewPaymentService(products store.ProductStore, payments store.PaymentStore, gw gateway.Gateway, publishableKey string, producer sarama.SyncProducer, topic string, logger *zap.Logger) *PaymentService {
	if publishableKey == "" {
		publishableKey = mockPublishableKey
	}
	return &PaymentService{
		products:       products,
		payments:       payments,
		gateway:        gw,
		publishableKey: publishableKey,
		producer:       producer,
		topic:          topic,
		logger:         logger,
	}
}

// CalculateTotalAmount prices a prospective purchase. The product must
// exist and the quantity must be at least 1.
func (s *PaymentService) CalculateTotalAmount(ctx context.Context, productID int64, quantity int) (models.PriceQuote, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return models.PriceQuote{}, err
	}
	if quantity <= 0 {
		return models.PriceQuote{}, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	return models.PriceQuote{
		ProductID:   product.ID,
		Quantity:    quantity,
		TotalAmount: round2(product.Price * float64(quantity)),
	}, nil
}

// CreatePaymentIntent prices the purchase, opens an intent at the
// gateway and persists the local record with the gateway's id and
// status. Amount is fixed here and never updated afterwards.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, req models.CreatePaymentRequest) (models.PaymentResponse, error) {
	ctx, span := otel.Tracer("catalog-service").Start(ctx, "CreatePaymentIntent")
	defer span.End()

	quote, err := s.CalculateTotalAmount(ctx, req.ProductID, req.Quantity)
	if err != nil {
		return models.PaymentResponse{}, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	intent, err := s.gateway.CreateIntent(ctx, quote.TotalAmount, currency, req.CustomerEmail)
	if err != nil {
		span.RecordError(err)
		return models.PaymentResponse{}, fmt.Errorf("%w: create intent: %v", ErrExternalService, err)
	}

	record := models.PaymentIntent{
		IntentID:      intent.ID,
		ProductID:     req.ProductID,
		Quantity:      quote.Quantity,
		Amount:        quote.TotalAmount,
		Currency:      currency,
		Status:        intent.Status,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		CreatedAt:     time.Now(),
	}
	created, err := s.payments.Create(ctx, record)
	if err != nil {
		span.RecordError(err)
		return models.PaymentResponse{}, fmt.Errorf("create payment intent: %w", err)
	}

	span.SetAttributes(
		attribute.String("payment.intent_id", created.IntentID),
		attribute.Float64("payment.amount", created.Amount),
	)
	middleware.RecordPaymentProcessed(string(created.Status))
	s.publishEvent(ctx, created, "payment_created")

	s.logger.Info("Payment intent created",
		zap.String("trace_id", middleware.GetTraceID(ctx)),
		zap.String("intent_id", created.IntentID),
		zap.Int64("product_id", created.ProductID),
		zap.Float64("amount", created.Amount),
	)

	return models.PaymentResponse{
		IntentID:       created.IntentID,
		ClientSecret:   intent.ClientSecret,
		Amount:         created.Amount,
		Currency:       created.Currency,
		Status:         created.Status,
		PublishableKey: s.publishableKey,
	}, nil
}

// ConfirmPayment refreshes the intent's status from the gateway and
// stamps completion when it reaches "succeeded". An intent already in
// a terminal status is reported as-is without touching the gateway.
func (s *PaymentService) ConfirmPayment(ctx context.Context, intentID string) (models.PaymentConfirmation, error) {
	ctx, span := otel.Tracer("catalog-service").Start(ctx, "ConfirmPayment")
	defer span.End()

	pi, err := s.payments.GetByIntentID(ctx, intentID)
	if err != nil {
		return models.PaymentConfirmation{}, err
	}
	if pi.Status.Terminal() {
		return confirmationFrom(pi, ""), nil
	}

	remote, err := s.gateway.GetIntent(ctx, intentID)
	if err != nil {
		span.RecordError(err)
		return models.PaymentConfirmation{}, fmt.Errorf("%w: confirm intent: %v", ErrExternalService, err)
	}

	pi.Status = remote.Status
	if pi.Status == models.PaymentStatusSucceeded {
		now := time.Now()
		pi.CompletedAt = &now
	}
	updated, err := s.payments.Update(ctx, pi)
	if err != nil {
		span.RecordError(err)
		return models.PaymentConfirmation{}, fmt.Errorf("confirm payment: %w", err)
	}

	middleware.RecordPaymentProcessed(string(updated.Status))
	if updated.Status == models.PaymentStatusSucceeded {
		s.publishEvent(ctx, updated, "payment_succeeded")
	}
	s.logger.Info("Payment confirmed",
		zap.String("trace_id", middleware.GetTraceID(ctx)),
		zap.String("intent_id", updated.IntentID),
		zap.String("status", string(updated.Status)),
	)
	return confirmationFrom(updated, remote.ReceiptURL), nil
}

// CancelPayment cancels the intent at the gateway and mirrors the
// returned status locally. Terminal intents are reported as-is.
func (s *PaymentService) CancelPayment(ctx context.Context, intentID string) (models.PaymentConfirmation, error) {
	ctx, span := otel.Tracer("catalog-service").Start(ctx, "CancelPayment")
	defer span.End()

	pi, err := s.payments.GetByIntentID(ctx, intentID)
	if err != nil {
		return models.PaymentConfirmation{}, err
	}
	if pi.Status.Terminal() {
		return confirmationFrom(pi, ""), nil
	}

	remote, err := s.gateway.CancelIntent(ctx, intentID)
	if err != nil {
		span.RecordError(err)
		return models.PaymentConfirmation{}, fmt.Errorf("%w: cancel intent: %v", ErrExternalService, err)
	}

	pi.Status = remote.Status
	now := time.Now()
	pi.CompletedAt = &now
	updated, err := s.payments.Update(ctx, pi)
	if err != nil {
		span.RecordError(err)
		return models.PaymentConfirmation{}, fmt.Errorf("cancel payment: %w", err)
	}

	middleware.RecordPaymentProcessed(string(updated.Status))
	s.publishEvent(ctx, updated, "payment_canceled")
	s.logger.Info("Payment cancelled",
		zap.String("trace_id", middleware.GetTraceID(ctx)),
		zap.String("intent_id", updated.IntentID),
		zap.String("status", string(updated.Status)),
	)
	return confirmationFrom(updated, remote.ReceiptURL), nil
}

func (s *PaymentService) GetPaymentStatus(ctx context.Context, intentID string) (models.PaymentIntent, error) {
	return s.payments.GetByIntentID(ctx, intentID)
}

func (s *PaymentService) GetPaymentHistory(ctx context.Context, customerEmail string) ([]models.PaymentIntent, error) {
	return s.payments.List(ctx, customerEmail)
}

func (s *PaymentService) publishEvent(ctx context.Context, pi models.PaymentIntent, eventType string) {
	if s.producer == nil {
		return
	}
	event := models.PaymentEvent{
		IntentID:  pi.IntentID,
		ProductID: pi.ProductID,
		Amount:    pi.Amount,
		Status:    pi.Status,
		EventType: eventType,
	}
	if err := kafka.PublishEvent(ctx, s.producer, s.topic, eventType, event, s.logger); err != nil {
		s.logger.Error("Failed to publish payment event",
			zap.Error(err),
			zap.String("event_type", eventType),
			zap.String("intent_id", pi.IntentID),
		)
	}
}

func confirmationFrom(pi models.PaymentIntent, receiptURL string) models.PaymentConfirmation {
	return models.PaymentConfirmation{
		IntentID:    pi.IntentID,
		Status:      pi.Status,
		Amount:      pi.Amount,
		Currency:    pi.Currency,
		CompletedAt: pi.CompletedAt,
		ReceiptURL:  receiptURL,
	}
}
