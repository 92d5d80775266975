package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"catalog-svc/gateway"
	"catalog-svc/models"
	"catalog-svc/store"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func setupPaymentTest(t *testing.T) (*PaymentService, *gateway.Mock, store.ProductStore) {
	products := store.NewMemoryProducts()
	payments := store.NewMemoryPayments()
	gw := gateway.NewMock()
	logger := zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))
	svc := NewPaymentService(products, payments, gw, "", nil, "", logger)
	return svc, gw, products
}

func seedProduct(t *testing.T, products store.ProductStore, name string, price float64) models.Product {
	p, err := products.Create(context.Background(), models.Product{
		Name:      name,
		Price:     price,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return p
}

func TestCalculateTotalAmount(t *testing.T) {
	svc, _, products := setupPaymentTest(t)
	p := seedProduct(t, products, "Wireless Headphones", 29.99)

	quote, err := svc.CalculateTotalAmount(context.Background(), p.ID, 2)
	if err != nil {
		t.Fatalf("CalculateTotalAmount failed: %v", err)
	}
	if quote.TotalAmount != 59.98 {
		t.Errorf("TotalAmount = %v, want 59.98", quote.TotalAmount)
	}
	if quote.Quantity != 2 || quote.ProductID != p.ID {
		t.Errorf("Quote = %+v", quote)
	}
}

func TestCalculateTotalAmount_BadQuantity(t *testing.T) {
	svc, _, products := setupPaymentTest(t)
	p := seedProduct(t, products, "Wireless Headphones", 29.99)

	if _, err := svc.CalculateTotalAmount(context.Background(), p.ID, 0); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected validation error for quantity 0, got %v", err)
	}
	if _, err := svc.CalculateTotalAmount(context.Background(), p.ID, -3); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected validation error for negative quantity, got %v", err)
	}
}

func TestCalculateTotalAmount_UnknownProduct(t *testing.T) {
	svc, _, _ := setupPaymentTest(t)

	if _, err := svc.CalculateTotalAmount(context.Background(), 999, 1); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestCreatePaymentIntent_MockGateway(t *testing.T) {
	svc, _, products := setupPaymentTest(t)
	p := seedProduct(t, products, "Wireless Headphones", 29.99)

	resp, err := svc.CreatePaymentIntent(context.Background(), models.CreatePaymentRequest{
		ProductID:     p.ID,
		Quantity:      2,
		CustomerEmail: "jordan@example.com",
	})
	if err != nil {
		t.Fatalf("CreatePaymentIntent failed: %v", err)
	}

	if !strings.HasPrefix(resp.IntentID, "pi_mock_") {
		t.Errorf("IntentID = %s, want pi_mock_ prefix", resp.IntentID)
	}
	if !strings.Contains(resp.ClientSecret, "_secret_") {
		t.Errorf("ClientSecret = %s, want embedded _secret_", resp.ClientSecret)
	}
	if resp.Status != models.PaymentStatusRequiresPaymentMethod {
		t.Errorf("Status = %s, want %s", resp.Status, models.PaymentStatusRequiresPaymentMethod)
	}
	if resp.Amount != 59.98 {
		t.Errorf("Amount = %v, want 59.98", resp.Amount)
	}
	if resp.Currency != "usd" {
		t.Errorf("Currency = %s, want usd", resp.Currency)
	}
	if resp.PublishableKey != "pk_test_mock" {
		t.Errorf("PublishableKey = %s, want pk_test_mock", resp.PublishableKey)
	}

	// The local record mirrors the gateway intent.
	intent, err := svc.GetPaymentStatus(context.Background(), resp.IntentID)
	if err != nil {
		t.Fatalf("GetPaymentStatus failed: %v", err)
	}
	if intent.Amount != 59.98 || intent.ProductID != p.ID || intent.Quantity != 2 {
		t.Errorf("Persisted intent = %+v", intent)
	}
}

func TestCreatePaymentIntent_UnknownProduct(t *testing.T) {
	svc, _, _ := setupPaymentTest(t)

	_, err := svc.CreatePaymentIntent(context.Background(), models.CreatePaymentRequest{ProductID: 42, Quantity: 1})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestCreatePaymentIntent_GatewayFailure(t *testing.T) {
	svc, gw, products := setupPaymentTest(t)
	p := seedProduct(t, products, "Wireless Headphones", 29.99)

	gw.CreateIntentErr = errors.New("gateway down")
	_, err := svc.CreatePaymentIntent(context.Background(), models.CreatePaymentRequest{ProductID: p.ID, Quantity: 1})
	if !errors.Is(err, ErrExternalService) {
		t.Errorf("Expected external service error, got %v", err)
	}
}

func TestConfirmPayment(t *testing.T) {
	svc, _, products := setupPaymentTest(t)
	p := seedProduct(t, products, "Wireless Headphones", 29.99)

	resp, err := svc.CreatePaymentIntent(context.Background(), models.CreatePaymentRequest{ProductID: p.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("CreatePaymentIntent failed: %v", err)
	}

	confirmation, err := svc.ConfirmPayment(context.Background(), resp.IntentID)
	if err != nil {
		t.Fatalf("ConfirmPayment failed: %v", err)
	}
	if confirmation.Status != models.PaymentStatusSucceeded {
		t.Errorf("Status = %s, want %s", confirmation.Status, models.PaymentStatusSucceeded)
	}
	if confirmation.CompletedAt == nil {
		t.Error("CompletedAt not stamped on success")
	}

	// A terminal intent is reported as-is; no transition out.
	again, err := svc.ConfirmPayment(context.Background(), resp.IntentID)
	if err != nil {
		t.Fatalf("Second ConfirmPayment failed: %v", err)
	}
	if again.Status != models.PaymentStatusSucceeded {
		t.Errorf("Second confirm status = %s, want %s", again.Status, models.PaymentStatusSucceeded)
	}
}

func TestConfirmPayment_NotFound(t *testing.T) {
	svc, _, _ := setupPaymentTest(t)

	if _, err := svc.ConfirmPayment(context.Background(), "pi_missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestCancelPayment(t *testing.T) {
	svc, _, products := setupPaymentTest(t)
	p := seedProduct(t, products, "Wireless Headphones", 29.99)

	resp, err := svc.CreatePaymentIntent(context.Background(), models.CreatePaymentRequest{ProductID: p.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("CreatePaymentIntent failed: %v", err)
	}

	confirmation, err := svc.CancelPayment(context.Background(), resp.IntentID)
	if err != nil {
		t.Fatalf("CancelPayment failed: %v", err)
	}
	if confirmation.Status != models.PaymentStatusCanceled {
		t.Errorf("Status = %s, want %s", confirmation.Status, models.PaymentStatusCanceled)
	}

	// Cancelled is terminal; confirming afterwards changes nothing.
	after, err := svc.ConfirmPayment(context.Background(), resp.IntentID)
	if err != nil {
		t.Fatalf("ConfirmPayment after cancel failed: %v", err)
	}
	if after.Status != models.PaymentStatusCanceled {
		t.Errorf("Status after confirm = %s, want %s", after.Status, models.PaymentStatusCanceled)
	}
}

func TestGetPaymentHistory_FiltersByEmail(t *testing.T) {
	svc, _, products := setupPaymentTest(t)
	p := seedProduct(t, products, "Wireless Headphones", 29.99)

	for _, email := range []string{"a@example.com", "b@example.com", "a@example.com"} {
		_, err := svc.CreatePaymentIntent(context.Background(), models.CreatePaymentRequest{
			ProductID:     p.ID,
			Quantity:      1,
			CustomerEmail: email,
		})
		if err != nil {
			t.Fatalf("CreatePaymentIntent failed: %v", err)
		}
	}

	all, err := svc.GetPaymentHistory(context.Background(), "")
	if err != nil {
		t.Fatalf("GetPaymentHistory failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 intents, got %d", len(all))
	}

	filtered, err := svc.GetPaymentHistory(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("GetPaymentHistory failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("Expected 2 intents for a@example.com, got %d", len(filtered))
	}
}
