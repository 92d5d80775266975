package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"catalog-svc/models"
)

func TestMemoryProducts_CRUD(t *testing.T) {
	m := NewMemoryProducts()
	ctx := context.Background()

	first, err := m.Create(ctx, models.Product{Name: "First", Price: 10})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := m.Create(ctx, models.Product{Name: "Second", Price: 20})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Errorf("Expected sequential IDs 1, 2 got %d, %d", first.ID, second.ID)
	}

	got, err := m.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "First" {
		t.Errorf("Name = %q, want First", got.Name)
	}

	got.Price = 15
	updated, err := m.Update(ctx, got)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Price != 15 {
		t.Errorf("Price = %v, want 15", updated.Price)
	}

	if err := m.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := m.GetByID(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryProducts_NotFound(t *testing.T) {
	m := NewMemoryProducts()
	ctx := context.Background()

	if _, err := m.GetByID(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID: expected ErrNotFound, got %v", err)
	}
	if _, err := m.Update(ctx, models.Product{ID: 99}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update: expected ErrNotFound, got %v", err)
	}
	if err := m.Delete(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryProducts_ListOrderedByID(t *testing.T) {
	m := NewMemoryProducts()
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		if _, err := m.Create(ctx, models.Product{Name: name}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	list, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("Expected 3 products, got %d", len(list))
	}
	for i, name := range []string{"A", "B", "C"} {
		if list[i].Name != name {
			t.Errorf("list[%d].Name = %q, want %q", i, list[i].Name, name)
		}
	}
}

func TestMemoryProducts_ReturnsCopies(t *testing.T) {
	m := NewMemoryProducts()
	ctx := context.Background()

	created, err := m.Create(ctx, models.Product{Name: "Original", Price: 10})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Mutating the returned value must not leak into the store.
	created.Name = "Mutated"

	got, err := m.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Original" {
		t.Errorf("Store row changed through returned copy: %q", got.Name)
	}
}

func TestMemoryPayments_IntentLookup(t *testing.T) {
	m := NewMemoryPayments()
	ctx := context.Background()

	created, err := m.Create(ctx, models.PaymentIntent{IntentID: "pi_mock_abc", Status: models.PaymentStatusRequiresPaymentMethod})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("ID = %d, want 1", created.ID)
	}

	got, err := m.GetByIntentID(ctx, "pi_mock_abc")
	if err != nil {
		t.Fatalf("GetByIntentID failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %d, want %d", got.ID, created.ID)
	}

	if _, err := m.GetByIntentID(ctx, "pi_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := m.Update(ctx, models.PaymentIntent{ID: 99}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryPayments_ListNewestFirstAndFiltered(t *testing.T) {
	m := NewMemoryPayments()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rows := []models.PaymentIntent{
		{IntentID: "pi_1", CustomerEmail: "a@example.com", CreatedAt: base},
		{IntentID: "pi_2", CustomerEmail: "b@example.com", CreatedAt: base.Add(time.Hour)},
		{IntentID: "pi_3", CustomerEmail: "a@example.com", CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, in := range rows {
		if _, err := m.Create(ctx, in); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	all, err := m.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 intents, got %d", len(all))
	}
	if all[0].IntentID != "pi_3" || all[2].IntentID != "pi_1" {
		t.Errorf("Expected newest first, got %s ... %s", all[0].IntentID, all[2].IntentID)
	}

	filtered, err := m.List(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("Expected 2 intents for a@example.com, got %d", len(filtered))
	}
	for _, in := range filtered {
		if in.CustomerEmail != "a@example.com" {
			t.Errorf("Unexpected email %q in filtered list", in.CustomerEmail)
		}
	}
}

func TestMemoryPayments_ListSameInstantFallsBackToID(t *testing.T) {
	m := NewMemoryPayments()
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, intentID := range []string{"pi_1", "pi_2"} {
		if _, err := m.Create(ctx, models.PaymentIntent{IntentID: intentID, CreatedAt: at}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	list, err := m.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if list[0].IntentID != "pi_2" {
		t.Errorf("Expected higher id first for equal timestamps, got %s", list[0].IntentID)
	}
}

func TestMemoryShipments_TrackingLookup(t *testing.T) {
	m := NewMemoryShipments()
	ctx := context.Background()

	created, err := m.Create(ctx, models.Shipment{TrackingNumber: "FX123456789", Status: models.StatusLabelGenerated})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := m.GetByTracking(ctx, "FX123456789")
	if err != nil {
		t.Fatalf("GetByTracking failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %d, want %d", got.ID, created.ID)
	}

	if _, err := m.GetByTracking(ctx, "FX000000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := m.GetByID(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID: expected ErrNotFound, got %v", err)
	}
	if _, err := m.Update(ctx, models.Shipment{ID: 99}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryShipments_ListFiltersByDestinationEmail(t *testing.T) {
	m := NewMemoryShipments()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rows := []models.Shipment{
		{TrackingNumber: "FX1", ToAddress: models.Address{Email: "a@example.com"}, CreatedAt: base},
		{TrackingNumber: "FX2", ToAddress: models.Address{Email: "b@example.com"}, CreatedAt: base.Add(time.Hour)},
		{TrackingNumber: "FX3", ToAddress: models.Address{Email: "a@example.com"}, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, sh := range rows {
		if _, err := m.Create(ctx, sh); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	all, err := m.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 || all[0].TrackingNumber != "FX3" {
		t.Errorf("Expected 3 shipments newest first, got %d starting with %s", len(all), all[0].TrackingNumber)
	}

	filtered, err := m.List(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("Expected 2 shipments for a@example.com, got %d", len(filtered))
	}
}
