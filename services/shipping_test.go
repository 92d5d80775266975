package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"catalog-svc/models"
	"catalog-svc/store"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func testAddress(email string) models.Address {
	return models.Address{
		Name:       "Jordan Reyes",
		Street:     "100 Main St",
		City:       "Springfield",
		State:      "IL",
		PostalCode: "62701",
		Country:    "US",
		Email:      email,
	}
}

func testDimensions() models.Dimensions {
	return models.Dimensions{Length: 10, Width: 8, Height: 4, Weight: 5}
}

func setupShippingTest(t *testing.T) (*ShippingService, store.ShipmentStore) {
	shipments := store.NewMemoryShipments()
	logger := zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))
	return NewShippingService(shipments, nil, "", logger), shipments
}

func TestGetShippingRates_SixteenSortedByCost(t *testing.T) {
	svc, _ := setupShippingTest(t)

	rates, err := svc.GetShippingRates(context.Background(), testAddress(""), testAddress(""), testDimensions())
	if err != nil {
		t.Fatalf("GetShippingRates failed: %v", err)
	}

	if len(rates) != 16 {
		t.Fatalf("Expected 16 rates, got %d", len(rates))
	}
	for i := 1; i < len(rates); i++ {
		if rates[i].Cost < rates[i-1].Cost {
			t.Errorf("Rates not sorted: rates[%d]=%v > rates[%d]=%v", i-1, rates[i-1].Cost, i, rates[i].Cost)
		}
	}
	for _, r := range rates {
		if r.Currency != "usd" {
			t.Errorf("Rate %s %s currency = %q, want usd", r.Carrier, r.Speed, r.Currency)
		}
		if r.EstimatedDays != transitDays(r.Speed) {
			t.Errorf("Rate %s %s days = %d, want %d", r.Carrier, r.Speed, r.EstimatedDays, transitDays(r.Speed))
		}
	}
}

func TestGetShippingRates_IncompleteAddress(t *testing.T) {
	svc, _ := setupShippingTest(t)

	bad := testAddress("")
	bad.City = ""
	_, err := svc.GetShippingRates(context.Background(), bad, testAddress(""), testDimensions())
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestGetShippingRates_InvalidDimensions(t *testing.T) {
	svc, _ := setupShippingTest(t)

	zeroWeight := testDimensions()
	zeroWeight.Weight = 0
	if _, err := svc.GetShippingRates(context.Background(), testAddress(""), testAddress(""), zeroWeight); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected validation error for zero weight, got %v", err)
	}

	tooHeavy := testDimensions()
	tooHeavy.Weight = 151
	if _, err := svc.GetShippingRates(context.Background(), testAddress(""), testAddress(""), tooHeavy); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected validation error for overweight package, got %v", err)
	}
}

func TestCreateShipment_RoundTrip(t *testing.T) {
	svc, _ := setupShippingTest(t)

	resp, err := svc.CreateShipment(context.Background(), models.CreateShipmentRequest{
		Carrier:     models.CarrierFedEx,
		Speed:       models.SpeedStandard,
		FromAddress: testAddress(""),
		ToAddress:   testAddress("jordan@example.com"),
		Dimensions:  testDimensions(),
	})
	if err != nil {
		t.Fatalf("CreateShipment failed: %v", err)
	}

	if !strings.HasPrefix(resp.TrackingNumber, "FX") {
		t.Errorf("Tracking number %s, want FX prefix", resp.TrackingNumber)
	}
	if resp.Status != models.StatusLabelGenerated {
		t.Errorf("Status = %s, want %s", resp.Status, models.StatusLabelGenerated)
	}
	if resp.Cost != 20.00 {
		t.Errorf("Cost = %v, want 20.00", resp.Cost)
	}
	if !strings.Contains(resp.LabelURL, resp.TrackingNumber) {
		t.Errorf("Label URL %s does not embed tracking number", resp.LabelURL)
	}

	byID, err := svc.GetShipment(context.Background(), resp.ShipmentID)
	if err != nil {
		t.Fatalf("GetShipment failed: %v", err)
	}
	byTracking, err := svc.GetShipmentByTracking(context.Background(), resp.TrackingNumber)
	if err != nil {
		t.Fatalf("GetShipmentByTracking failed: %v", err)
	}

	if byID.Cost != byTracking.Cost || byID.Status != byTracking.Status || byID.TrackingNumber != byTracking.TrackingNumber {
		t.Errorf("Lookups disagree: by id %+v, by tracking %+v", byID, byTracking)
	}
}

func TestCreateShipment_CarrierPrefixes(t *testing.T) {
	svc, _ := setupShippingTest(t)

	prefixes := map[models.Carrier]string{
		models.CarrierUPS:  "1Z",
		models.CarrierUSPS: "94",
		models.CarrierDHL:  "DH",
	}
	for carrier, prefix := range prefixes {
		resp, err := svc.CreateShipment(context.Background(), models.CreateShipmentRequest{
			Carrier:     carrier,
			Speed:       models.SpeedExpress,
			FromAddress: testAddress(""),
			ToAddress:   testAddress(""),
			Dimensions:  testDimensions(),
		})
		if err != nil {
			t.Fatalf("CreateShipment(%s) failed: %v", carrier, err)
		}
		if !strings.HasPrefix(resp.TrackingNumber, prefix) {
			t.Errorf("CreateShipment(%s) tracking %s, want prefix %s", carrier, resp.TrackingNumber, prefix)
		}
	}
}

func TestCreateShipment_RejectsInvalidInput(t *testing.T) {
	svc, _ := setupShippingTest(t)

	req := models.CreateShipmentRequest{
		Carrier:     models.CarrierUPS,
		Speed:       models.SpeedStandard,
		FromAddress: testAddress(""),
		ToAddress:   models.Address{Street: "1 Elm St"},
		Dimensions:  testDimensions(),
	}
	if _, err := svc.CreateShipment(context.Background(), req); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestCancelShipment(t *testing.T) {
	svc, _ := setupShippingTest(t)

	resp, err := svc.CreateShipment(context.Background(), models.CreateShipmentRequest{
		Carrier:     models.CarrierUPS,
		Speed:       models.SpeedTwoDay,
		FromAddress: testAddress(""),
		ToAddress:   testAddress(""),
		Dimensions:  testDimensions(),
	})
	if err != nil {
		t.Fatalf("CreateShipment failed: %v", err)
	}

	cancelled, err := svc.CancelShipment(context.Background(), resp.ShipmentID)
	if err != nil {
		t.Fatalf("CancelShipment failed: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Errorf("Status = %s, want %s", cancelled.Status, models.StatusCancelled)
	}

	// Cancelling twice fails the second time.
	if _, err := svc.CancelShipment(context.Background(), resp.ShipmentID); !errors.Is(err, ErrIllegalState) {
		t.Errorf("Expected illegal state on double cancel, got %v", err)
	}
}

func TestCancelShipment_Delivered(t *testing.T) {
	svc, shipments := setupShippingTest(t)

	resp, err := svc.CreateShipment(context.Background(), models.CreateShipmentRequest{
		Carrier:     models.CarrierDHL,
		Speed:       models.SpeedOvernight,
		FromAddress: testAddress(""),
		ToAddress:   testAddress(""),
		Dimensions:  testDimensions(),
	})
	if err != nil {
		t.Fatalf("CreateShipment failed: %v", err)
	}

	sh, err := shipments.GetByID(context.Background(), resp.ShipmentID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	sh.Status = models.StatusDelivered
	if _, err := shipments.Update(context.Background(), sh); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if _, err := svc.CancelShipment(context.Background(), resp.ShipmentID); !errors.Is(err, ErrIllegalState) {
		t.Errorf("Expected illegal state cancelling delivered shipment, got %v", err)
	}
}

func TestCancelShipment_NotFound(t *testing.T) {
	svc, _ := setupShippingTest(t)

	if _, err := svc.CancelShipment(context.Background(), 404); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestGetTrackingUpdates_SynthesizedHistory(t *testing.T) {
	svc, shipments := setupShippingTest(t)

	resp, err := svc.CreateShipment(context.Background(), models.CreateShipmentRequest{
		Carrier:     models.CarrierFedEx,
		Speed:       models.SpeedStandard,
		FromAddress: testAddress(""),
		ToAddress:   testAddress(""),
		Dimensions:  testDimensions(),
	})
	if err != nil {
		t.Fatalf("CreateShipment failed: %v", err)
	}

	// Fresh label: only the LabelGenerated event.
	updates, err := svc.GetTrackingUpdates(context.Background(), resp.TrackingNumber)
	if err != nil {
		t.Fatalf("GetTrackingUpdates failed: %v", err)
	}
	if len(updates) != 1 || updates[0].Status != models.StatusLabelGenerated {
		t.Fatalf("Expected single LabelGenerated update, got %+v", updates)
	}

	sh, err := shipments.GetByID(context.Background(), resp.ShipmentID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	sh.Status = models.StatusDelivered
	if _, err := shipments.Update(context.Background(), sh); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	updates, err = svc.GetTrackingUpdates(context.Background(), resp.TrackingNumber)
	if err != nil {
		t.Fatalf("GetTrackingUpdates failed: %v", err)
	}
	if len(updates) != 5 {
		t.Fatalf("Expected 5 updates for delivered shipment, got %d", len(updates))
	}

	wantStatuses := []models.ShipmentStatus{
		models.StatusLabelGenerated,
		models.StatusPickedUp,
		models.StatusInTransit,
		models.StatusOutForDelivery,
		models.StatusDelivered,
	}
	for i, want := range wantStatuses {
		if updates[i].Status != want {
			t.Errorf("updates[%d].Status = %s, want %s", i, updates[i].Status, want)
		}
	}

	wantOffsets := []time.Duration{
		0,
		4 * time.Hour,
		28 * time.Hour,
		52 * time.Hour,
		58 * time.Hour,
	}
	for i, want := range wantOffsets {
		if got := updates[i].Timestamp.Sub(sh.CreatedAt); got != want {
			t.Errorf("updates[%d] offset = %v, want %v", i, got, want)
		}
	}
}

func TestGetTrackingUpdates_CancelledStopsAtLabel(t *testing.T) {
	svc, _ := setupShippingTest(t)

	resp, err := svc.CreateShipment(context.Background(), models.CreateShipmentRequest{
		Carrier:     models.CarrierUSPS,
		Speed:       models.SpeedExpress,
		FromAddress: testAddress(""),
		ToAddress:   testAddress(""),
		Dimensions:  testDimensions(),
	})
	if err != nil {
		t.Fatalf("CreateShipment failed: %v", err)
	}
	if _, err := svc.CancelShipment(context.Background(), resp.ShipmentID); err != nil {
		t.Fatalf("CancelShipment failed: %v", err)
	}

	updates, err := svc.GetTrackingUpdates(context.Background(), resp.TrackingNumber)
	if err != nil {
		t.Fatalf("GetTrackingUpdates failed: %v", err)
	}
	if len(updates) != 1 || updates[0].Status != models.StatusLabelGenerated {
		t.Errorf("Cancelled shipment should report only the label event, got %+v", updates)
	}
}

func TestGetShipmentHistory_FiltersByDestinationEmail(t *testing.T) {
	svc, _ := setupShippingTest(t)

	for _, email := range []string{"a@example.com", "b@example.com", "a@example.com"} {
		_, err := svc.CreateShipment(context.Background(), models.CreateShipmentRequest{
			Carrier:     models.CarrierUPS,
			Speed:       models.SpeedStandard,
			FromAddress: testAddress(""),
			ToAddress:   testAddress(email),
			Dimensions:  testDimensions(),
		})
		if err != nil {
			t.Fatalf("CreateShipment failed: %v", err)
		}
	}

	all, err := svc.GetShipmentHistory(context.Background(), "")
	if err != nil {
		t.Fatalf("GetShipmentHistory failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 shipments, got %d", len(all))
	}

	filtered, err := svc.GetShipmentHistory(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("GetShipmentHistory failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("Expected 2 shipments for a@example.com, got %d", len(filtered))
	}
}
