package services

import (
	"strings"
	"testing"

	"catalog-svc/models"
)

func TestShippingCost_KnownRates(t *testing.T) {
	cases := []struct {
		carrier models.Carrier
		speed   models.ShippingSpeed
		weight  float64
		want    float64
	}{
		{models.CarrierFedEx, models.SpeedStandard, 5, 20.00},
		{models.CarrierUPS, models.SpeedExpress, 10, 45.50},
		{models.CarrierUSPS, models.SpeedOvernight, 3, 27.50},
	}

	for _, tc := range cases {
		got := shippingCost(tc.carrier, tc.speed, tc.weight)
		if got != tc.want {
			t.Errorf("shippingCost(%s, %s, %v) = %v, want %v", tc.carrier, tc.speed, tc.weight, got, tc.want)
		}
	}
}

func TestShippingCost_UnknownCarrierAndSpeed(t *testing.T) {
	// Unknown carrier falls back to the base floor, unknown speed to a
	// 1.0 multiplier.
	got := shippingCost(models.Carrier("Pigeon"), models.ShippingSpeed("Warp"), 4)
	if got != 15.00 {
		t.Errorf("shippingCost(Pigeon, Warp, 4) = %v, want 15.00", got)
	}
}

func TestTransitDays(t *testing.T) {
	cases := []struct {
		speed models.ShippingSpeed
		want  int
	}{
		{models.SpeedOvernight, 1},
		{models.SpeedTwoDay, 2},
		{models.SpeedExpress, 3},
		{models.SpeedStandard, 6},
		{models.ShippingSpeed("Warp"), 6},
	}

	for _, tc := range cases {
		if got := transitDays(tc.speed); got != tc.want {
			t.Errorf("transitDays(%s) = %d, want %d", tc.speed, got, tc.want)
		}
	}
}

func TestServiceLabel(t *testing.T) {
	if got := serviceLabel(models.CarrierFedEx, models.SpeedTwoDay); got != "FedEx Two-Day" {
		t.Errorf("serviceLabel(FedEx, TwoDay) = %q, want %q", got, "FedEx Two-Day")
	}
	if got := serviceLabel(models.CarrierUSPS, models.SpeedStandard); got != "USPS Standard" {
		t.Errorf("serviceLabel(USPS, Standard) = %q, want %q", got, "USPS Standard")
	}
}

func TestNewTrackingNumber_CarrierPrefixes(t *testing.T) {
	prefixes := map[models.Carrier]string{
		models.CarrierFedEx: "FX",
		models.CarrierUPS:   "1Z",
		models.CarrierUSPS:  "94",
		models.CarrierDHL:   "DH",
	}

	for carrier, prefix := range prefixes {
		got := newTrackingNumber(carrier)
		if !strings.HasPrefix(got, prefix) {
			t.Errorf("newTrackingNumber(%s) = %s, want prefix %s", carrier, got, prefix)
		}
		if len(got) != 11 {
			t.Errorf("newTrackingNumber(%s) = %s, want 11 characters", carrier, got)
		}
	}

	if got := newTrackingNumber(models.Carrier("Pigeon")); !strings.HasPrefix(got, "XX") {
		t.Errorf("newTrackingNumber(Pigeon) = %s, want prefix XX", got)
	}
}

func TestLabelURL(t *testing.T) {
	got := labelURL("FX123456789")
	if got != "https://shipping.example.com/labels/FX123456789.pdf" {
		t.Errorf("labelURL(FX123456789) = %s", got)
	}
}
