package services

import (
	"fmt"
	"math"
	"math/rand"

	"catalog-svc/models"
)

// Base rate per carrier in USD. Unknown carriers quote at the USPS
// floor; the cost endpoint has no failure mode.
var carrierBaseRate = map[models.Carrier]float64{
	models.CarrierUSPS:  5.00,
	models.CarrierFedEx: 7.50,
	models.CarrierUPS:   8.00,
	models.CarrierDHL:   7.00,
}

var speedMultiplier = map[models.ShippingSpeed]float64{
	models.SpeedStandard:  1.0,
	models.SpeedExpress:   1.5,
	models.SpeedTwoDay:    2.0,
	models.SpeedOvernight: 3.0,
}

var speedTransitDays = map[models.ShippingSpeed]int{
	models.SpeedOvernight: 1,
	models.SpeedTwoDay:    2,
	models.SpeedExpress:   3,
	models.SpeedStandard:  6,
}

var speedLabel = map[models.ShippingSpeed]string{
	models.SpeedStandard:  "Standard",
	models.SpeedExpress:   "Express",
	models.SpeedTwoDay:    "Two-Day",
	models.SpeedOvernight: "Overnight",
}

const perPoundRate = 2.50

// shippingCost prices a package: the carrier's base rate plus a
// per-pound charge scaled by the speed multiplier, rounded to cents.
func shippingCost(carrier models.Carrier, speed models.ShippingSpeed, weight float64) float64 {
	base, ok := carrierBaseRate[carrier]
	if !ok {
		base = 5.00
	}
	mult, ok := speedMultiplier[speed]
	if !ok {
		mult = 1.0
	}
	return round2(base + weight*perPoundRate*mult)
}

// transitDays returns the advertised door-to-door days for a speed tier.
func transitDays(speed models.ShippingSpeed) int {
	if days, ok := speedTransitDays[speed]; ok {
		return days
	}
	return 6
}

func serviceLabel(carrier models.Carrier, speed models.ShippingSpeed) string {
	label, ok := speedLabel[speed]
	if !ok {
		label = string(speed)
	}
	return fmt.Sprintf("%s %s", carrier, label)
}

var trackingPrefix = map[models.Carrier]string{
	models.CarrierFedEx: "FX",
	models.CarrierUPS:   "1Z",
	models.CarrierUSPS:  "94",
	models.CarrierDHL:   "DH",
}

// newTrackingNumber builds a carrier-prefixed synthetic tracking
// number: two prefix characters followed by nine digits.
func newTrackingNumber(carrier models.Carrier) string {
	prefix, ok := trackingPrefix[carrier]
	if !ok {
		prefix = "XX"
	}
	n := 100000000 + rand.Intn(899999999)
	return fmt.Sprintf("%s%09d", prefix, n)
}

func labelURL(trackingNumber string) string {
	return fmt.Sprintf("https://shipping.example.com/labels/%s.pdf", trackingNumber)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
