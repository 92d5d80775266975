package models

import "time"

type Carrier string

const (
	CarrierFedEx Carrier = "FedEx"
	CarrierUPS   Carrier = "UPS"
	CarrierUSPS  Carrier = "USPS"
	CarrierDHL   Carrier = "DHL"
)

// Carriers lists every supported carrier in rate-table order.
var Carriers = []Carrier{CarrierFedEx, CarrierUPS, CarrierUSPS, CarrierDHL}

type ShippingSpeed string

const (
	SpeedStandard  ShippingSpeed = "Standard"
	SpeedExpress   ShippingSpeed = "Express"
	SpeedTwoDay    ShippingSpeed = "TwoDay"
	SpeedOvernight ShippingSpeed = "Overnight"
)

// Speeds lists every service tier in rate-table order.
var Speeds = []ShippingSpeed{SpeedStandard, SpeedExpress, SpeedTwoDay, SpeedOvernight}

type ShipmentStatus string

const (
	StatusCreated        ShipmentStatus = "Created"
	StatusLabelGenerated ShipmentStatus = "LabelGenerated"
	StatusPickedUp       ShipmentStatus = "PickedUp"
	StatusInTransit      ShipmentStatus = "InTransit"
	StatusOutForDelivery ShipmentStatus = "OutForDelivery"
	StatusDelivered      ShipmentStatus = "Delivered"
	StatusFailed         ShipmentStatus = "Failed"
	StatusCancelled      ShipmentStatus = "Cancelled"
)

// progressRank orders the linear delivery milestones. Cancelled and
// Failed have no rank, so a shipment parked in either state never
// counts as having passed a milestone.
var progressRank = map[ShipmentStatus]int{
	StatusCreated:        0,
	StatusLabelGenerated: 1,
	StatusPickedUp:       2,
	StatusInTransit:      3,
	StatusOutForDelivery: 4,
	StatusDelivered:      5,
}

// ReachedAtLeast reports whether s has progressed to milestone or
// beyond on the linear delivery path.
func (s ShipmentStatus) ReachedAtLeast(milestone ShipmentStatus) bool {
	rank, ok := progressRank[s]
	if !ok {
		return false
	}
	want, ok := progressRank[milestone]
	if !ok {
		return false
	}
	return rank >= want
}

// Terminal reports whether s admits no further status transition.
func (s ShipmentStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusFailed
}

type Address struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// Dimensions describes a package in inches and pounds.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

// Shipment is the persisted record of one label. Cost is fixed at
// creation from the rate formula and never recomputed.
type Shipment struct {
	ID                int64          `json:"id"`
	TrackingNumber    string         `json:"trackingNumber"`
	Carrier           Carrier        `json:"carrier"`
	Speed             ShippingSpeed  `json:"speed"`
	Status            ShipmentStatus `json:"status"`
	PaymentIntentID   string         `json:"paymentIntentId,omitempty"`
	FromAddress       Address        `json:"fromAddress"`
	ToAddress         Address        `json:"toAddress"`
	Dimensions        Dimensions     `json:"dimensions"`
	Cost              float64        `json:"cost"`
	Currency          string         `json:"currency"`
	LabelURL          string         `json:"labelUrl"`
	CreatedAt         time.Time      `json:"createdAt"`
	EstimatedDelivery time.Time      `json:"estimatedDelivery"`
	ActualDelivery    *time.Time     `json:"actualDelivery,omitempty"`
	Notes             string         `json:"notes,omitempty"`
}

// ShippingRate is a transient quote for one carrier and speed.
type ShippingRate struct {
	Carrier           Carrier       `json:"carrier"`
	Speed             ShippingSpeed `json:"speed"`
	ServiceName       string        `json:"serviceName"`
	Cost              float64       `json:"cost"`
	Currency          string        `json:"currency"`
	EstimatedDays     int           `json:"estimatedDays"`
	EstimatedDelivery time.Time     `json:"estimatedDelivery"`
}

// TrackingUpdate is a synthesized tracking event; no real history is
// stored.
type TrackingUpdate struct {
	TrackingNumber string         `json:"trackingNumber"`
	Status         ShipmentStatus `json:"status"`
	Location       string         `json:"location"`
	Timestamp      time.Time      `json:"timestamp"`
	Description    string         `json:"description"`
}

type RateRequest struct {
	FromAddress Address    `json:"fromAddress"`
	ToAddress   Address    `json:"toAddress"`
	Dimensions  Dimensions `json:"dimensions"`
}

type CreateShipmentRequest struct {
	Carrier         Carrier       `json:"carrier" binding:"required"`
	Speed           ShippingSpeed `json:"speed" binding:"required"`
	FromAddress     Address       `json:"fromAddress"`
	ToAddress       Address       `json:"toAddress"`
	Dimensions      Dimensions    `json:"dimensions"`
	PaymentIntentID string        `json:"paymentIntentId"`
	Notes           string        `json:"notes"`
}

type ShipmentResponse struct {
	ShipmentID        int64          `json:"shipmentId"`
	TrackingNumber    string         `json:"trackingNumber"`
	Carrier           Carrier        `json:"carrier"`
	Status            ShipmentStatus `json:"status"`
	Cost              float64        `json:"cost"`
	Currency          string         `json:"currency"`
	LabelURL          string         `json:"labelUrl"`
	EstimatedDelivery time.Time      `json:"estimatedDelivery"`
}

type ShipmentEvent struct {
	ShipmentID     int64          `json:"shipmentId"`
	TrackingNumber string         `json:"trackingNumber"`
	Carrier        Carrier        `json:"carrier"`
	Status         ShipmentStatus `json:"status"`
	EventType      string         `json:"eventType"` // shipment_created, shipment_cancelled
}
