package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPending               PaymentStatus = "pending"
	PaymentStatusRequiresPaymentMethod PaymentStatus = "requires_payment_method"
	PaymentStatusSucceeded             PaymentStatus = "succeeded"
	PaymentStatusCanceled              PaymentStatus = "canceled"
	PaymentStatusFailed                PaymentStatus = "failed"
)

// Terminal reports whether s admits no further status transition.
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentStatusSucceeded, PaymentStatusCanceled, PaymentStatusFailed:
		return true
	}
	return false
}

// PaymentIntent is the local record of a charge attempt. Amount is
// fixed at creation from product price and quantity and never changes
// afterwards.
type PaymentIntent struct {
	ID            int64         `json:"id"`
	IntentID      string        `json:"intentId"`
	ProductID     int64         `json:"productId"`
	Quantity      int           `json:"quantity"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Status        PaymentStatus `json:"status"`
	CustomerEmail string        `json:"customerEmail"`
	CustomerName  string        `json:"customerName"`
	CreatedAt     time.Time     `json:"createdAt"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty"`
	FailureReason string        `json:"failureReason,omitempty"`
}

type CreatePaymentRequest struct {
	ProductID     int64  `json:"productId" binding:"required"`
	Quantity      int    `json:"quantity"`
	CustomerEmail string `json:"customerEmail"`
	CustomerName  string `json:"customerName"`
	Currency      string `json:"currency"`
}

type PaymentResponse struct {
	IntentID       string        `json:"intentId"`
	ClientSecret   string        `json:"clientSecret"`
	Amount         float64       `json:"amount"`
	Currency       string        `json:"currency"`
	Status         PaymentStatus `json:"status"`
	PublishableKey string        `json:"publishableKey"`
}

type PaymentConfirmation struct {
	IntentID    string        `json:"intentId"`
	Status      PaymentStatus `json:"status"`
	Amount      float64       `json:"amount"`
	Currency    string        `json:"currency"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
	ReceiptURL  string        `json:"receiptUrl,omitempty"`
}

type PaymentEvent struct {
	IntentID  string        `json:"intentId"`
	ProductID int64         `json:"productId"`
	Amount    float64       `json:"amount"`
	Status    PaymentStatus `json:"status"`
	EventType string        `json:"eventType"` // payment_created, payment_succeeded, payment_canceled
}
