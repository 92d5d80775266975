package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"catalog-svc/models"
)

// Intent is the gateway-side view of a charge attempt.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       float64
	Currency     string
	Status       models.PaymentStatus
	ReceiptURL   string
}

// Gateway abstracts the payment provider. Exactly one implementation
// is selected at startup: Stripe when a secret key is configured, the
// deterministic Mock otherwise.
type Gateway interface {
	CreateIntent(ctx context.Context, amount float64, currency, email string) (Intent, error)
	GetIntent(ctx context.Context, intentID string) (Intent, error)
	CancelIntent(ctx context.Context, intentID string) (Intent, error)
}

// Mock synthesizes intents without any external calls. Every intent it
// is asked about reports "succeeded", so the payment flow completes
// end to end with no credentials configured.
type Mock struct {
	mu      sync.Mutex
	intents map[string]Intent

	// Error fields allow tests to inject failures.
	CreateIntentErr error
	GetIntentErr    error
	CancelIntentErr error
}

func NewMock() *Mock {
	return &Mock{intents: make(map[string]Intent)}
}

func (m *Mock) CreateIntent(_ context.Context, amount float64, currency, _ string) (Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateIntentErr != nil {
		return Intent{}, m.CreateIntentErr
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	in := Intent{
		ID:           "pi_mock_" + token[:24],
		ClientSecret: fmt.Sprintf("pi_mock_%s_secret_%s", token[:24], token[24:]),
		Amount:       amount,
		Currency:     currency,
		Status:       models.PaymentStatusRequiresPaymentMethod,
	}
	m.intents[in.ID] = in
	return in, nil
}

// GetIntent answers for any id, known or not; the mock confirms
// unconditionally.
func (m *Mock) GetIntent(_ context.Context, intentID string) (Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetIntentErr != nil {
		return Intent{}, m.GetIntentErr
	}

	in, ok := m.intents[intentID]
	if !ok {
		in = Intent{ID: intentID, Currency: "usd"}
	}
	in.Status = models.PaymentStatusSucceeded
	m.intents[intentID] = in
	return in, nil
}

func (m *Mock) CancelIntent(_ context.Context, intentID string) (Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CancelIntentErr != nil {
		return Intent{}, m.CancelIntentErr
	}

	in, ok := m.intents[intentID]
	if !ok {
		in = Intent{ID: intentID, Currency: "usd"}
	}
	in.Status = models.PaymentStatusCanceled
	m.intents[intentID] = in
	return in, nil
}
