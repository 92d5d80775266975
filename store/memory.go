package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"catalog-svc/models"
)

// newestFirst orders by creation time descending, falling back to id
// so records created in the same instant keep a stable order.
func newestFirst(ti time.Time, idi int64, tj time.Time, idj int64) bool {
	if !ti.Equal(tj) {
		return ti.After(tj)
	}
	return idi > idj
}

// The memory stores hold records in process-local maps guarded by an
// RWMutex. Records are stored and returned by value, so callers never
// share state with the store. Concurrent writers are last-writer-wins.

type MemoryProducts struct {
	mu   sync.RWMutex
	rows map[int64]models.Product
	seq  int64
}

func NewMemoryProducts() *MemoryProducts {
	return &MemoryProducts{rows: make(map[int64]models.Product)}
}

func (m *MemoryProducts) Create(_ context.Context, p models.Product) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	p.ID = m.seq
	m.rows[p.ID] = p
	return p, nil
}

func (m *MemoryProducts) GetByID(_ context.Context, id int64) (models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.rows[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return p, nil
}

func (m *MemoryProducts) List(_ context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Product, 0, len(m.rows))
	for _, p := range m.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryProducts) Update(_ context.Context, p models.Product) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[p.ID]; !ok {
		return models.Product{}, ErrNotFound
	}
	m.rows[p.ID] = p
	return p, nil
}

func (m *MemoryProducts) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type MemoryPayments struct {
	mu       sync.RWMutex
	rows     map[int64]models.PaymentIntent
	byIntent map[string]int64
	seq      int64
}

func NewMemoryPayments() *MemoryPayments {
	return &MemoryPayments{
		rows:     make(map[int64]models.PaymentIntent),
		byIntent: make(map[string]int64),
	}
}

func (m *MemoryPayments) Create(_ context.Context, in models.PaymentIntent) (models.PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	in.ID = m.seq
	m.rows[in.ID] = in
	m.byIntent[in.IntentID] = in.ID
	return in, nil
}

func (m *MemoryPayments) GetByIntentID(_ context.Context, intentID string) (models.PaymentIntent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byIntent[intentID]
	if !ok {
		return models.PaymentIntent{}, ErrNotFound
	}
	return m.rows[id], nil
}

func (m *MemoryPayments) List(_ context.Context, customerEmail string) ([]models.PaymentIntent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.PaymentIntent, 0, len(m.rows))
	for _, in := range m.rows {
		if customerEmail != "" && in.CustomerEmail != customerEmail {
			continue
		}
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool { return newestFirst(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

func (m *MemoryPayments) Update(_ context.Context, in models.PaymentIntent) (models.PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[in.ID]; !ok {
		return models.PaymentIntent{}, ErrNotFound
	}
	m.rows[in.ID] = in
	return in, nil
}

type MemoryShipments struct {
	mu      sync.RWMutex
	rows    map[int64]models.Shipment
	byTrack map[string]int64
	seq     int64
}

func NewMemoryShipments() *MemoryShipments {
	return &MemoryShipments{
		rows:    make(map[int64]models.Shipment),
		byTrack: make(map[string]int64),
	}
}

func (m *MemoryShipments) Create(_ context.Context, sh models.Shipment) (models.Shipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	sh.ID = m.seq
	m.rows[sh.ID] = sh
	m.byTrack[sh.TrackingNumber] = sh.ID
	return sh, nil
}

func (m *MemoryShipments) GetByID(_ context.Context, id int64) (models.Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sh, ok := m.rows[id]
	if !ok {
		return models.Shipment{}, ErrNotFound
	}
	return sh, nil
}

func (m *MemoryShipments) GetByTracking(_ context.Context, trackingNumber string) (models.Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byTrack[trackingNumber]
	if !ok {
		return models.Shipment{}, ErrNotFound
	}
	return m.rows[id], nil
}

func (m *MemoryShipments) List(_ context.Context, destinationEmail string) ([]models.Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Shipment, 0, len(m.rows))
	for _, sh := range m.rows {
		if destinationEmail != "" && sh.ToAddress.Email != destinationEmail {
			continue
		}
		out = append(out, sh)
	}
	sort.Slice(out, func(i, j int) bool { return newestFirst(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

func (m *MemoryShipments) Update(_ context.Context, sh models.Shipment) (models.Shipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[sh.ID]; !ok {
		return models.Shipment{}, ErrNotFound
	}
	m.rows[sh.ID] = sh
	return sh, nil
}
