package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"catalog-svc/models"
)

// The postgres stores persist the same records the memory stores hold,
// one table per entity. Addresses and dimensions live in JSONB columns
// so the row layout stays close to the wire format.

type PostgresProducts struct {
	db *sql.DB
}

func NewPostgresProducts(db *sql.DB) *PostgresProducts {
	return &PostgresProducts{db: db}
}

const productColumns = `id, name, description, price, category,
	ai_description, ai_positioning, ai_pricing_analysis, ai_suggested_category,
	created_at, last_analyzed_at`

func scanProduct(row interface{ Scan(...any) error }) (models.Product, error) {
	var p models.Product
	var analyzedAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.AIDescription, &p.AIPositioning, &p.AIPricingAnalysis, &p.AISuggestedCategory,
		&p.CreatedAt, &analyzedAt,
	)
	if err != nil {
		return models.Product{}, err
	}
	if analyzedAt.Valid {
		p.LastAnalyzedAt = &analyzedAt.Time
	}
	return p, nil
}

func (s *PostgresProducts) Create(ctx context.Context, p models.Product) (models.Product, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO products (name, description, price, category, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		p.Name, p.Description, p.Price, p.Category, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (s *PostgresProducts) GetByID(ctx context.Context, id int64) (models.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

func (s *PostgresProducts) List(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresProducts) Update(ctx context.Context, p models.Product) (models.Product, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = $1, description = $2, price = $3, category = $4,
		 ai_description = $5, ai_positioning = $6, ai_pricing_analysis = $7,
		 ai_suggested_category = $8, last_analyzed_at = $9
		 WHERE id = $10`,
		p.Name, p.Description, p.Price, p.Category,
		p.AIDescription, p.AIPositioning, p.AIPricingAnalysis,
		p.AISuggestedCategory, p.LastAnalyzedAt, p.ID,
	)
	if err != nil {
		return models.Product{}, fmt.Errorf("update product: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.Product{}, ErrNotFound
	}
	return p, nil
}

func (s *PostgresProducts) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type PostgresPayments struct {
	db *sql.DB
}

func NewPostgresPayments(db *sql.DB) *PostgresPayments {
	return &PostgresPayments{db: db}
}

const paymentColumns = `id, intent_id, product_id, quantity, amount, currency, status,
	customer_email, customer_name, created_at, completed_at, failure_reason`

func scanPayment(row interface{ Scan(...any) error }) (models.PaymentIntent, error) {
	var in models.PaymentIntent
	var completedAt sql.NullTime
	err := row.Scan(
		&in.ID, &in.IntentID, &in.ProductID, &in.Quantity, &in.Amount, &in.Currency, &in.Status,
		&in.CustomerEmail, &in.CustomerName, &in.CreatedAt, &completedAt, &in.FailureReason,
	)
	if err != nil {
		return models.PaymentIntent{}, err
	}
	if completedAt.Valid {
		in.CompletedAt = &completedAt.Time
	}
	return in, nil
}

func (s *PostgresPayments) Create(ctx context.Context, in models.PaymentIntent) (models.PaymentIntent, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO payment_intents
		 (intent_id, product_id, quantity, amount, currency, status, customer_email, customer_name, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		in.IntentID, in.ProductID, in.Quantity, in.Amount, in.Currency, in.Status,
		in.CustomerEmail, in.CustomerName, in.CreatedAt,
	).Scan(&in.ID)
	if err != nil {
		return models.PaymentIntent{}, fmt.Errorf("insert payment intent: %w", err)
	}
	return in, nil
}

func (s *PostgresPayments) GetByIntentID(ctx context.Context, intentID string) (models.PaymentIntent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payment_intents WHERE intent_id = $1`, intentID)
	in, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return models.PaymentIntent{}, ErrNotFound
	}
	if err != nil {
		return models.PaymentIntent{}, fmt.Errorf("select payment intent: %w", err)
	}
	return in, nil
}

func (s *PostgresPayments) List(ctx context.Context, customerEmail string) ([]models.PaymentIntent, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_intents`
	args := []any{}
	if customerEmail != "" {
		query += ` WHERE customer_email = $1`
		args = append(args, customerEmail)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select payment intents: %w", err)
	}
	defer rows.Close()

	var out []models.PaymentIntent
	for rows.Next() {
		in, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment intent: %w", err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// Update writes only the mutable fields; amount and customer data are
// fixed at creation.
func (s *PostgresPayments) Update(ctx context.Context, in models.PaymentIntent) (models.PaymentIntent, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE payment_intents SET status = $1, completed_at = $2, failure_reason = $3 WHERE id = $4`,
		in.Status, in.CompletedAt, in.FailureReason, in.ID,
	)
	if err != nil {
		return models.PaymentIntent{}, fmt.Errorf("update payment intent: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.PaymentIntent{}, ErrNotFound
	}
	return in, nil
}

type PostgresShipments struct {
	db *sql.DB
}

func NewPostgresShipments(db *sql.DB) *PostgresShipments {
	return &PostgresShipments{db: db}
}

const shipmentColumns = `id, tracking_number, carrier, speed, status, payment_intent_id,
	from_address, to_address, dimensions, cost, currency, label_url,
	created_at, estimated_delivery, actual_delivery, notes`

func scanShipment(row interface{ Scan(...any) error }) (models.Shipment, error) {
	var sh models.Shipment
	var fromJSON, toJSON, dimsJSON []byte
	var actualDelivery sql.NullTime
	err := row.Scan(
		&sh.ID, &sh.TrackingNumber, &sh.Carrier, &sh.Speed, &sh.Status, &sh.PaymentIntentID,
		&fromJSON, &toJSON, &dimsJSON, &sh.Cost, &sh.Currency, &sh.LabelURL,
		&sh.CreatedAt, &sh.EstimatedDelivery, &actualDelivery, &sh.Notes,
	)
	if err != nil {
		return models.Shipment{}, err
	}
	if actualDelivery.Valid {
		sh.ActualDelivery = &actualDelivery.Time
	}
	if err := json.Unmarshal(fromJSON, &sh.FromAddress); err != nil {
		return models.Shipment{}, fmt.Errorf("decode from address: %w", err)
	}
	if err := json.Unmarshal(toJSON, &sh.ToAddress); err != nil {
		return models.Shipment{}, fmt.Errorf("decode to address: %w", err)
	}
	if err := json.Unmarshal(dimsJSON, &sh.Dimensions); err != nil {
		return models.Shipment{}, fmt.Errorf("decode dimensions: %w", err)
	}
	return sh, nil
}

func (s *PostgresShipments) Create(ctx context.Context, sh models.Shipment) (models.Shipment, error) {
	fromJSON, err := json.Marshal(sh.FromAddress)
	if err != nil {
		return models.Shipment{}, fmt.Errorf("encode from address: %w", err)
	}
	toJSON, err := json.Marshal(sh.ToAddress)
	if err != nil {
		return models.Shipment{}, fmt.Errorf("encode to address: %w", err)
	}
	dimsJSON, err := json.Marshal(sh.Dimensions)
	if err != nil {
		return models.Shipment{}, fmt.Errorf("encode dimensions: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`INSERT INTO shipments
		 (tracking_number, carrier, speed, status, payment_intent_id,
		  from_address, to_address, dimensions, cost, currency, label_url,
		  created_at, estimated_delivery, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`,
		sh.TrackingNumber, sh.Carrier, sh.Speed, sh.Status, sh.PaymentIntentID,
		fromJSON, toJSON, dimsJSON, sh.Cost, sh.Currency, sh.LabelURL,
		sh.CreatedAt, sh.EstimatedDelivery, sh.Notes,
	).Scan(&sh.ID)
	if err != nil {
		return models.Shipment{}, fmt.Errorf("insert shipment: %w", err)
	}
	return sh, nil
}

func (s *PostgresShipments) GetByID(ctx context.Context, id int64) (models.Shipment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, id)
	sh, err := scanShipment(row)
	if err == sql.ErrNoRows {
		return models.Shipment{}, ErrNotFound
	}
	if err != nil {
		return models.Shipment{}, fmt.Errorf("select shipment: %w", err)
	}
	return sh, nil
}

func (s *PostgresShipments) GetByTracking(ctx context.Context, trackingNumber string) (models.Shipment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE tracking_number = $1`, trackingNumber)
	sh, err := scanShipment(row)
	if err == sql.ErrNoRows {
		return models.Shipment{}, ErrNotFound
	}
	if err != nil {
		return models.Shipment{}, fmt.Errorf("select shipment: %w", err)
	}
	return sh, nil
}

func (s *PostgresShipments) List(ctx context.Context, destinationEmail string) ([]models.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments`
	args := []any{}
	if destinationEmail != "" {
		query += ` WHERE to_address->>'email' = $1`
		args = append(args, destinationEmail)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select shipments: %w", err)
	}
	defer rows.Close()

	var out []models.Shipment
	for rows.Next() {
		sh, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

// Update writes only the mutable fields; cost, route and dimensions
// are fixed at creation.
func (s *PostgresShipments) Update(ctx context.Context, sh models.Shipment) (models.Shipment, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE shipments SET status = $1, actual_delivery = $2, notes = $3 WHERE id = $4`,
		sh.Status, sh.ActualDelivery, sh.Notes, sh.ID,
	)
	if err != nil {
		return models.Shipment{}, fmt.Errorf("update shipment: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.Shipment{}, ErrNotFound
	}
	return sh, nil
}
