package database

import (
	"database/sql"
	"fmt"

	"catalog-svc/config"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func InitDB(cfg config.Database, logger *zap.Logger) (*sql.DB, error) {
	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Create tables if they don't exist
	createTableQuery := `
	CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price DECIMAL(10, 2) NOT NULL,
		category VARCHAR(255) NOT NULL DEFAULT '',
		ai_description TEXT NOT NULL DEFAULT '',
		ai_positioning TEXT NOT NULL DEFAULT '',
		ai_pricing_analysis TEXT NOT NULL DEFAULT '',
		ai_suggested_category VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_analyzed_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS payment_intents (
		id SERIAL PRIMARY KEY,
		intent_id VARCHAR(255) NOT NULL UNIQUE,
		product_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL,
		amount DECIMAL(10, 2) NOT NULL,
		currency VARCHAR(8) NOT NULL DEFAULT 'usd',
		status VARCHAR(32) NOT NULL,
		customer_email VARCHAR(255) NOT NULL DEFAULT '',
		customer_name VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		completed_at TIMESTAMP,
		failure_reason TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS shipments (
		id SERIAL PRIMARY KEY,
		tracking_number VARCHAR(32) NOT NULL UNIQUE,
		carrier VARCHAR(16) NOT NULL,
		speed VARCHAR(16) NOT NULL,
		status VARCHAR(32) NOT NULL,
		payment_intent_id VARCHAR(255) NOT NULL DEFAULT '',
		from_address JSONB NOT NULL,
		to_address JSONB NOT NULL,
		dimensions JSONB NOT NULL,
		cost DECIMAL(10, 2) NOT NULL,
		currency VARCHAR(8) NOT NULL DEFAULT 'usd',
		label_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		estimated_delivery TIMESTAMP NOT NULL,
		actual_delivery TIMESTAMP,
		notes TEXT NOT NULL DEFAULT ''
	);
	`

	if _, err := db.Exec(createTableQuery); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info("Database connection established")
	return db, nil
}
