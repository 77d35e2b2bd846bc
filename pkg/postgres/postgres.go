package postgres

import (
	"database/sql"
	"fmt"

	"github.com/micdrop/openmic/config"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Successfully connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'guest',
			bio TEXT DEFAULT '',
			photo VARCHAR(255) DEFAULT 'default.jpg',
			comedy_style VARCHAR(50) DEFAULT '',
			experience_level VARCHAR(50) DEFAULT '',
			instagram VARCHAR(255) DEFAULT '',
			twitter VARCHAR(255) DEFAULT '',
			website VARCHAR(255) DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS venues (
			id SERIAL PRIMARY KEY,
			owner_id INTEGER NOT NULL REFERENCES users(id),
			name VARCHAR(255) NOT NULL,
			street VARCHAR(255) NOT NULL,
			city VARCHAR(100) NOT NULL,
			state VARCHAR(50) NOT NULL,
			zipcode VARCHAR(20) NOT NULL,
			latitude DOUBLE PRECISION DEFAULT 0,
			longitude DOUBLE PRECISION DEFAULT 0,
			description TEXT NOT NULL,
			show_title VARCHAR(255) DEFAULT '',
			operating_hours VARCHAR(255) DEFAULT '',
			price NUMERIC(10,2) DEFAULT 0,
			drink_minimum NUMERIC(10,2) DEFAULT 0,
			performer_slots INTEGER DEFAULT 10,
			capacity INTEGER DEFAULT 0,
			has_stage BOOLEAN DEFAULT TRUE,
			has_microphone BOOLEAN DEFAULT TRUE,
			has_lighting BOOLEAN DEFAULT FALSE,
			has_sound_system BOOLEAN DEFAULT TRUE,
			rating NUMERIC(3,2) DEFAULT 0,
			num_reviews INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS events (
			id SERIAL PRIMARY KEY,
			venue_id INTEGER NOT NULL REFERENCES venues(id),
			host_id INTEGER NOT NULL REFERENCES users(id),
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			date TIMESTAMP NOT NULL,
			start_time VARCHAR(20) NOT NULL,
			end_time VARCHAR(20) NOT NULL,
			cost NUMERIC(10,2) DEFAULT 0,
			total_slots INTEGER NOT NULL CHECK (total_slots > 0),
			slot_duration INTEGER NOT NULL DEFAULT 5,
			status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
			slot_cursor INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS performers (
			event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			user_id INTEGER NOT NULL REFERENCES users(id),
			slot_number INTEGER NOT NULL,
			is_confirmed BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (event_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS attendees (
			event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			user_id INTEGER NOT NULL REFERENCES users(id),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (event_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS reviews (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			venue_id INTEGER NOT NULL REFERENCES venues(id) ON DELETE CASCADE,
			event_id INTEGER REFERENCES events(id),
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			title VARCHAR(100) DEFAULT '',
			comment VARCHAR(500) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, venue_id)
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_events_venue_id ON events(venue_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_host_id ON events(host_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_date ON events(date)`,
		`CREATE INDEX IF NOT EXISTS idx_events_status ON events(status)`,
		`CREATE INDEX IF NOT EXISTS idx_performers_user_id ON performers(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_attendees_user_id ON attendees(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_venues_zipcode ON venues(zipcode)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_venue_id ON reviews(venue_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}
