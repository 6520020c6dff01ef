package database

import (
	"context"
	"fmt"
)

// CreateSchema creates the database schema for the booking backend
func (db *DB) CreateSchema(ctx context.Context) error {
	db.logger.Info("Creating database schema...")

	if err := db.createExtensions(ctx); err != nil {
		return fmt.Errorf("failed to create extensions: %w", err)
	}

	tables := []string{
		createUsersTable,
		createAppointmentsTable,
		createOtpCodesTable,
		createResetTokensTable,
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		createUsersIndexes,
		createAppointmentsIndexes,
		createOtpCodesIndexes,
		createResetTokensIndexes,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	db.logger.Info("Database schema created successfully")
	return nil
}

// createExtensions creates required PostgreSQL extensions
func (db *DB) createExtensions(ctx context.Context) error {
	extensions := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, ext := range extensions {
		if _, err := db.ExecContext(ctx, ext); err != nil {
			return fmt.Errorf("failed to create extension: %w", err)
		}
	}

	return nil
}

// SQL DDL statements for table creation
const (
	// Email carries the only uniqueness guarantee; mobile duplicates are
	// rejected in the service layer but not enforced by an index.
	createUsersTable = `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(200) NOT NULL,
			mobile VARCHAR(20) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL,
			dob VARCHAR(20) NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			gender VARCHAR(30) NOT NULL DEFAULT '',
			specialization VARCHAR(100) NOT NULL DEFAULT '',
			license_number VARCHAR(100) NOT NULL DEFAULT '',
			experience VARCHAR(50) NOT NULL DEFAULT '',
			full_name VARCHAR(200) NOT NULL DEFAULT '',
			profile_photo TEXT NOT NULL DEFAULT '',
			category VARCHAR(100) NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	// No uniqueness across (appointment_date, time_slot): concurrent
	// submissions for the same slot are both admitted.
	createAppointmentsTable = `
		CREATE TABLE IF NOT EXISTS appointments (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			patient_name VARCHAR(200) NOT NULL,
			patient_age INTEGER NOT NULL,
			patient_gender VARCHAR(30) NOT NULL,
			appointment_day VARCHAR(10) NOT NULL,
			appointment_date VARCHAR(10) NOT NULL,
			time_slot VARCHAR(11) NOT NULL,
			comment TEXT NOT NULL DEFAULT '',
			symptoms TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createOtpCodesTable = `
		CREATE TABLE IF NOT EXISTS otp_codes (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) NOT NULL,
			code VARCHAR(10) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	// expires_at is epoch milliseconds
	createResetTokensTable = `
		CREATE TABLE IF NOT EXISTS reset_tokens (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) NOT NULL,
			token VARCHAR(64) NOT NULL,
			expires_at BIGINT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`
)

// SQL DDL statements for index creation
const (
	createUsersIndexes = `
		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
		CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);`

	createAppointmentsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(appointment_date);
		CREATE INDEX IF NOT EXISTS idx_appointments_slot ON appointments(appointment_date, time_slot);`

	createOtpCodesIndexes = `
		CREATE INDEX IF NOT EXISTS idx_otp_codes_email ON otp_codes(email, created_at DESC);`

	createResetTokensIndexes = `
		CREATE INDEX IF NOT EXISTS idx_reset_tokens_email_token ON reset_tokens(email, token);`
)
