package booking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/database"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/logger"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/types"
)

// repository implements Repository on top of PostgreSQL.
type repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new booking repository
func NewRepository(db *database.DB, log *logger.Logger) Repository {
	return &repository{
		db:     db,
		logger: log,
	}
}

// CreateAppointment inserts a new appointment row.
func (r *repository) CreateAppointment(ctx context.Context, apt *types.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_name, patient_age, patient_gender, appointment_day,
			appointment_date, time_slot, comment, symptoms, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.PatientName,
		apt.PatientAge,
		apt.PatientGender,
		apt.Day,
		apt.Date,
		apt.TimeSlot,
		apt.Comment,
		apt.Symptoms,
		apt.CreatedAt,
		apt.UpdatedAt,
	)

	if err != nil {
		r.logger.WithError(err).Error("Failed to insert appointment")
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"appointment_id": apt.ID,
		"time_slot":      apt.TimeSlot,
	}).Info("Created appointment")
	return nil
}

// GetAppointmentByID retrieves an appointment by ID.
func (r *repository) GetAppointmentByID(ctx context.Context, id string) (*types.Appointment, error) {
	query := `
		SELECT id, patient_name, patient_age, patient_gender, appointment_day,
			   appointment_date, time_slot, comment, symptoms, created_at, updated_at
		FROM appointments
		WHERE id = $1`

	apt := &types.Appointment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&apt.ID,
		&apt.PatientName,
		&apt.PatientAge,
		&apt.PatientGender,
		&apt.Day,
		&apt.Date,
		&apt.TimeSlot,
		&apt.Comment,
		&apt.Symptoms,
		&apt.CreatedAt,
		&apt.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, types.NewNotFoundError(types.ErrCodeRecordNotFound, "appointment not found")
	}
	if err != nil {
		r.logger.WithError(err).Error("Failed to get appointment")
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	return apt, nil
}

// GetAppointments retrieves appointments matching the given filters, newest
// first.
func (r *repository) GetAppointments(ctx context.Context, filters *types.AppointmentFilters) ([]*types.Appointment, error) {
	query := `
		SELECT id, patient_name, patient_age, patient_gender, appointment_day,
			   appointment_date, time_slot, comment, symptoms, created_at, updated_at
		FROM appointments`

	var conditions []string
	var args []interface{}
	argCount := 0

	if filters.PatientName != "" {
		argCount++
		conditions = append(conditions, fmt.Sprintf("patient_name ILIKE $%d", argCount))
		args = append(args, "%"+filters.PatientName+"%")
	}
	if filters.Date != "" {
		argCount++
		conditions = append(conditions, fmt.Sprintf("appointment_date = $%d", argCount))
		args = append(args, filters.Date)
	}
	if filters.TimeSlot != "" {
		argCount++
		conditions = append(conditions, fmt.Sprintf("time_slot = $%d", argCount))
		args = append(args, filters.TimeSlot)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC"

	argCount++
	query += fmt.Sprintf(" LIMIT $%d", argCount)
	args = append(args, filters.Limit)

	argCount++
	query += fmt.Sprintf(" OFFSET $%d", argCount)
	args = append(args, filters.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to query appointments")
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*types.Appointment
	for rows.Next() {
		apt := &types.Appointment{}
		err := rows.Scan(
			&apt.ID,
			&apt.PatientName,
			&apt.PatientAge,
			&apt.PatientGender,
			&apt.Day,
			&apt.Date,
			&apt.TimeSlot,
			&apt.Comment,
			&apt.Symptoms,
			&apt.CreatedAt,
			&apt.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, apt)
	}

	return appointments, rows.Err()
}
