package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/internal/notification"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/config"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/logger"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/monitoring"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/types"
)

// Repository defines the persistence surface the booking service depends on.
type Repository interface {
	CreateAppointment(ctx context.Context, apt *types.Appointment) error
	GetAppointmentByID(ctx context.Context, id string) (*types.Appointment, error)
	GetAppointments(ctx context.Context, filters *types.AppointmentFilters) ([]*types.Appointment, error)
}

// Service handles appointment intake and lookup.
type Service struct {
	config     *config.Config
	logger     *logger.Logger
	repository Repository
	mailer     notification.Mailer
	metrics    *monitoring.MetricsCollector
}

func NewService(cfg *config.Config, log *logger.Logger, repo Repository, mailer notification.Mailer, metrics *monitoring.MetricsCollector) *Service {
	return &Service{
		config:     cfg,
		logger:     log,
		repository: repo,
		mailer:     mailer,
		metrics:    metrics,
	}
}

// CreateAppointment validates the intake request and persists the
// appointment. Two requests for the same date and slot are both accepted;
// slot contention is resolved by clinic staff, not by the API.
func (s *Service) CreateAppointment(ctx context.Context, req *types.AppointmentRequest) (*types.Appointment, error) {
	date, verr := validateIntake(req)
	if verr != nil {
		s.logger.WithFields(map[string]interface{}{
			"error_code": verr.Code,
			"time_slot":  req.TimeSlot,
		}).Warn("Appointment intake rejected")
		if s.metrics != nil {
			s.metrics.RecordBooking("rejected")
		}
		return nil, verr
	}

	apt := &types.Appointment{
		ID:            uuid.New().String(),
		PatientName:   req.PatientName,
		PatientAge:    *req.PatientAge,
		PatientGender: req.PatientGender,
		Day:           req.Day,
		Date:          date,
		TimeSlot:      req.TimeSlot,
		Comment:       req.Comment,
		Symptoms:      req.Symptoms,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	if err := s.repository.CreateAppointment(ctx, apt); err != nil {
		s.logger.WithError(err).Error("Failed to persist appointment")
		if s.metrics != nil {
			s.metrics.RecordBooking("error")
		}
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to create appointment", err)
	}

	s.logger.Audit("", "appointment_created", apt.ID, true, map[string]interface{}{
		"date":      apt.Date,
		"time_slot": apt.TimeSlot,
	})
	if s.metrics != nil {
		s.metrics.RecordBooking("created")
	}

	// Notify the clinic inbox. A mail failure never fails the booking.
	if s.mailer != nil && s.config.Mail.ClinicInbox != "" {
		subject := "New appointment booked"
		body := fmt.Sprintf("Appointment for %s on %s (%s), slot %s.",
			apt.PatientName, apt.Date, apt.Day, apt.TimeSlot)
		if mailErr := s.mailer.SendEmail(s.config.Mail.ClinicInbox, subject, body); mailErr != nil {
			s.logger.WithError(mailErr).Warn("Failed to send booking notification")
		}
	}

	return apt, nil
}

// GetAppointment returns a single appointment by ID.
func (s *Service) GetAppointment(ctx context.Context, id string) (*types.Appointment, error) {
	if id == "" {
		return nil, types.NewValidationError(types.ErrCodeMissingInput, "appointment ID is required")
	}

	apt, err := s.repository.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return apt, nil
}

// ListAppointments returns appointments matching the given filters.
func (s *Service) ListAppointments(ctx context.Context, filters *types.AppointmentFilters) ([]*types.Appointment, error) {
	if filters == nil {
		filters = &types.AppointmentFilters{}
	}
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 50
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	if filters.Date != "" {
		filters.Date = normalizeDate(filters.Date)
	}

	appointments, err := s.repository.GetAppointments(ctx, filters)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list appointments")
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to list appointments", err)
	}
	return appointments, nil
}
