package booking

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/types"
)

// Intake validation runs as an ordered sequence of named steps. Each step
// returns a typed *types.AppError or nil; the first failure stops the chain.

var (
	isoDateRe       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	canonicalDateRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

const (
	maxNameLength = 200
	maxTextLength = 2000
	maxPatientAge = 150
)

// checkRequiredFields collects every absent required field, not just the
// first one encountered.
func checkRequiredFields(req *types.AppointmentRequest) *types.AppError {
	var missing []types.FieldError

	if strings.TrimSpace(req.PatientName) == "" {
		missing = append(missing, types.FieldError{Field: "patientName", Message: "patientName is required"})
	}
	if req.PatientAge == nil || *req.PatientAge == 0 {
		missing = append(missing, types.FieldError{Field: "patientAge", Message: "patientAge is required"})
	}
	if strings.TrimSpace(req.PatientGender) == "" {
		missing = append(missing, types.FieldError{Field: "patientGender", Message: "patientGender is required"})
	}
	if strings.TrimSpace(req.Day) == "" {
		missing = append(missing, types.FieldError{Field: "appointmentDay", Message: "appointmentDay is required"})
	}
	if strings.TrimSpace(req.Date) == "" {
		missing = append(missing, types.FieldError{Field: "appointmentDate", Message: "appointmentDate is required"})
	}
	if strings.TrimSpace(req.TimeSlot) == "" {
		missing = append(missing, types.FieldError{Field: "appointmentTimeSlot", Message: "appointmentTimeSlot is required"})
	}

	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, f := range missing {
			names = append(names, f.Field)
		}
		return types.NewValidationError(
			types.ErrCodeMissingFields,
			fmt.Sprintf("Missing required fields: %s", strings.Join(names, ", ")),
			missing...,
		)
	}
	return nil
}

// normalizeDate rewrites strict ISO dates (YYYY-MM-DD) to the canonical
// DD/MM/YYYY form by segment reassembly. Anything else passes through
// unchanged.
func normalizeDate(date string) string {
	if !isoDateRe.MatchString(date) {
		return date
	}
	parts := strings.Split(date, "-")
	return fmt.Sprintf("%s/%s/%s", parts[2], parts[1], parts[0])
}

// checkDateFormat validates the canonical dd/mm/yyyy shape. The check is
// syntactic only: impossible calendar dates such as 31/02/2025 pass.
func checkDateFormat(date string) *types.AppError {
	if canonicalDateRe.MatchString(date) {
		return nil
	}
	return types.NewValidationError(
		types.ErrCodeInvalidDateFormat,
		"appointmentDate must be in dd/mm/yyyy format",
		types.FieldError{Field: "appointmentDate", Message: "must match dd/mm/yyyy"},
	)
}

// checkTimeSlot validates slot membership against the fixed allow-list,
// naming the allowed values in the error.
func checkTimeSlot(slot string) *types.AppError {
	if types.ValidTimeSlot(slot) {
		return nil
	}
	return types.NewValidationError(
		types.ErrCodeInvalidSlot,
		fmt.Sprintf("appointmentTimeSlot must be one of: %s", strings.Join(types.AppointmentTimeSlots, ", ")),
		types.FieldError{Field: "appointmentTimeSlot", Message: "not an allowed time slot"},
	)
}

// checkFieldBudgets applies the remaining field-level constraints and
// reports every violation as a {field, message} pair.
func checkFieldBudgets(req *types.AppointmentRequest) *types.AppError {
	var problems []types.FieldError

	if len(req.PatientName) > maxNameLength {
		problems = append(problems, types.FieldError{
			Field:   "patientName",
			Message: fmt.Sprintf("must be at most %d characters", maxNameLength),
		})
	}
	if req.PatientAge != nil && (*req.PatientAge < 0 || *req.PatientAge > maxPatientAge) {
		problems = append(problems, types.FieldError{
			Field:   "patientAge",
			Message: fmt.Sprintf("must be between 0 and %d", maxPatientAge),
		})
	}
	if !types.ValidGender(req.PatientGender) {
		problems = append(problems, types.FieldError{
			Field:   "patientGender",
			Message: fmt.Sprintf("must be one of: %s", strings.Join(types.AppointmentGenders, ", ")),
		})
	}
	if !types.ValidDay(req.Day) {
		problems = append(problems, types.FieldError{
			Field:   "appointmentDay",
			Message: fmt.Sprintf("must be one of: %s", strings.Join(types.AppointmentDays, ", ")),
		})
	}
	if len(req.Comment) > maxTextLength {
		problems = append(problems, types.FieldError{
			Field:   "comment",
			Message: fmt.Sprintf("must be at most %d characters", maxTextLength),
		})
	}
	if len(req.Symptoms) > maxTextLength {
		problems = append(problems, types.FieldError{
			Field:   "symptoms",
			Message: fmt.Sprintf("must be at most %d characters", maxTextLength),
		})
	}

	if len(problems) > 0 {
		return types.NewValidationError(
			types.ErrCodeSchemaValidation,
			"Appointment validation failed",
			problems...,
		)
	}
	return nil
}

// validateIntake runs the ordered validation chain and returns the request's
// normalized date on success.
func validateIntake(req *types.AppointmentRequest) (string, *types.AppError) {
	if err := checkRequiredFields(req); err != nil {
		return "", err
	}

	date := normalizeDate(req.Date)

	if err := checkDateFormat(date); err != nil {
		return "", err
	}
	if err := checkTimeSlot(req.TimeSlot); err != nil {
		return "", err
	}
	if err := checkFieldBudgets(req); err != nil {
		return "", err
	}

	return date, nil
}
