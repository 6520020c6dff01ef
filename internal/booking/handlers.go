package booking

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/types"
)

// RegisterRoutes configures HTTP routes for the booking service.
func (s *Service) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/appointments", s.createAppointmentHandler).Methods("POST")
	api.HandleFunc("/appointments", s.listAppointmentsHandler).Methods("GET")
	api.HandleFunc("/appointments/{id}", s.getAppointmentHandler).Methods("GET")

	s.logger.Info("Booking routes configured")
}

// createAppointmentHandler handles appointment intake
func (s *Service) createAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	var req types.AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, types.NewValidationError(types.ErrCodeSchemaValidation, "Invalid request body"))
		return
	}

	apt, err := s.CreateAppointment(r.Context(), &req)
	if err != nil {
		s.writeErrorResponse(w, types.AsAppError(err))
		return
	}

	s.writeJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"message":     "Appointment booked successfully",
		"appointment": apt,
	})
}

// getAppointmentHandler handles appointment retrieval
func (s *Service) getAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	apt, err := s.GetAppointment(r.Context(), vars["id"])
	if err != nil {
		s.writeErrorResponse(w, types.AsAppError(err))
		return
	}

	s.writeJSONResponse(w, http.StatusOK, apt)
}

// listAppointmentsHandler handles appointment listing with query filters
func (s *Service) listAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	filters := parseAppointmentFilters(r)

	appointments, err := s.ListAppointments(r.Context(), filters)
	if err != nil {
		s.writeErrorResponse(w, types.AsAppError(err))
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// parseAppointmentFilters extracts listing filters from query parameters
func parseAppointmentFilters(r *http.Request) *types.AppointmentFilters {
	filters := &types.AppointmentFilters{}

	filters.PatientName = r.URL.Query().Get("patientName")
	filters.Date = r.URL.Query().Get("date")
	filters.TimeSlot = r.URL.Query().Get("timeSlot")

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil {
			filters.Limit = parsed
		}
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		if parsed, err := strconv.Atoi(offset); err == nil {
			filters.Offset = parsed
		}
	}

	return filters
}

// writeJSONResponse writes a JSON response
func (s *Service) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// writeErrorResponse writes a structured error response
func (s *Service) writeErrorResponse(w http.ResponseWriter, appErr *types.AppError) {
	response := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	}
	if len(appErr.Fields) > 0 {
		response["error"].(map[string]interface{})["fields"] = appErr.Fields
	}

	s.writeJSONResponse(w, appErr.HTTPStatus(), response)
}
