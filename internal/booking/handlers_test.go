package booking

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/types"
)

func setupTestRouter() (*mux.Router, *MockBookingRepository) {
	service, mockRepo := setupTestService()

	router := mux.NewRouter()
	service.RegisterRoutes(router.PathPrefix("/api/v1").Subrouter())

	return router, mockRepo
}

func TestCreateAppointmentHandler_Success(t *testing.T) {
	router, mockRepo := setupTestRouter()

	mockRepo.On("CreateAppointment", mock.Anything, mock.AnythingOfType("*types.Appointment")).Return(nil)

	body, _ := json.Marshal(validRequest())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Appointment booked successfully", resp["message"])
}

func TestCreateAppointmentHandler_MissingFields(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error struct {
			Code   string              `json:"code"`
			Fields []types.FieldError  `json:"fields"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, types.ErrCodeMissingFields, resp.Error.Code)
	assert.Len(t, resp.Error.Fields, 6)
}

func TestCreateAppointmentHandler_InvalidBody(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewReader([]byte(`{not json`)))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAppointmentHandler_NotFound(t *testing.T) {
	router, mockRepo := setupTestRouter()

	mockRepo.On("GetAppointmentByID", mock.Anything, "missing").
		Return(nil, types.NewNotFoundError(types.ErrCodeRecordNotFound, "appointment not found"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/missing", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAppointmentsHandler_QueryFilters(t *testing.T) {
	router, mockRepo := setupTestRouter()

	mockRepo.On("GetAppointments", mock.Anything, mock.AnythingOfType("*types.AppointmentFilters")).
		Run(func(args mock.Arguments) {
			filters := args.Get(1).(*types.AppointmentFilters)
			assert.Equal(t, "Asha", filters.PatientName)
			assert.Equal(t, "09:00-10:00", filters.TimeSlot)
			assert.Equal(t, 10, filters.Limit)
		}).
		Return([]*types.Appointment{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments?patientName=Asha&timeSlot=09:00-10:00&limit=10", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockRepo.AssertExpectations(t)
}
