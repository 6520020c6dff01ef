package types

import "time"

// Appointment represents one patient's request for a consultation slot.
// The date is stored in its canonical dd/mm/yyyy form.
type Appointment struct {
	ID            string    `json:"id" db:"id"`
	PatientName   string    `json:"patientName" db:"patient_name"`
	PatientAge    int       `json:"patientAge" db:"patient_age"`
	PatientGender string    `json:"patientGender" db:"patient_gender"`
	Day           string    `json:"appointmentDay" db:"appointment_day"`
	Date          string    `json:"appointmentDate" db:"appointment_date"`
	TimeSlot      string    `json:"appointmentTimeSlot" db:"time_slot"`
	Comment       string    `json:"comment,omitempty" db:"comment"`
	Symptoms      string    `json:"symptoms,omitempty" db:"symptoms"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// AppointmentTimeSlots is the fixed allow-list of bookable one-hour bands.
// The 12:00-13:00 band is deliberately absent.
var AppointmentTimeSlots = []string{
	"08:00-09:00",
	"09:00-10:00",
	"10:00-11:00",
	"11:00-12:00",
	"13:00-14:00",
	"14:00-15:00",
	"15:00-16:00",
	"16:00-17:00",
}

// ValidTimeSlot reports whether slot is a member of AppointmentTimeSlots.
func ValidTimeSlot(slot string) bool {
	for _, s := range AppointmentTimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// AppointmentGenders enumerates the accepted patient gender values.
var AppointmentGenders = []string{"Male", "Female", "Other", "Prefer not to say"}

// ValidGender reports whether gender is one of the enumerated values.
func ValidGender(gender string) bool {
	for _, g := range AppointmentGenders {
		if g == gender {
			return true
		}
	}
	return false
}

// AppointmentDays enumerates the accepted day-of-week values.
var AppointmentDays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// ValidDay reports whether day is one of the enumerated values.
func ValidDay(day string) bool {
	for _, d := range AppointmentDays {
		if d == day {
			return true
		}
	}
	return false
}

// AppointmentRequest is the raw intake submission before validation.
type AppointmentRequest struct {
	PatientName   string `json:"patientName"`
	PatientAge    *int   `json:"patientAge"`
	PatientGender string `json:"patientGender"`
	Day           string `json:"appointmentDay"`
	Date          string `json:"appointmentDate"`
	TimeSlot      string `json:"appointmentTimeSlot"`
	Comment       string `json:"comment,omitempty"`
	Symptoms      string `json:"symptoms,omitempty"`
}

// AppointmentFilters represents filters for appointment listing
type AppointmentFilters struct {
	PatientName string `json:"patientName,omitempty"`
	Date        string `json:"appointmentDate,omitempty"`
	TimeSlot    string `json:"appointmentTimeSlot,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}
