package types

import "time"

// UserRole represents the account roles in the system
type UserRole string

const (
	RolePatient UserRole = "patient"
	RoleDoctor  UserRole = "doctor"
)

// ValidUserRole reports whether role is one of the enumerated roles.
func ValidUserRole(role UserRole) bool {
	return role == RolePatient || role == RoleDoctor
}

// User represents a patient or doctor account. The password hash is never
// serialized to JSON.
type User struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Mobile         string    `json:"mobile" db:"mobile"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	Role           UserRole  `json:"role" db:"role"`
	DOB            string    `json:"dob,omitempty" db:"dob"`
	Address        string    `json:"address,omitempty" db:"address"`
	Gender         string    `json:"gender,omitempty" db:"gender"`
	Specialization string    `json:"specialization,omitempty" db:"specialization"`
	LicenseNumber  string    `json:"licenseNumber,omitempty" db:"license_number"`
	Experience     string    `json:"experience,omitempty" db:"experience"`
	FullName       string    `json:"fullName,omitempty" db:"full_name"`
	ProfilePhoto   string    `json:"profilePhoto,omitempty" db:"profile_photo"`
	Category       string    `json:"category,omitempty" db:"category"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// PublicView returns the sanitized representation handed back to clients.
func (u *User) PublicView() *PublicUser {
	return &PublicUser{
		ID:             u.ID,
		Name:           u.Name,
		Mobile:         u.Mobile,
		Email:          u.Email,
		Role:           u.Role,
		Specialization: u.Specialization,
		FullName:       u.FullName,
		ProfilePhoto:   u.ProfilePhoto,
		Category:       u.Category,
		CreatedAt:      u.CreatedAt,
	}
}

// PublicUser is the sanitized user view returned by registration, login and
// profile endpoints.
type PublicUser struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Mobile         string    `json:"mobile"`
	Email          string    `json:"email"`
	Role           UserRole  `json:"role"`
	Specialization string    `json:"specialization,omitempty"`
	FullName       string    `json:"fullName,omitempty"`
	ProfilePhoto   string    `json:"profilePhoto,omitempty"`
	Category       string    `json:"category,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// RegistrationRequest represents account registration data
type RegistrationRequest struct {
	Name           string   `json:"name"`
	Mobile         string   `json:"mobile"`
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	Role           UserRole `json:"role"`
	DOB            string   `json:"dob,omitempty"`
	Address        string   `json:"address,omitempty"`
	Gender         string   `json:"gender,omitempty"`
	Specialization string   `json:"specialization,omitempty"`
	LicenseNumber  string   `json:"licenseNumber,omitempty"`
	Experience     string   `json:"experience,omitempty"`
}

// Credentials represents login credentials
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthToken represents the session token response
type AuthToken struct {
	AccessToken string      `json:"accessToken"`
	TokenType   string      `json:"tokenType"`
	ExpiresIn   int64       `json:"expiresIn"`
	IssuedAt    time.Time   `json:"issuedAt"`
	User        *PublicUser `json:"user"`
}

// ProfileUpdates carries the mutable profile fields of the PATCH endpoint.
// Nil pointers mean "leave unchanged".
type ProfileUpdates struct {
	FullName     *string `json:"fullName,omitempty"`
	ProfilePhoto *string `json:"profilePhoto,omitempty"`
	Category     *string `json:"category,omitempty"`
}

// Empty reports whether no field was supplied.
func (p *ProfileUpdates) Empty() bool {
	return p.FullName == nil && p.ProfilePhoto == nil && p.Category == nil
}

// PasswordChangeRequest represents the authenticated password rotation body.
type PasswordChangeRequest struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}
