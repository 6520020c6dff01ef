package types

import "time"

// OtpRecord is a short-lived one-time code tied to an email address.
// Verification always compares against the most recently created record.
type OtpRecord struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Code      string    `json:"-" db:"code"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ResetToken is a single-use credential-reset grant. ExpiresAt is epoch
// milliseconds; the token is valid only while ExpiresAt is strictly in the
// future.
type ResetToken struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Token     string    `json:"-" db:"token"`
	ExpiresAt int64     `json:"expiresAt" db:"expires_at"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Expired reports whether the grant is no longer redeemable at now.
func (t *ResetToken) Expired(now time.Time) bool {
	return t.ExpiresAt <= now.UnixMilli()
}

// OrderRequest is the payment order creation body.
type OrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency,omitempty"`
	Receipt  string `json:"receipt,omitempty"`
}

// PaymentOrder is the provider order object passed through to clients.
type PaymentOrder struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
	Created  int64  `json:"created_at"`
}
