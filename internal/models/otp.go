package models

import "time"

// OtpRecord is a transient email-verification code. At most one record
// exists per email; requesting a new code replaces the previous one.
// Records live in Redis keyed by email, not in Postgres.
type OtpRecord struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}
