package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/expensio/internal/models"
	"github.com/redis/go-redis/v9"
)

var (
	ErrOtpNotFound = errors.New("otp record not found")
)

// otpKeyTTL keeps consumed-or-forgotten records from accumulating in
// Redis. It is deliberately longer than the application-level validity
// window: expiry decisions are made from the record's CreatedAt, never
// from whether Redis has garbage-collected the key yet.
const otpKeyTTL = 15 * time.Minute

// OtpRepository stores one-time passcodes in Redis, one record per email
type OtpRepository struct {
	redis *redis.Client
}

// NewOtpRepository creates a new OtpRepository
func NewOtpRepository(redisClient *redis.Client) *OtpRepository {
	return &OtpRepository{redis: redisClient}
}

func otpKey(email string) string {
	return "otp:" + email
}

// Upsert stores the record for its email, replacing any previous one
func (r *OtpRepository) Upsert(ctx context.Context, record *models.OtpRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.redis.Set(ctx, otpKey(record.Email), data, otpKeyTTL).Err()
}

// GetByEmail retrieves the live record for an email
func (r *OtpRepository) GetByEmail(ctx context.Context, email string) (*models.OtpRecord, error) {
	data, err := r.redis.Get(ctx, otpKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrOtpNotFound
		}
		return nil, err
	}

	var record models.OtpRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete removes the record for an email
func (r *OtpRepository) Delete(ctx context.Context, email string) error {
	return r.redis.Del(ctx, otpKey(email)).Err()
}
