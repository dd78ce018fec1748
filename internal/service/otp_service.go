package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/expensio/internal/models"
	"github.com/expensio/internal/repository"
)

var (
	ErrNoCodeIssued = errors.New("no verification code issued for this email")
	ErrCodeMismatch = errors.New("incorrect verification code")
	ErrCodeExpired  = errors.New("verification code expired")
)

// otpValidityMinutes is the window within which a code may be redeemed
const otpValidityMinutes = 10.0

// OtpStore is the persistence boundary for one-time passcodes
type OtpStore interface {
	Upsert(ctx context.Context, record *models.OtpRecord) error
	GetByEmail(ctx context.Context, email string) (*models.OtpRecord, error)
	Delete(ctx context.Context, email string) error
}

// MailSender dispatches outbound email
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// OtpService drives email verification for account creation
type OtpService struct {
	otpStore    OtpStore
	userStore   UserStore
	mail        MailSender
	authService *AuthService

	now func() time.Time
}

// NewOtpService creates a new OtpService
func NewOtpService(otpStore OtpStore, userStore UserStore, mail MailSender, authService *AuthService) *OtpService {
	return &OtpService{
		otpStore:    otpStore,
		userStore:   userStore,
		mail:        mail,
		authService: authService,
		now:         time.Now,
	}
}

// CheckEmailExists reports whether a user with the email already exists
func (s *OtpService) CheckEmailExists(email string) (bool, error) {
	return s.userStore.ExistsByEmail(NormalizeEmail(email))
}

// RequestCode generates a fresh 6-digit code for the email, replacing
// any previously issued one, and dispatches it by mail. A failed send
// aborts the operation; the caller must never believe a code was
// delivered when it was not.
func (s *OtpService) RequestCode(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	record := &models.OtpRecord{
		Email:     email,
		Code:      code,
		CreatedAt: s.now(),
	}
	if err := s.otpStore.Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code)
	if err := s.mail.Send(ctx, email, "Your verification code", body); err != nil {
		return fmt.Errorf("failed to send code: %w", err)
	}

	return nil
}

// ConfirmAndRegister validates the submitted code and creates the
// account. A wrong code always reports a mismatch, even when the record
// has also expired; expiry is only reported for a matching code.
func (s *OtpService) ConfirmAndRegister(ctx context.Context, req *RegisterRequest, submittedCode string) (*models.User, error) {
	email := NormalizeEmail(req.Email)

	record, err := s.otpStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrOtpNotFound) {
			return nil, ErrNoCodeIssued
		}
		return nil, err
	}

	if record.Code != submittedCode {
		return nil, ErrCodeMismatch
	}

	// Whole-minute comparison from a millisecond difference: a code
	// submitted at exactly the 10-minute boundary is still valid.
	elapsedMinutes := float64(s.now().Sub(record.CreatedAt).Milliseconds()) / 1000 / 60
	if elapsedMinutes > otpValidityMinutes {
		return nil, ErrCodeExpired
	}

	user, err := s.authService.Register(req)
	if err != nil {
		return nil, err
	}

	// One-time use: a second confirmation with the same code must find
	// no record.
	if err := s.otpStore.Delete(ctx, email); err != nil {
		log.Printf("failed to delete consumed otp for %s: %v", email, err)
	}

	return user, nil
}

// generateCode returns a uniformly random 6-digit code, zero-padded
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
