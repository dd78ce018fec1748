package service

import (
	"testing"

	"github.com/expensio/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService() (*AuthService, *fakeUserStore) {
	store := newFakeUserStore()
	return NewAuthService(store, config.JWTConfig{
		Secret:      "test-secret",
		ExpireHours: 12,
	}), store
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newTestAuthService()

	user, err := svc.Register(&RegisterRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email, "email is stored lowercased")
	assert.NotEqual(t, "sup3rsecret", user.PasswordHash)

	loggedIn, err := svc.Login(&LoginRequest{
		Email:    "alice@example.com",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	auth, err := svc.IssueToken(loggedIn)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", auth.TokenType)
	assert.Equal(t, user.ID, auth.User.ID)

	claims, err := svc.ValidateToken(auth.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID, "token identity matches the created user")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, store := newTestAuthService()

	_, err := svc.Register(&RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "sup3rsecret"})
	require.NoError(t, err)

	_, err = svc.Register(&RegisterRequest{Name: "Imposter", Email: "ALICE@example.com", Password: "other-password"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Len(t, store.users, 1, "no second user record is created")
}

func TestLoginDoesNotLeakAccountExistence(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(&RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "sup3rsecret"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(&LoginRequest{Email: "alice@example.com", Password: "wrong"})
	_, unknownEmail := svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "sup3rsecret"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownEmail, "wrong password and unknown email are indistinguishable")
}

func TestHashingIsSalted(t *testing.T) {
	svc, _ := newTestAuthService()

	first, err := svc.Register(&RegisterRequest{Name: "A", Email: "a@example.com", Password: "same-password"})
	require.NoError(t, err)
	second, err := svc.Register(&RegisterRequest{Name: "B", Email: "b@example.com", Password: "same-password"})
	require.NoError(t, err)

	assert.NotEqual(t, first.PasswordHash, second.PasswordHash, "same plaintext must hash differently")
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestAuthService()

	user, err := svc.Register(&RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "sup3rsecret"})
	require.NoError(t, err)

	auth, err := svc.IssueToken(user)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"malformed", "not-a-token"},
		{"tampered", auth.AccessToken + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc, store := newTestAuthService()

	user, err := svc.Register(&RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "sup3rsecret"})
	require.NoError(t, err)

	auth, err := svc.IssueToken(user)
	require.NoError(t, err)

	other := NewAuthService(store, config.JWTConfig{Secret: "different-secret", ExpireHours: 12})
	_, err = other.ValidateToken(auth.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	store := newFakeUserStore()
	// Negative expiry makes every issued token already expired.
	svc := NewAuthService(store, config.JWTConfig{Secret: "test-secret", ExpireHours: -1})

	user, err := svc.Register(&RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "sup3rsecret"})
	require.NoError(t, err)

	auth, err := svc.IssueToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(auth.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired token is rejected like a tampered one")
}
