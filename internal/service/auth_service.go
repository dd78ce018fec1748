package service

import (
	"errors"
	"strings"
	"time"

	"github.com/expensio/internal/config"
	"github.com/expensio/internal/models"
	"github.com/expensio/internal/repository"
	"github.com/expensio/pkg/crypto"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
)

// UserStore is the persistence boundary for user records
type UserStore interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	ExistsByEmail(email string) (bool, error)
}

// AuthService handles registration, login and bearer tokens
type AuthService struct {
	userStore UserStore
	jwtConfig config.JWTConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(userStore UserStore, jwtConfig config.JWTConfig) *AuthService {
	return &AuthService{
		userStore: userStore,
		jwtConfig: jwtConfig,
	}
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=40"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by successful register and login calls
type AuthResponse struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	ExpiresIn   int               `json:"expires_in"`
	User        models.PublicUser `json:"user"`
}

// JWTClaims carries the user identity. It is deliberately the only
// application claim: every authorization decision downstream compares
// this ID against record ownership, never any other token content.
type JWTClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// NormalizeEmail lowercases and trims an email for case-insensitive matching
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register registers a new user
func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	email := NormalizeEmail(req.Email)

	exists, err := s.userStore.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := s.userStore.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user. Unknown email and wrong password produce
// the same error so account existence is never leaked.
func (s *AuthService) Login(req *LoginRequest) (*models.User, error) {
	user, err := s.userStore.GetByEmail(NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// IssueToken mints a signed bearer token response for a user
func (s *AuthService) IssueToken(user *models.User) (*AuthResponse, error) {
	expiresIn := time.Duration(s.jwtConfig.ExpireHours) * time.Hour

	claims := &JWTClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "expensio",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken: tokenString,
		TokenType:   "Bearer",
		ExpiresIn:   s.jwtConfig.ExpireHours * 3600,
		User:        user.Public(),
	}, nil
}

// ValidateToken verifies signature and expiry and returns the claims.
// Expired, tampered and malformed tokens are indistinguishable to the
// caller.
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtConfig.Secret), nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
