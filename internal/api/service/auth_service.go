package service

import (
	"errors"
	"time"

	"libraryhub/internal/api/models"
	"libraryhub/internal/api/repository"
	"libraryhub/internal/auth"
	"libraryhub/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNameInUse          = errors.New("username already registered")
	ErrEmailInUse         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidToken       = errors.New("could not validate credentials")
)

// Claims is the access token payload. Subject carries the username.
type Claims struct {
	jwt.RegisteredClaims
}

// ConfirmationSender dispatches a registration confirmation out of band.
// Implementations must not block the caller and must swallow their own errors.
type ConfirmationSender interface {
	SendConfirmationAsync(email, username string)
}

type AuthService interface {
	Register(username, email, password string) (*models.User, error)
	CreateAdmin(username, email, password string) (*models.User, error)
	Login(username, password string) (string, error)
	IssueToken(user *models.User) (string, error)
	ValidateToken(tokenString string) (*models.User, error)
}

type authService struct {
	userRepo       repository.UserRepository
	notifier       ConfirmationSender
	jwtSecret      string
	accessTokenTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, notifier ConfirmationSender, cfg *config.Config) AuthService {
	return &authService{
		userRepo:       userRepo,
		notifier:       notifier,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

// Register creates a new regular user and schedules the confirmation email.
// A failed dispatch never fails the registration.
func (s *authService) Register(username, email, password string) (*models.User, error) {
	user, err := s.createUser(username, email, password, false)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.SendConfirmationAsync(user.Email, user.Username)
	}

	return user, nil
}

// CreateAdmin creates a user with the admin flag set. Gating the caller is
// the middleware's job.
func (s *authService) CreateAdmin(username, email, password string) (*models.User, error) {
	return s.createUser(username, email, password, true)
}

func (s *authService) createUser(username, email, password string, admin bool) (*models.User, error) {
	// Check if username exists
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrNameInUse
	}

	// Check if email exists
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailInUse
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		IsActive:     true,
		IsAdmin:      admin,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user and returns a signed access token.
func (s *authService) Login(username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		// Dummy compare to mitigate timing attacks (always take same time)
		auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return "", ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.IssueToken(user)
}

// IssueToken signs a fresh access token for an already-authenticated user.
// Expiry is absolute wall clock, not sliding.
func (s *authService) IssueToken(user *models.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken verifies signature and expiry, then resolves the subject to
// an existing user.
func (s *authService) ValidateToken(tokenString string) (*models.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByUsername(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return user, nil
}
