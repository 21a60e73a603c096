package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"

	"github.com/brainydocs/brainydocs/internal/config"
	"github.com/brainydocs/brainydocs/internal/domain"
	"github.com/brainydocs/brainydocs/internal/repository"
)

// Claims are the JWT claims issued to authenticated users
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// GoogleIdentity is the subset of a verified Google ID token we use
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
}

// GoogleVerifier verifies a Google ID token against an OAuth client ID.
// Swappable so tests don't call Google.
type GoogleVerifier func(ctx context.Context, token, audience string) (*GoogleIdentity, error)

func verifyGoogleToken(ctx context.Context, token, audience string) (*GoogleIdentity, error) {
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return nil, err
	}

	identity := &GoogleIdentity{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		identity.Name = name
	}
	return identity, nil
}

// AuthService handles signup, login, Google sign-in and token issuance
type AuthService struct {
	userRepo       *repository.UserRepository
	secret         []byte
	ttl            time.Duration
	googleClientID string
	verifyGoogle   GoogleVerifier
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		secret:         []byte(cfg.JWTSecret),
		ttl:            cfg.JWTTTL,
		googleClientID: cfg.GoogleClientID,
		verifyGoogle:   verifyGoogleToken,
	}
}

// Signup registers a local account and returns a signed token
func (s *AuthService) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetByEmail(email, domain.ProviderLocal)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	name := req.Name
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		Provider:     domain.ProviderLocal,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login authenticates a local account. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(email, domain.ProviderLocal)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Google authenticates with a Google ID token, creating the user on
// first sign-in.
func (s *AuthService) Google(ctx context.Context, req *domain.GoogleAuthRequest) (*domain.AuthResponse, error) {
	identity, err := s.verifyGoogle(ctx, req.IDToken, s.googleClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid google token: %v", domain.ErrInvalidRequest, err)
	}
	if identity.Email == "" {
		return nil, fmt.Errorf("%w: google token missing email", domain.ErrInvalidRequest)
	}

	email := strings.ToLower(identity.Email)
	user, err := s.userRepo.GetByEmail(email, domain.ProviderGoogle)
	if err != nil {
		return nil, err
	}
	if user == nil {
		name := identity.Name
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		user = &domain.User{
			Email:     email,
			Name:      name,
			Provider:  domain.ProviderGoogle,
			GoogleSub: identity.Subject,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, err
		}
	}

	return s.issue(user)
}

// GetUser loads a user by ID, used by the auth middleware
func (s *AuthService) GetUser(id string) (*domain.User, error) {
	user, err := s.userRepo.Get(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// ParseToken validates a signed token and returns its claims
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

func (s *AuthService) issue(user *domain.User) (*domain.AuthResponse, error) {
	now := time.Now()
	claims := &Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &domain.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user.Public(),
	}, nil
}
