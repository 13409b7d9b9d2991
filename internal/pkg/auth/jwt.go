package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
)

// JWT errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid authorization header format")
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey      string
	AccessTokenExp time.Duration
	TokenIssuer    string
}

// JWTService issues and verifies bearer tokens
type JWTService struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
		now:    time.Now,
	}
}

// Claims is the signed token payload
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the decoded identity behind a verified token. Role decides
// whether ID refers to a trainer or a student.
type Principal struct {
	Role models.Role
	ID   uuid.UUID
}

// IsTrainer reports whether the principal is a trainer
func (p Principal) IsTrainer() bool { return p.Role == models.RoleTrainer }

// IsStudent reports whether the principal is a student
func (p Principal) IsStudent() bool { return p.Role == models.RoleStudent }

// GenerateToken signs a token for the given principal
func (s *JWTService) GenerateToken(p Principal) (string, error) {
	if !p.Role.Valid() || p.ID == uuid.Nil {
		return "", ErrInvalidToken
	}

	now := s.now()
	claims := &Claims{
		ID:   p.ID.String(),
		Role: string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessTokenExp)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   p.ID.String(),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ExpiresIn returns the token lifetime in seconds
func (s *JWTService) ExpiresIn() int {
	return int(s.config.AccessTokenExp.Seconds())
}

// ValidateToken verifies signature and expiry and decodes the principal.
// A payload with an unknown role or a malformed id is rejected.
func (s *JWTService) ValidateToken(tokenString string) (Principal, error) {
	if tokenString == "" {
		return Principal{}, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, ErrExpiredToken
		}
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	role := models.Role(claims.Role)
	if !role.Valid() {
		return Principal{}, ErrInvalidToken
	}
	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return Principal{}, ErrInvalidToken
	}

	return Principal{Role: role, ID: id}, nil
}

// ExtractBearerToken extracts the token from an "Authorization: Bearer <token>" header
func ExtractBearerToken(authHeader string) (string, error) {
	scheme, token, found := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidFormat
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidFormat
	}
	return token, nil
}
