package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrEmptyKey     = errors.New("signing key is empty")
)

// Claims is the payload of an access token.
// Subject carries the email, ID (jti) a fresh random identifier.
type Claims struct {
	UserID   string   `json:"nameid"`
	UserName string   `json:"unique_name"`
	Roles    []string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the subject a token is minted for.
type Identity struct {
	UserID   string
	Email    string
	UserName string
	Roles    []string
}

// Options configures a Manager. Key is the HMAC secret and never leaves the server.
type Options struct {
	Key      []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Manager issues and validates HS256 tokens
type Manager struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates new JWT manager
func NewManager(opts Options) (*Manager, error) {
	if len(opts.Key) == 0 {
		return nil, ErrEmptyKey
	}
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	return &Manager{
		key:      opts.Key,
		issuer:   opts.Issuer,
		audience: opts.Audience,
		ttl:      opts.TTL,
		now:      time.Now,
	}, nil
}

// Issue signs a token for the identity and returns its compact serialization.
func (m *Manager) Issue(id Identity) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		UserID:   id.UserID,
		UserName: id.UserName,
		Roles:    id.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Email,
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Validate parses the token, verifies signature, expiry, issuer and audience.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
