package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrAnonymousRole = errors.New("token does not belong to a signed-in user")
	ErrJWKSFetch     = errors.New("failed to fetch JWKS")
	ErrNotConfigured = errors.New("authentication is not configured")
)

// AuthenticatedRole is the Supabase role carried by signed-in users
const AuthenticatedRole = "authenticated"

// Claims represents Supabase JWT claims
type Claims struct {
	Sub   string `json:"sub"`   // User ID
	Email string `json:"email"` // User email
	Role  string `json:"role"`  // Supabase role (authenticated, anon, service_role)

	UserMetadata map[string]any `json:"user_metadata,omitempty"`

	jwt.RegisteredClaims
}

// JWK represents a JSON Web Key
type JWK struct {
	Kty string `json:"kty"` // Key type
	Kid string `json:"kid"` // Key ID
	Use string `json:"use"` // Public key use
	Alg string `json:"alg"` // Algorithm
	Crv string `json:"crv"` // Curve (for EC keys)
	X   string `json:"x"`   // X coordinate (for EC keys)
	Y   string `json:"y"`   // Y coordinate (for EC keys)
}

// JWKS represents a JSON Web Key Set
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// Option configures the service
type Option func(*Service)

// WithHTTPClient overrides the client used to fetch the key set
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.client = client
	}
}

// WithDevAuth accepts token as a fixed development credential
func WithDevAuth(enabled bool, token string) Option {
	return func(s *Service) {
		s.devAuthEnabled = enabled
		s.devAuthToken = token
	}
}

// Service validates Supabase JWTs against the project's JWKS
type Service struct {
	jwksURL        string
	client         *http.Client
	keys           map[string]*ecdsa.PublicKey
	keysMutex      sync.RWMutex
	lastFetch      time.Time
	cacheDuration  time.Duration
	devAuthEnabled bool
	devAuthToken   string
}

// NewService creates the auth service. The key set is fetched up front; with
// an empty URL only the development token (if enabled) is accepted.
func NewService(jwksURL string, opts ...Option) (*Service, error) {
	service := &Service{
		jwksURL:       jwksURL,
		client:        &http.Client{Timeout: 10 * time.Second},
		keys:          make(map[string]*ecdsa.PublicKey),
		cacheDuration: time.Hour,
	}
	for _, opt := range opts {
		opt(service)
	}

	if jwksURL == "" {
		if !service.devAuthEnabled {
			return nil, fmt.Errorf("JWKS URL is required")
		}
		return service, nil
	}

	if err := service.fetchJWKS(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to fetch initial JWKS: %w", err)
	}
	return service, nil
}

// DevAuthEnabled reports whether the development token is accepted
func (s *Service) DevAuthEnabled() bool {
	return s.devAuthEnabled && s.devAuthToken != ""
}

// fetchJWKS fetches and parses the JWKS from the URL
func (s *Service) fetchJWKS(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.jwksURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJWKSFetch, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJWKSFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: endpoint returned status %d", ErrJWKSFetch, resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("failed to decode JWKS: %w", err)
	}

	keys := make(map[string]*ecdsa.PublicKey, len(jwks.Keys))
	for _, jwk := range jwks.Keys {
		if jwk.Kty != "EC" || jwk.Alg != "ES256" {
			continue
		}
		pubKey, err := parseECKey(jwk)
		if err != nil {
			continue // Skip invalid keys
		}
		keys[jwk.Kid] = pubKey
	}

	s.keysMutex.Lock()
	s.keys = keys
	s.lastFetch = time.Now()
	s.keysMutex.Unlock()
	return nil
}

// parseECKey converts a JWK to an ECDSA public key
func parseECKey(jwk JWK) (*ecdsa.PublicKey, error) {
	xBytes, err := base64.RawURLEncoding.DecodeString(jwk.X)
	if err != nil {
		return nil, fmt.Errorf("failed to decode X coordinate: %w", err)
	}
	yBytes, err := base64.RawURLEncoding.DecodeString(jwk.Y)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Y coordinate: %w", err)
	}

	pubKey := &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(xBytes),
		Y:     new(big.Int).SetBytes(yBytes),
	}
	if !pubKey.Curve.IsOnCurve(pubKey.X, pubKey.Y) {
		return nil, fmt.Errorf("key %s is not on P-256", jwk.Kid)
	}
	return pubKey, nil
}

// getPublicKey retrieves a public key by kid, refreshing JWKS if necessary
func (s *Service) getPublicKey(ctx context.Context, kid string) (*ecdsa.PublicKey, error) {
	if s.jwksURL == "" {
		return nil, ErrNotConfigured
	}

	s.keysMutex.RLock()
	key, exists := s.keys[kid]
	shouldRefresh := time.Since(s.lastFetch) > s.cacheDuration
	s.keysMutex.RUnlock()

	// rotated keys show up as an unknown kid
	if !exists || shouldRefresh {
		if err := s.fetchJWKS(ctx); err != nil {
			return nil, fmt.Errorf("failed to refresh JWKS: %w", err)
		}

		s.keysMutex.RLock()
		key, exists = s.keys[kid]
		s.keysMutex.RUnlock()
	}

	if !exists {
		return nil, fmt.Errorf("key with id %s not found", kid)
	}
	return key, nil
}

// ValidateToken validates a Supabase JWT and returns the claims
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	if s.DevAuthEnabled() &&
		subtle.ConstantTimeCompare([]byte(tokenString), []byte(s.devAuthToken)) == 1 {
		return s.GetDevClaims(), nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("no kid found in token header")
		}
		return s.getPublicKey(ctx, kid)
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Sub == "" {
		return nil, ErrInvalidToken
	}
	// anon keys are valid JWTs too, but identify no user
	if claims.Role != AuthenticatedRole {
		return nil, ErrAnonymousRole
	}
	return claims, nil
}

// GetDevClaims returns fixed claims for development mode
func (s *Service) GetDevClaims() *Claims {
	now := time.Now()
	return &Claims{
		Sub:   "dev-user-001",
		Email: "dev@transcriptflow.local",
		Role:  AuthenticatedRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(365 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
}

// UserInfo represents public user information
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// GetUserInfo extracts user info from claims
func GetUserInfo(claims *Claims) *UserInfo {
	return &UserInfo{
		ID:    claims.Sub,
		Email: claims.Email,
		Role:  claims.Role,
	}
}
