// Package auth verifies player session tokens for the game API.
package auth

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/aeturnis/aeturnis-online/internal/platform/errors"
)

// Environment variables for session token verification.
const (
	EnvAuthIssuer    = "AETURNIS_AUTH_ISSUER"
	EnvAuthAudience  = "AETURNIS_AUTH_AUDIENCE"
	EnvAuthPublicKey = "AETURNIS_AUTH_PUBLIC_KEY"
)

// verifierEnv holds raw env values before post-parse validation.
type verifierEnv struct {
	Issuer    string `env:"AETURNIS_AUTH_ISSUER"`
	Audience  string `env:"AETURNIS_AUTH_AUDIENCE"`
	PublicKey string `env:"AETURNIS_AUTH_PUBLIC_KEY"`
}

// Config defines how session tokens are verified.
type Config struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// Claims captures a validated session token.
type Claims struct {
	Issuer      string
	Audience    []string
	ExpiresAt   time.Time
	IssuedAt    time.Time
	JWTID       string
	AccountID   string
	CharacterID string
}

// sessionClaims is the internal claims type used for JWT parsing.
type sessionClaims struct {
	jwt.RegisteredClaims
	AccountID   string `json:"account_id"`
	CharacterID string `json:"character_id"`
}

// LoadConfigFromEnv reads session token verification configuration.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw verifierEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse auth env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" {
		return Config{}, fmt.Errorf("AETURNIS_AUTH_ISSUER is required")
	}
	if audience == "" {
		return Config{}, fmt.Errorf("AETURNIS_AUTH_AUDIENCE is required")
	}
	if publicKey == "" {
		return Config{}, fmt.Errorf("AETURNIS_AUTH_PUBLIC_KEY is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return Config{}, fmt.Errorf("decode auth public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return Config{}, fmt.Errorf("auth public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return Config{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// VerifyToken verifies a session token and returns its claims.
func VerifyToken(token string, cfg Config) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "session token is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return Claims{}, errors.New("token verifier is not configured")
	}

	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "token issuer mismatch")
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "token audience mismatch")
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "token exp is required")
	}

	now := cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return Claims{}, apperrors.New(apperrors.CodeTokenExpired, "session token is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "token not active yet")
	}
	if strings.TrimSpace(parsed.AccountID) == "" {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "token account_id is required")
	}

	claims := Claims{
		Issuer:      parsed.Issuer,
		Audience:    []string(parsed.Audience),
		ExpiresAt:   exp,
		JWTID:       parsed.ID,
		AccountID:   parsed.AccountID,
		CharacterID: parsed.CharacterID,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeUnauthenticated, "token signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeUnauthenticated, "token alg is invalid")
	}
	return apperrors.New(apperrors.CodeUnauthenticated, "session token is invalid")
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
