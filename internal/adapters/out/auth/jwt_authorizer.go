// Package auth proves caller identities.
//
// A principal is the hex encoded Ed25519 public key of the caller. A proof
// is a compact JWT signed with the matching private key whose subject is the
// principal itself.
package auth

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultAudience = "escrow"

var ErrProofIsMissing = errors.New("proof is missing")

type JWTAuthorizer struct {
	audience string
	leeway   time.Duration
	now      func() time.Time
}

type Option func(*JWTAuthorizer)

// WithLeeway tolerates clock skew when checking exp, nbf and iat.
func WithLeeway(d time.Duration) Option {
	return func(a *JWTAuthorizer) { a.leeway = d }
}

func WithTimeFunc(now func() time.Time) Option {
	return func(a *JWTAuthorizer) { a.now = now }
}

func NewJWTAuthorizer(audience string, opts ...Option) *JWTAuthorizer {
	if strings.TrimSpace(audience) == "" {
		audience = DefaultAudience
	}
	a := &JWTAuthorizer{audience: audience, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *JWTAuthorizer) Authorize(_ context.Context, identity kernel.Principal, proof string) error {
	if err := identity.Validate(); err != nil {
		return errs.NewUnauthorizedErrorWithCause("identity", err)
	}
	if strings.TrimSpace(proof) == "" {
		return errs.NewUnauthorizedErrorWithCause("proof", ErrProofIsMissing)
	}

	key, err := PublicKeyFromPrincipal(identity)
	if err != nil {
		return errs.NewUnauthorizedErrorWithCause("identity", err)
	}

	_, err = jwt.ParseWithClaims(
		proof,
		&jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithAudience(a.audience),
		jwt.WithSubject(identity.String()),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(a.leeway),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return errs.NewUnauthorizedErrorWithCause("proof", err)
	}
	return nil
}

// PublicKeyFromPrincipal decodes the Ed25519 key a principal names.
func PublicKeyFromPrincipal(p kernel.Principal) (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(p.String())
	if err != nil {
		return nil, fmt.Errorf("principal is not a hex encoded key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("principal key has %d bytes, want %d", len(raw), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(raw), nil
}

// PrincipalFromPublicKey is the inverse of PublicKeyFromPrincipal.
func PrincipalFromPublicKey(key ed25519.PublicKey) (kernel.Principal, error) {
	return kernel.NewPrincipal(hex.EncodeToString(key))
}

// SignProof issues a proof for the principal owning key, valid for ttl.
func SignProof(key ed25519.PrivateKey, audience string, ttl time.Duration, now time.Time) (string, error) {
	p, err := PrincipalFromPublicKey(key.Public().(ed25519.PublicKey))
	if err != nil {
		return "", err
	}
	claims := jwt.RegisteredClaims{
		Subject:   p.String(),
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(key)
}
