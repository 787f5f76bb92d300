package auth_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"escrow/internal/adapters/out/auth"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type identity struct {
	principal kernel.Principal
	key       ed25519.PrivateKey
}

func newIdentity(t *testing.T) identity {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	p, err := auth.PrincipalFromPublicKey(pub)
	require.NoError(t, err)
	return identity{principal: p, key: priv}
}

func TestJWTAuthorizer_Authorize(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	authorizer := auth.NewJWTAuthorizer("escrow",
		auth.WithLeeway(5*time.Second),
		auth.WithTimeFunc(func() time.Time { return now }),
	)
	buyer := newIdentity(t)

	t.Run("should accept a proof signed by the principal", func(t *testing.T) {
		proof, err := auth.SignProof(buyer.key, "escrow", time.Minute, now)
		require.NoError(t, err)

		require.NoError(t, authorizer.Authorize(ctx, buyer.principal, proof))
	})

	t.Run("should reject a proof of another principal", func(t *testing.T) {
		other := newIdentity(t)
		proof, err := auth.SignProof(other.key, "escrow", time.Minute, now)
		require.NoError(t, err)

		err = authorizer.Authorize(ctx, buyer.principal, proof)
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("should reject a subject that does not match the signer", func(t *testing.T) {
		other := newIdentity(t)
		claims := jwt.RegisteredClaims{
			Subject:   other.principal.String(),
			Audience:  jwt.ClaimStrings{"escrow"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		}
		proof, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(buyer.key)
		require.NoError(t, err)

		err = authorizer.Authorize(ctx, buyer.principal, proof)
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("should reject the wrong audience", func(t *testing.T) {
		proof, err := auth.SignProof(buyer.key, "marketplace", time.Minute, now)
		require.NoError(t, err)

		err = authorizer.Authorize(ctx, buyer.principal, proof)
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("should reject an expired proof beyond leeway", func(t *testing.T) {
		proof, err := auth.SignProof(buyer.key, "escrow", time.Minute, now.Add(-2*time.Minute))
		require.NoError(t, err)

		err = authorizer.Authorize(ctx, buyer.principal, proof)
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("should accept an expired proof within leeway", func(t *testing.T) {
		proof, err := auth.SignProof(buyer.key, "escrow", time.Minute, now.Add(-time.Minute-2*time.Second))
		require.NoError(t, err)

		require.NoError(t, authorizer.Authorize(ctx, buyer.principal, proof))
	})

	t.Run("should reject a proof without expiry", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:  buyer.principal.String(),
			Audience: jwt.ClaimStrings{"escrow"},
		}
		proof, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(buyer.key)
		require.NoError(t, err)

		err = authorizer.Authorize(ctx, buyer.principal, proof)
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("should reject other signing methods", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   buyer.principal.String(),
			Audience:  jwt.ClaimStrings{"escrow"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		}
		proof, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		err = authorizer.Authorize(ctx, buyer.principal, proof)
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("should reject a missing proof", func(t *testing.T) {
		err := authorizer.Authorize(ctx, buyer.principal, "")
		require.ErrorIs(t, err, errs.ErrUnauthorized)
		assert.Contains(t, err.Error(), auth.ErrProofIsMissing.Error())
	})

	t.Run("should reject a principal that is not a key", func(t *testing.T) {
		p, err := kernel.NewPrincipal("buyer")
		require.NoError(t, err)
		proof, err := auth.SignProof(buyer.key, "escrow", time.Minute, now)
		require.NoError(t, err)

		err = authorizer.Authorize(ctx, p, proof)
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})
}

func TestAllowAll_Authorize(t *testing.T) {
	t.Run("should accept any proof", func(t *testing.T) {
		p, err := kernel.NewPrincipal("buyer")
		require.NoError(t, err)
		require.NoError(t, auth.AllowAll{}.Authorize(t.Context(), p, ""))
	})

	t.Run("should reject an unconstructed identity", func(t *testing.T) {
		err := auth.AllowAll{}.Authorize(t.Context(), kernel.Principal{}, "")
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})
}
