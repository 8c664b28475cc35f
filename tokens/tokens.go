// Package tokens issues the signed, single-purpose tokens used in account
// activation and password-reset links. Tokens are HMAC-signed, carry an
// explicit expiry, and embed a fingerprint of the user state they act on, so
// completing the action invalidates any outstanding token.
package tokens

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Ahmed-Mansy/shoe-zone-online/models"
)

const (
	PurposeActivation    = "activation"
	PurposePasswordReset = "password-reset"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type claims struct {
	Purpose     string `json:"purpose"`
	Fingerprint string `json:"fp"`
	jwt.RegisteredClaims
}

type Generator struct {
	secret        []byte
	activationTTL time.Duration
	resetTTL      time.Duration
}

func New(secret string) *Generator {
	return &Generator{
		secret:        []byte(secret),
		activationTTL: 24 * time.Hour,
		resetTTL:      time.Hour,
	}
}

func (g *Generator) ActivationToken(u *models.User) (string, error) {
	return g.sign(u, PurposeActivation, activationFingerprint(u), g.activationTTL)
}

func (g *Generator) PasswordResetToken(u *models.User) (string, error) {
	return g.sign(u, PurposePasswordReset, resetFingerprint(u), g.resetTTL)
}

// VerifyActivation accepts a token only while the account is still inactive;
// flipping is_active changes the fingerprint and burns the token.
func (g *Generator) VerifyActivation(token string, u *models.User) error {
	return g.verify(token, u, PurposeActivation, activationFingerprint(u))
}

// VerifyPasswordReset accepts a token only against the password hash it was
// issued for, so a completed reset cannot be replayed.
func (g *Generator) VerifyPasswordReset(token string, u *models.User) error {
	return g.verify(token, u, PurposePasswordReset, resetFingerprint(u))
}

func (g *Generator) sign(u *models.User, purpose, fingerprint string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		Purpose:     purpose,
		Fingerprint: fingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(g.secret)
}

func (g *Generator) verify(token string, u *models.User, purpose, fingerprint string) error {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return g.secret, nil
	})
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	if c.Purpose != purpose {
		return ErrInvalidToken
	}
	if c.Subject != strconv.FormatUint(uint64(u.ID), 10) {
		return ErrInvalidToken
	}
	if c.Fingerprint != fingerprint {
		return ErrInvalidToken
	}
	return nil
}

func activationFingerprint(u *models.User) string {
	return shortHash(fmt.Sprintf("%d|%t", u.ID, u.IsActive))
}

func resetFingerprint(u *models.User) string {
	return shortHash(fmt.Sprintf("%d|%s", u.ID, u.PasswordHash))
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
