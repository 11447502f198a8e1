package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Result is the outcome of a password check.
type Result int

const (
	Allowed Result = iota
	MissingHash
	InvalidHash
)

// Gate compares a client-supplied password hash against the hash of the
// configured secret. With no secret configured the gate is disabled and
// every request is allowed.
type Gate struct {
	secretHash string
}

// NewGate builds a gate for the configured secret. The secret's hash is
// computed once here so request handling only does a comparison.
func NewGate(secret string) *Gate {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return &Gate{}
	}
	return &Gate{secretHash: HashPassword(secret)}
}

// Enabled reports whether a password is required at all.
func (g *Gate) Enabled() bool {
	return g != nil && g.secretHash != ""
}

// Authorize checks the supplied hash. It must run before any provider call
// so unauthenticated callers never consume API quota.
func (g *Gate) Authorize(suppliedHash string) Result {
	if !g.Enabled() {
		return Allowed
	}
	if strings.TrimSpace(suppliedHash) == "" {
		return MissingHash
	}
	if subtle.ConstantTimeCompare([]byte(g.secretHash), []byte(suppliedHash)) == 1 {
		return Allowed
	}
	return InvalidHash
}

// HashPassword returns the lowercase hex SHA-256 of the password, matching
// the hashing the browser client performs before submitting.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
