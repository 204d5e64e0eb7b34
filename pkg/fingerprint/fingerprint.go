// Package fingerprint computes content-addressed tokens for uploaded
// documents.
//
// A token is the SHA-256 digest of the raw file bytes rendered as a
// fixed-length lowercase hex string. Identical uploads always produce
// identical tokens, which is what makes summary caching by content
// possible.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// TokenLength is the length of a rendered token in characters.
const TokenLength = sha256.Size * 2

// Token is a content fingerprint. It is safe to use as a cache key.
type Token string

// String returns the hex form of the token.
func (t Token) String() string {
	return string(t)
}

// Compute returns the fingerprint token for the given bytes.
//
// Compute is a pure function: it has no failure modes and always
// returns the same token for the same input.
func Compute(data []byte) Token {
	sum := sha256.Sum256(data)
	return Token(hex.EncodeToString(sum[:]))
}
