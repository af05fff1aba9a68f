// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// # Opaque Tokens

// GenerateSecureToken returns byteLength bytes of cryptographic randomness,
// hex-encoded. Used for password-reset tokens delivered out-of-band.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a token.
//
// # Usage
//
// Opaque tokens are persisted only as this digest; the presented value is
// re-hashed on redemption and compared. The digest doubles as the storage
// lookup key, which is why a keyed/slow hash (bcrypt) is not used here —
// the 256 bits of input entropy make brute-forcing the digest infeasible.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
