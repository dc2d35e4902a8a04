// Package auth provides admin API key generation and verification.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (OWASP 2024 recommended minimum).
const (
	argon2Time    = 3
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	argon2SaltLen = 16

	// Upper bound on the memory cost accepted from a stored hash, in KiB.
	argon2MaxMemory = 1 << 20
)

var (
	// ErrInvalidHash indicates the hash format is invalid.
	ErrInvalidHash = errors.New("invalid hash format")
	// ErrIncompatibleVersion indicates the hash version is not supported.
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
)

// HashKey creates an Argon2id hash of key in PHC string format:
// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
func HashKey(key string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	sum := argon2.IDKey([]byte(key), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verifier checks keys against one parsed Argon2id hash.
type Verifier struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	sum     []byte
}

// NewVerifier parses a PHC-encoded Argon2id hash.
func NewVerifier(encodedHash string) (*Verifier, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, ErrInvalidHash
	}
	if version != argon2.Version {
		return nil, ErrIncompatibleVersion
	}

	v := &Verifier{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &v.memory, &v.time, &v.threads); err != nil {
		return nil, ErrInvalidHash
	}
	// argon2.IDKey panics on t or p of zero and needs m >= 8*p.
	if v.time < 1 || v.threads < 1 ||
		v.memory < 8*uint32(v.threads) || v.memory > argon2MaxMemory {
		return nil, ErrInvalidHash
	}

	var err error
	if v.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(v.salt) == 0 {
		return nil, ErrInvalidHash
	}
	if v.sum, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(v.sum) == 0 {
		return nil, ErrInvalidHash
	}

	return v, nil
}

// Verify reports whether key matches the hash, in constant time.
func (v *Verifier) Verify(key string) bool {
	computed := argon2.IDKey([]byte(key), v.salt, v.time, v.memory, v.threads, uint32(len(v.sum)))
	return subtle.ConstantTimeCompare(computed, v.sum) == 1
}
