// Package password hashes and verifies credentials with argon2id.
//
// Digests use the PHC string format
// ($argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>) so the parameters travel
// with the digest and can be tightened later without invalidating stored
// credentials.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// OWASP-recommended argon2id parameters.
const (
	defaultTime    = 1
	defaultMemory  = 64 * 1024
	defaultThreads = 4
	defaultKeyLen  = 32
	defaultSaltLen = 16
)

var ErrEmptyPassword = errors.New("password: empty password")

// Vault hashes and verifies plaintext passwords. The zero value is not
// usable; construct with NewVault.
type Vault struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

// NewVault returns a Vault with the default argon2id parameters.
func NewVault() *Vault {
	return &Vault{
		time:    defaultTime,
		memory:  defaultMemory,
		threads: defaultThreads,
		keyLen:  defaultKeyLen,
		saltLen: defaultSaltLen,
	}
}

// Hash derives a salted argon2id digest. A fresh random salt is drawn per
// call, so hashing the same password twice never yields the same digest.
func (v *Vault) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, v.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, v.time, v.memory, v.threads, v.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, v.memory, v.time, v.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether plaintext matches the digest. The comparison is
// constant-time; malformed digests verify as false, never as an error.
func (v *Vault) Verify(plaintext, digest string) bool {
	salt, key, time, memory, threads, err := decodeDigest(digest)
	if err != nil {
		return false
	}

	candidate := argon2.IDKey([]byte(plaintext), salt, time, memory, threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1
}

func decodeDigest(digest string) (salt, key []byte, time, memory uint32, threads uint8, err error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, errors.New("password: malformed digest")
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, 0, 0, 0, err
	}
	if version != argon2.Version {
		return nil, nil, 0, 0, 0, errors.New("password: unsupported argon2 version")
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return nil, nil, 0, 0, 0, err
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, nil, 0, 0, 0, err
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, nil, 0, 0, 0, err
	}
	if len(key) == 0 {
		return nil, nil, 0, 0, 0, errors.New("password: empty key")
	}
	return salt, key, time, memory, threads, nil
}
