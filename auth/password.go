// Package auth holds the credential store, session tokens and the access
// policy for protected actions.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"math/big"
	"strconv"
	"strings"

	"cafe-directory/config"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength        = 16
	saltChars         = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	defaultIterations = 600000
)

// Hasher produces password hashes. PBKDF2 output uses the
// "pbkdf2:sha256:<iterations>$<salt>$<hex>" layout.
type Hasher struct {
	Scheme     string
	Iterations int
	BcryptCost int
}

func NewHasher(scheme string, iterations int) *Hasher {
	return &Hasher{Scheme: scheme, Iterations: iterations, BcryptCost: bcrypt.DefaultCost}
}

// Hash returns a salted one-way hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	switch h.Scheme {
	case config.SchemeBcrypt:
		out, err := bcrypt.GenerateFromPassword([]byte(password), h.BcryptCost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return string(out), nil
	case config.SchemePBKDF2, "":
		iterations := h.Iterations
		if iterations <= 0 {
			iterations = defaultIterations
		}
		salt, err := randomSalt(saltLength)
		if err != nil {
			return "", err
		}
		sum := pbkdf2.Key([]byte(password), []byte(salt), iterations, sha256.Size, sha256.New)
		return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", iterations, salt, hex.EncodeToString(sum)), nil
	default:
		return "", fmt.Errorf("unknown password scheme %q", h.Scheme)
	}
}

// Verify checks password against a stored hash of either scheme.
func (h *Hasher) Verify(password, stored string) bool {
	return VerifyPassword(password, stored)
}

// VerifyPassword reports whether password matches stored. Malformed or
// unsupported hashes never match.
func VerifyPassword(password, stored string) bool {
	switch {
	case strings.HasPrefix(stored, "$2a$"), strings.HasPrefix(stored, "$2b$"), strings.HasPrefix(stored, "$2y$"):
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	case strings.HasPrefix(stored, "pbkdf2:"):
		ok, err := verifyPBKDF2(password, stored)
		return err == nil && ok
	default:
		return false
	}
}

var errMalformedHash = errors.New("malformed password hash")

func verifyPBKDF2(password, stored string) (bool, error) {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 {
		return false, errMalformedHash
	}
	method, salt, digest := parts[0], parts[1], parts[2]

	fields := strings.Split(method, ":")
	if len(fields) < 2 || len(fields) > 3 || fields[0] != "pbkdf2" {
		return false, errMalformedHash
	}

	var newHash func() hash.Hash
	switch fields[1] {
	case "sha256":
		newHash = sha256.New
	case "sha512":
		newHash = sha512.New
	default:
		return false, errMalformedHash
	}

	iterations := defaultIterations
	if len(fields) == 3 {
		n, err := strconv.Atoi(fields[2])
		if err != nil || n <= 0 {
			return false, errMalformedHash
		}
		iterations = n
	}

	want, err := hex.DecodeString(digest)
	if err != nil || len(want) == 0 {
		return false, errMalformedHash
	}

	got := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(want), newHash)
	return hmac.Equal(got, want), nil
}

func randomSalt(n int) (string, error) {
	limit := big.NewInt(int64(len(saltChars)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate salt: %w", err)
		}
		b[i] = saltChars[idx.Int64()]
	}
	return string(b), nil
}
