package service

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/notekeep/notes-system/internal/core/domain"
	"github.com/notekeep/notes-system/internal/core/ports"
)

const (
	HasherBcrypt = "bcrypt"
	HasherMD5    = "md5"
)

// bcryptMaxBytes is the longest input bcrypt accepts. The limit is in
// bytes, so multi-byte characters count more than once.
const bcryptMaxBytes = 72

// NewPasswordHasher returns the hasher registered under name.
func NewPasswordHasher(name string) (ports.PasswordHasher, error) {
	switch name {
	case "", HasherBcrypt:
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	case HasherMD5:
		return DigestHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

// BcryptHasher produces salted bcrypt digests.
type BcryptHasher struct {
	Cost int
}

// Hash fails with a validation error for passwords over bcryptMaxBytes.
func (h BcryptHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > bcryptMaxBytes {
		return "", errPasswordTooLong()
	}
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", errPasswordTooLong()
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (h BcryptHasher) Matches(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

func errPasswordTooLong() error {
	return domain.NewValidationError("password must be at most %d bytes", bcryptMaxBytes)
}

// DigestHasher is the unsalted hex MD5 digest. The same plaintext always
// yields the same digest, which keeps records created by the legacy
// service loginable. Weak; prefer BcryptHasher for new deployments.
type DigestHasher struct{}

func (DigestHasher) Hash(plaintext string) (string, error) {
	sum := md5.Sum([]byte(plaintext))
	return hex.EncodeToString(sum[:]), nil
}

func (h DigestHasher) Matches(plaintext, digest string) bool {
	got, _ := h.Hash(plaintext)
	return subtle.ConstantTimeCompare([]byte(got), []byte(digest)) == 1
}
