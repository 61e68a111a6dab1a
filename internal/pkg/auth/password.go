package auth

import (
	"golang.org/x/crypto/bcrypt"

	domainErrors "github.com/polkiloo/ffmarket/internal/domain/errors"
)

// PasswordHasher defines hashing strategy for operator tokens.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// BcryptHasher uses bcrypt to hash tokens.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates BcryptHasher with provided cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns bcrypt hash for provided token.
func (h *BcryptHasher) Hash(password string) (string, error) {
	encoded, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Compare checks token against stored hash.
func (h *BcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// TokenAuthenticator matches bearer tokens against a single bcrypt hash.
type TokenAuthenticator struct {
	hash   string
	hasher PasswordHasher
}

// NewTokenAuthenticator creates authenticator for the configured hash. With
// empty hash every token is refused.
func NewTokenAuthenticator(hash string, hasher PasswordHasher) *TokenAuthenticator {
	return &TokenAuthenticator{hash: hash, hasher: hasher}
}

// Authenticate reports ErrUnauthorized unless token matches the hash.
func (a *TokenAuthenticator) Authenticate(token string) error {
	if a.hash == "" || token == "" {
		return domainErrors.ErrUnauthorized
	}
	if err := a.hasher.Compare(a.hash, token); err != nil {
		return domainErrors.ErrUnauthorized
	}
	return nil
}
