package test

import (
	"errors"

	domainErrors "github.com/polkiloo/ffmarket/internal/domain/errors"
	pkgAuth "github.com/polkiloo/ffmarket/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied secret.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates secret against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// OperatorAuthenticatorStub accepts a single configured token.
type OperatorAuthenticatorStub struct {
	Token string
	Err   error
}

// Authenticate returns configured error or checks the token.
func (s OperatorAuthenticatorStub) Authenticate(token string) error {
	if s.Err != nil {
		return s.Err
	}
	if token == "" || token != s.Token {
		return domainErrors.ErrUnauthorized
	}
	return nil
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.OperatorAuthenticator = OperatorAuthenticatorStub{}
