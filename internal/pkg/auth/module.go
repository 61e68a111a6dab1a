package auth

import (
	"go.uber.org/fx"

	"github.com/polkiloo/ffmarket/internal/config"
)

// Module provides webhook and operator authentication primitives via fx.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
	fx.Provide(newSignatureVerifier),
	fx.Provide(newOperatorAuthenticator),
)

func newPasswordHasher() PasswordHasher {
	return NewBcryptHasher(0)
}

type authParams struct {
	fx.In

	Config *config.Config
	Hasher PasswordHasher `optional:"true"`
}

func newSignatureVerifier(p authParams) SignatureVerifier {
	return NewHMACVerifier(p.Config.WebhookSecret)
}

func newOperatorAuthenticator(p authParams) OperatorAuthenticator {
	hasher := p.Hasher
	if hasher == nil {
		hasher = NewBcryptHasher(0)
	}
	return NewTokenAuthenticator(p.Config.OperatorTokenHash, hasher)
}
