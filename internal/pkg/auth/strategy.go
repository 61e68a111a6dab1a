package auth

// SignatureVerifier authenticates raw webhook payloads.
type SignatureVerifier interface {
	Verify(payload []byte, signature string) error
	Name() string
}

// OperatorAuthenticator checks bearer tokens presented on operator routes.
type OperatorAuthenticator interface {
	Authenticate(token string) error
}
