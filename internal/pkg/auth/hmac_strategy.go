package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/ffmarket/internal/domain/errors"
)

// SignaturePrefix precedes the hex digest in the signature header.
const SignaturePrefix = "sha256="

// HMACVerifier checks webhook signatures computed as HMAC-SHA256 over raw body.
type HMACVerifier struct {
	secret []byte
}

// NewHMACVerifier builds verifier for the shared webhook secret. A verifier
// without secret rejects every payload.
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// Sign returns signature header value for payload.
func (v *HMACVerifier) Sign(payload []byte) string {
	return SignaturePrefix + hex.EncodeToString(v.digest(payload))
}

// Verify validates signature header against payload.
func (v *HMACVerifier) Verify(payload []byte, signature string) error {
	if len(v.secret) == 0 {
		return fmt.Errorf("%w: webhook secret not configured", domainErrors.ErrInvalidSignature)
	}
	if signature == "" {
		return fmt.Errorf("%w: missing signature", domainErrors.ErrInvalidSignature)
	}

	encoded, ok := strings.CutPrefix(strings.TrimSpace(signature), SignaturePrefix)
	if !ok {
		return fmt.Errorf("%w: unsupported scheme", domainErrors.ErrInvalidSignature)
	}
	provided, err := hex.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("%w: malformed digest", domainErrors.ErrInvalidSignature)
	}
	if !hmac.Equal(provided, v.digest(payload)) {
		return domainErrors.ErrInvalidSignature
	}
	return nil
}

func (v *HMACVerifier) Name() string {
	return "hmac-sha256"
}

func (v *HMACVerifier) digest(payload []byte) []byte {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
