package errors

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrConfiguration      = errors.New("payment provider is not configured")
	ErrUpstream           = errors.New("payment provider request failed")
	ErrStorage            = errors.New("storage failure")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrProductUnavailable = errors.New("product is not available for purchase")
	ErrIllegalTransition  = errors.New("illegal order status transition")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrUnauthorized       = errors.New("unauthorized")
)
