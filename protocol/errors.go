package protocol

import "errors"

var (
	ErrTimeout        = errors.New("operation timed out")
	ErrNoModule       = errors.New("radio module not responding")
	ErrCommandFailed  = errors.New("command rejected by module")
	ErrInvalidPayload = errors.New("invalid payload")
)
