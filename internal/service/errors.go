package service

import "errors"

// User-facing errors are deliberately generic. Credential and upstream
// detail stays in the server logs so it never leaks to the caller.
var (
	ErrInvalidInput       = errors.New("invalid payment request")
	ErrPaymentUnavailable = errors.New("payment is temporarily unavailable")
	ErrNotifyUnavailable  = errors.New("order notification could not be sent")
)
