package service

import "errors"

var (
	ErrDuplicateEvent  = errors.New("webhook event already processed")
	ErrSessionMetadata = errors.New("checkout session metadata is missing or malformed")
)
