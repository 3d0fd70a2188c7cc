package notification

import "errors"

var (
	ErrNoRecipientAddress = errors.New("recipient has no email address")
	ErrUnknownEvent       = errors.New("unknown notification event")
)
