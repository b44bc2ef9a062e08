package errors

import (
	"errors"
	"fmt"
)

// NewTransientChannelError wraps a retryable delivery failure.
func NewTransientChannelError(channel string, cause error) *ChannelError {
	return &ChannelError{Channel: channel, Permanent: false, Message: cause.Error(), cause: cause}
}

// NewPermanentChannelError wraps a failure that must not be retried on the
// channel (invalid target, revoked consent or permission).
func NewPermanentChannelError(channel string, cause error) *ChannelError {
	return &ChannelError{Channel: channel, Permanent: true, Message: cause.Error(), cause: cause}
}

func (e *ChannelError) Error() string {
	kind := "transient"
	if e.Permanent {
		kind = "permanent"
	}
	return fmt.Sprintf("%s: %s failure: %s", e.Channel, kind, e.Message)
}

func (e *ChannelError) Unwrap() error { return e.cause }

// IsPermanent reports whether err (or anything it wraps) is a permanent
// channel failure. Unrecognized errors are treated as transient so they
// stay subject to the normal retry policy.
func IsPermanent(err error) bool {
	var ce *ChannelError
	if errors.As(err, &ce) {
		return ce.Permanent
	}
	return false
}
