package errors

// ChannelError is a delivery failure on one channel. Permanent failures
// (invalid target, revoked consent) must not be retried on that channel;
// transient failures (timeout, temporary transport error) follow the
// offline queue backoff policy.
type ChannelError struct {
	Channel   string `json:"channel"`
	Permanent bool   `json:"permanent"`
	Message   string `json:"message"`
	cause     error
}

// HTTPError represents an HTTP error with status code and message.
type HTTPError struct {
	Code       int
	Message    string
	StatusCode int
}
