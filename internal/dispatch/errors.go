package dispatch

import "errors"

var (
	ErrAlertNotFound     = errors.New("alert not found")
	ErrAlertTerminal     = errors.New("alert already resolved")
	ErrIllegalTransition = errors.New("illegal alert status transition")
	ErrNoTargetLinks     = errors.New("event matches no caregiver links")
)
