package escalation

import "errors"

var (
	ErrRecordNotFound   = errors.New("escalation record not found")
	ErrAlreadyResolved  = errors.New("escalation record already resolved")
	ErrResolverRequired = errors.New("resolver identity required")
)
