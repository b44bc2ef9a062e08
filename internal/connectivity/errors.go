package connectivity

import "errors"

var (
	ErrLinkNotFound = errors.New("caregiver link not found")
	ErrLinkExists   = errors.New("caregiver link already registered")
)
