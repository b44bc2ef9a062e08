package middleware

import (
	pkgLog "carelink-srv/pkg/log"
)

type Middleware struct {
	l pkgLog.Logger
	// internalKeyHash is the bcrypt hash of the internal API key.
	internalKeyHash string
}

func New(l pkgLog.Logger, internalKeyHash string) Middleware {
	return Middleware{
		l:               l,
		internalKeyHash: internalKeyHash,
	}
}
