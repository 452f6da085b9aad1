package middleware

import "errors"

var (
	errMissingToken = errors.New("missing or invalid token")
	errNoIdentity   = errors.New("token carries no user")
)
