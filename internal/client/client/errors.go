package client

import "errors"

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthenticated = errors.New("not logged in or session expired")
	ErrRateLimited     = errors.New("too many requests")
)
