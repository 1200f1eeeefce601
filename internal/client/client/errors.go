package client

import "errors"

var (
	ErrUnavailable      = errors.New("server unavailable")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
)
