package domain

import "errors"

// ErrInvalidRequest indicates a missing or blank required input. No upstream call is made.
var ErrInvalidRequest = errors.New("invalid request")
