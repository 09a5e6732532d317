package auth

import "errors"

var (
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrRegionMismatch indicates a region-bound user asked for another region.
	ErrRegionMismatch = errors.New("auth: region mismatch")
)
