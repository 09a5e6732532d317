package application

import "errors"

// ErrDistrictNotFound is returned by population sources for unknown districts.
// The service treats it as a zero denominator.
var ErrDistrictNotFound = errors.New("reliability: district not found")
