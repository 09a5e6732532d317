package reliability

import "errors"

var (
	// ErrEmptyRecordID is returned when a fault record has no id.
	ErrEmptyRecordID = errors.New("reliability: empty record id")
	// ErrEmptyDistrictID is returned when a district has no id.
	ErrEmptyDistrictID = errors.New("reliability: empty district id")
	// ErrNegativePopulation is returned when a population count is negative.
	ErrNegativePopulation = errors.New("reliability: negative population")
	// ErrInvalidStatus is returned when a record status is unsupported.
	ErrInvalidStatus = errors.New("reliability: invalid status")
)
