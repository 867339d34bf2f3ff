package gamechanger

import (
	"errors"
	"fmt"
)

// ErrHeaderNotFound matches any *HeaderNotFoundError via errors.Is.
var ErrHeaderNotFound = errors.New("header not found")

// HeaderNotFoundError is returned by Parse when none of the leading rows
// starts with Number,Last,First. The file is not a GameChanger export.
type HeaderNotFoundError struct {
	RowsScanned int
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("header not found: no Number,Last,First row in the first %d rows (not a GameChanger export)", e.RowsScanned)
}

func (e *HeaderNotFoundError) Is(target error) bool {
	return target == ErrHeaderNotFound
}
