package listing

import (
	"errors"
	"fmt"
)

var ErrInvalidFilterValue = errors.New("invalid filter value")

// InvalidValue reports a malformed or out-of-range request option.
func InvalidValue(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidFilterValue, field, reason)
}
