package mines

import "errors"

var (
	ErrInvalidDimensions = errors.New("invalid board dimensions")
	ErrInvalidMineCount  = errors.New("invalid mine count")
	ErrOutOfBounds       = errors.New("coordinate out of bounds")
	ErrInsufficientSpace = errors.New("not enough free cells for mines")
)

// AssertionError reports a broken engine invariant. It is never caused by
// player input.
type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}
