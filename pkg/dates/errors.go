package dates

import "fmt"

// DateFormatError reports a date string that matched none of the supported
// layouts.
type DateFormatError struct {
	Input string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("unrecognized date format: %q", e.Input)
}

// DurationFormatError reports a term-duration string that could not be
// resolved to a termination date.
type DurationFormatError struct {
	Input string
}

func (e *DurationFormatError) Error() string {
	return fmt.Sprintf("unrecognized term duration format: %q", e.Input)
}
