package planner

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ValidationError is fatal for a planning run. No collaborator is called once
// it is raised.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// TimeoutError is returned when the step graph does not settle in time.
// No partial state accompanies it.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("trip planning timed out after %dms", e.TimeoutMs())
}

func (e *TimeoutError) TimeoutMs() int64 {
	return e.Timeout.Milliseconds()
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsTimeoutError(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

var (
	ErrNoPointsOfInterest = errors.New("no points of interest found")
	ErrNoListings         = errors.New("no accommodations found")
)
