package sidh

import "fmt"

// StepError identifies the step of an isogeny chain walk that failed.
// Step counts materialised isogenies from 1.
type StepError struct {
	Walker string
	Step   int
	Err    error
}

func (s *StepError) Error() string {
	return fmt.Sprintf("%s walk, step %d: %v", s.Walker, s.Step, s.Err)
}

func (s *StepError) Unwrap() error {
	return s.Err
}

// Cause lets github.com/pkg/errors.Cause see through the step annotation.
func (s *StepError) Cause() error {
	return s.Err
}

// NewStepError creates a new StepError.
func NewStepError(walker string, step int, err error) *StepError {
	return &StepError{
		Walker: walker,
		Step:   step,
		Err:    err,
	}
}
