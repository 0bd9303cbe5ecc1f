package state

import "fmt"

// ExecutionError captures context when graph execution fails.
//
// The state at failure is returned alongside the error by Execute and Resume.
type ExecutionError struct {
	NodeName  string
	Path      []string
	Iteration int
	Err       error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution failed at node %s: %v", e.NodeName, e.Err)
}

// Unwrap enables error unwrapping for errors.Is and errors.As.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}
