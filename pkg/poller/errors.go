package poller

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/helvethink/sevalla-action/pkg/schemas"
)

// ErrRetryBudgetExceeded matches every RetryBudgetExceededError through errors.Is.
var ErrRetryBudgetExceeded = errors.New("max retries reached")

// RetryBudgetExceededError is returned when the attempt ceiling is reached
// without observing a terminal status.
type RetryBudgetExceededError struct {
	Kind     schemas.OperationKind
	Attempts int
}

func (e *RetryBudgetExceededError) Error() string {
	return fmt.Sprintf("Max retries reached while polling %s status", e.Kind)
}

// Is reports whether target is ErrRetryBudgetExceeded.
func (e *RetryBudgetExceededError) Is(target error) bool {
	return target == ErrRetryBudgetExceeded
}

// DeploymentFailedError is returned when the operation reached a failure-terminal status.
type DeploymentFailedError struct {
	Kind   schemas.OperationKind
	Status string
}

func (e *DeploymentFailedError) Error() string {
	return fmt.Sprintf("%s failed: status is %s", e.Kind.Title(), e.Status)
}

// TransientFetchError is a failed status fetch. The poller recovers from it by trying again.
type TransientFetchError struct {
	Attempt int
	Err     error
}

func (e *TransientFetchError) Error() string {
	return fmt.Sprintf("attempt %d: %s", e.Attempt, e.Err)
}

func (e *TransientFetchError) Unwrap() error {
	return e.Err
}
