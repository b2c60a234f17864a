package sevalla

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrMissingIdentifier is returned when a 2xx initiation response carries no operation identifier.
var ErrMissingIdentifier = errors.New("no identifier in response")

// RequestError is a non-2xx response from the platform.
type RequestError struct {
	Operation  string // Operation labels the call, e.g. "Deployment" or "Deploy hook".
	StatusCode int
	Reason     string // Reason is the HTTP reason phrase.
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s request failed: %d - %s", e.Operation, e.StatusCode, e.Reason)
}

func newRequestError(op string, resp *http.Response) *RequestError {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}

	return &RequestError{
		Operation:  op,
		StatusCode: resp.StatusCode,
		Reason:     reason,
	}
}
