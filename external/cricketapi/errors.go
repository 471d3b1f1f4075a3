package cricketapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

var errTransient = crerr.New("cricketapi transient failure")

// RequestError is the single error shape returned by the client. Message is
// best effort and safe to show to a user.
type RequestError struct {
	Op      string
	Status  int
	Message string

	kind  error
	cause error
}

func (e *RequestError) Error() string {
	if e.Status > 0 {
		return e.Op + ": " + e.Message + " (status " + http.StatusText(e.Status) + ")"
	}
	return e.Op + ": " + e.Message
}

// UserMessage is the message without the operation prefix.
func (e *RequestError) UserMessage() string {
	return e.Message
}

func (e *RequestError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.kind != nil {
		out = append(out, e.kind)
	}
	if e.cause != nil {
		out = append(out, e.cause)
	}
	return out
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return usecase.ErrUnauthorized
	case http.StatusNotFound:
		return usecase.ErrNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return usecase.ErrRejected
	default:
		return usecase.ErrDependencyUnavailable
	}
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func statusError(op string, status int, body []byte) *RequestError {
	e := &RequestError{
		Op:      op,
		Status:  status,
		Message: messageFromBody(body),
		kind:    kindForStatus(status),
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	if isRetryableStatus(status) {
		e.cause = errTransient
	}
	return e
}

func transportError(op string, err error) *RequestError {
	e := &RequestError{Op: op, kind: usecase.ErrDependencyUnavailable}
	switch {
	case stderrors.Is(err, context.Canceled):
		e.Message = "request cancelled"
		e.cause = err
		return e
	case isTimeout(err):
		e.Message = "request timed out"
	default:
		e.Message = "network error"
	}
	e.cause = fmt.Errorf("%w: %w", errTransient, err)
	return e
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

// isBreakerFailure reports whether err should count against the breaker.
func isBreakerFailure(err error) bool {
	return err != nil && stderrors.Is(err, errTransient)
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

func messageFromBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var eb errorBody
	if err := sonic.Unmarshal(body, &eb); err != nil {
		return ""
	}
	for _, v := range []string{eb.Message, eb.Error, eb.Detail} {
		if v = strings.TrimSpace(v); v != "" {
			return abbreviate(v, 240)
		}
	}
	return ""
}

// abbreviate caps text at max runes.
func abbreviate(text string, max int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	return string([]rune(text)[:max]) + "..."
}
