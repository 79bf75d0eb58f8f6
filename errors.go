package writemonitor

import "fmt"

// Error codes.
const (
	ENotFound = "not found"
	EInvalid  = "invalid"
	EInternal = "internal error"
)

// Error is a domain error with a machine readable code.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
	Err  error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// ErrorCode returns the code of err, EInternal for errors that carry none,
// or the empty string for a nil error.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := err.(*Error); ok && e.Code != "" {
		return e.Code
	}
	return EInternal
}
