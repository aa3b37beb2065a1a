package apperror

import "errors"

// Result is the tagged outcome handed to the presentation layer:
// exactly one of Success or Error is set.
type Result struct {
	Success     string            `json:"success,omitempty"`
	Error       string            `json:"error,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	Data        any               `json:"data,omitempty"`
}

func (r Result) OK() bool { return r.Error == "" }

// Render builds the Result for an operation outcome.
// Errors that are not *Error are reported generically so internals never reach users.
func Render(success string, err error) Result {
	if err == nil {
		return Result{Success: success}
	}
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindUnknown {
		return Result{Error: ErrTransactionFailure.Message}
	}
	return Result{Error: e.Message, FieldErrors: e.Fields}
}
