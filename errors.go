package dbrepo

import (
	"errors"
	"fmt"
)

/*
Error codes. You probably shouldn't use this directly; instead, use the `Err`
variables with `errors.Is`.
*/
type ErrCode string

const (
	ErrCodeUnknown         ErrCode = ""
	ErrCodeInvalidInput    ErrCode = "InvalidInput"
	ErrCodeQueryFailed     ErrCode = "QueryFailed"
	ErrCodeNothingToUpdate ErrCode = "NothingToUpdate"
	ErrCodeEmptyField      ErrCode = "EmptyField"
	ErrCodeUnknownDomain   ErrCode = "UnknownDomain"
	ErrCodeClosed          ErrCode = "Closed"
)

/*
Use blank error variables to detect error types:

	if errors.Is(err, dbrepo.ErrQueryFailed) {
		// Handle specific error.
	}

Note that errors returned by this package can't be compared via `==` because
they may include additional details about the circumstances. When compared by
`errors.Is`, they compare `.Cause` and fall back on `.Code`.
*/
var (
	ErrInvalidInput    Err = Err{Code: ErrCodeInvalidInput, Cause: errors.New(`invalid input`)}
	ErrQueryFailed     Err = Err{Code: ErrCodeQueryFailed, Cause: errors.New(`query failed`)}
	ErrNothingToUpdate Err = Err{Code: ErrCodeNothingToUpdate, Cause: errors.New(`nothing to update`)}
	ErrEmptyField      Err = Err{Code: ErrCodeEmptyField, Cause: errors.New(`empty field name`)}
	ErrUnknownDomain   Err = Err{Code: ErrCodeUnknownDomain, Cause: errors.New(`unknown database domain`)}
	ErrClosed          Err = Err{Code: ErrCodeClosed, Cause: errors.New(`registry is closed`)}
)

// Type of errors returned by this package.
type Err struct {
	Code  ErrCode
	While string
	Cause error
}

// Implement `error`.
func (self Err) Error() string {
	if self == (Err{}) {
		return ""
	}
	msg := `[dbrepo]`
	if self.Code != ErrCodeUnknown {
		msg += fmt.Sprintf(` %s`, self.Code)
	}
	if self.While != "" {
		msg += fmt.Sprintf(` while %v`, self.While)
	}
	if self.Cause != nil {
		msg += `: ` + self.Cause.Error()
	}
	return msg
}

// Implement a hidden interface in "errors".
func (self Err) Is(other error) bool {
	if self.Cause != nil && errors.Is(self.Cause, other) {
		return true
	}
	switch err := other.(type) {
	case Err:
		return err.Code == self.Code
	case QueryErr:
		return self.Code == ErrCodeQueryFailed
	}
	return false
}

// Implement a hidden interface in "errors".
func (self Err) Unwrap() error {
	return self.Cause
}

func (self Err) while(while string) Err {
	self.While = while
	return self
}

func (self Err) because(cause error) Err {
	self.Cause = cause
	return self
}

/*
Returned by every failed statement execution. Carries the driver's error code
and message together with the full SQL text that failed. Matches
`ErrQueryFailed` via `errors.Is`, and the underlying driver error via
`errors.As`.

The code is driver-specific: the MySQL error number, the Postgres SQLSTATE,
or the SQLite extended result code. It's empty when the driver doesn't expose
one.
*/
type QueryErr struct {
	DriverCode string
	DriverMsg  string
	Sql        string
	Cause      error
}

// Implement `error`. Mirrors the classic "QUERY_FAILED: code, message\nsql"
// layout.
func (self QueryErr) Error() string {
	msg := `[dbrepo] ` + string(ErrCodeQueryFailed)
	if self.DriverCode != `` {
		msg += `: ` + self.DriverCode + `,`
	} else {
		msg += `:`
	}
	msg += ` ` + self.DriverMsg
	if self.Sql != `` {
		msg += "\n" + self.Sql
	}
	return msg
}

// Implement a hidden interface in "errors".
func (self QueryErr) Is(other error) bool {
	err, ok := other.(Err)
	return ok && err.Code == ErrCodeQueryFailed
}

// Implement a hidden interface in "errors".
func (self QueryErr) Unwrap() error { return self.Cause }
