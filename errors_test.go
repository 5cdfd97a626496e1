package dbrepo

import (
	"errors"
	"testing"
)

func TestErr(t *testing.T) {
	eq(t, ``, Err{}.Error())
	eq(t, `[dbrepo] InvalidInput: invalid input`, ErrInvalidInput.Error())
	eq(t,
		`[dbrepo] InvalidInput while parsing: boom`,
		ErrInvalidInput.while(`parsing`).because(errors.New(`boom`)).Error(),
	)

	err := ErrUnknownDomain.while(`resolving "logs"`)
	eq(t, true, errors.Is(err, ErrUnknownDomain))
	eq(t, false, errors.Is(err, ErrClosed))
	eq(t, false, errors.Is(err, ErrQueryFailed))

	cause := errors.New(`cause`)
	eq(t, true, errors.Is(ErrInvalidInput.because(cause), cause))
}

func TestQueryErr(t *testing.T) {
	cause := errors.New(`driver failure`)
	err := error(QueryErr{
		DriverCode: `1064`,
		DriverMsg:  `syntax error`,
		Sql:        `SELEC 1`,
		Cause:      cause,
	})

	eq(t, "[dbrepo] QueryFailed: 1064, syntax error\nSELEC 1", err.Error())
	eq(t, `[dbrepo] QueryFailed: syntax error`, QueryErr{DriverMsg: `syntax error`}.Error())

	eq(t, true, errors.Is(err, ErrQueryFailed))
	eq(t, true, errors.Is(err, cause))
	eq(t, false, errors.Is(err, ErrInvalidInput))

	var target QueryErr
	eq(t, true, errors.As(err, &target))
	eq(t, `SELEC 1`, target.Sql)
}
