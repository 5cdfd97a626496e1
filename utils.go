package dbrepo

import (
	"fmt"
	"strconv"
	"strings"
	"unsafe"
)

/*
Allocation-free conversion. Reinterprets a byte slice as a string. Borrowed from
the standard library. Reasonably safe. Should not be used when the underlying
byte array is volatile, for example when it's part of a scratch buffer during
SQL scanning.
*/
func bytesToMutableString(bytes []byte) string {
	return *(*string)(unsafe.Pointer(&bytes))
}

func errf(pattern string, args ...any) error { return fmt.Errorf(pattern, args...) }

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Converts a panic into an error. Non-error panics are re-raised.
func rec(ptr *error) {
	val := recover()
	if val == nil {
		return
	}
	err, ok := val.(error)
	if ok {
		*ptr = err
		return
	}
	panic(val)
}

func joinComma(vals []string) string { return strings.Join(vals, `,`) }

func isBlank(val string) bool { return strings.TrimSpace(val) == `` }

func formatDelta(delta int64) string { return `+` + strconv.FormatInt(delta, 10) }

// Domain used when none is specified.
const DefaultDomain = `default`

func domainOr(domain string) string {
	if isBlank(domain) {
		return DefaultDomain
	}
	return domain
}
