package dbrepo

import (
	"strings"
)

/*
Maps configured driver names to registered `database/sql` driver names. Returns
"" for unsupported names. The drivers themselves are registered by importing
their packages, which `datasource.go` does for error-code extraction.
*/
func DriverName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case `mysql`, `mariadb`:
		return `mysql`
	case `postgres`, `postgresql`:
		return `postgres`
	case `sqlite`, `sqlite3`:
		return `sqlite3`
	default:
		return ``
	}
}
