package dbrepo

import (
	"strconv"
	"strings"

	"github.com/lib/pq"
)

/*
Encapsulates the syntax differences between SQL engines that matter to this
package: identifier quoting, string-literal quoting, and paging.

`QuoteString` is the single trust boundary for injection safety. Everything
else in this package relies on it to escape string literals correctly for the
target engine.
*/
type Dialect interface {
	Name() string
	QuoteIdent(string) string
	QuoteString(string) string
	Limit(sql string, offset, length int64) string
}

var (
	_ = Dialect(MySQL{})
	_ = Dialect(SQLite{})
	_ = Dialect(Postgres{})
)

/*
Returns the dialect for a `database/sql` driver name. Unknown names fall back
to `MySQL`, whose backtick quoting is the historical default of this package.
*/
func DialectFor(driver string) Dialect {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case `sqlite3`, `sqlite`:
		return SQLite{}
	case `postgres`, `postgresql`, `pgx`:
		return Postgres{}
	default:
		return MySQL{}
	}
}

// MySQL and MariaDB. Backtick identifiers, backslash-escaped strings.
type MySQL struct{}

func (MySQL) Name() string { return `mysql` }

func (MySQL) QuoteIdent(val string) string { return quoteWith(val, quoteGrave) }

/*
Escapes the same characters as `mysql_real_escape_string`, which is what
PDO uses for MySQL connections.
*/
func (MySQL) QuoteString(val string) string {
	buf := make([]byte, 0, len(val)+2)
	buf = append(buf, quoteSingle)
	for ind := 0; ind < len(val); ind++ {
		char := val[ind]
		switch char {
		case 0:
			buf = append(buf, `\0`...)
		case '\n':
			buf = append(buf, `\n`...)
		case '\r':
			buf = append(buf, `\r`...)
		case '\\':
			buf = append(buf, `\\`...)
		case '\'':
			buf = append(buf, `\'`...)
		case '"':
			buf = append(buf, `\"`...)
		case '\x1a':
			buf = append(buf, `\Z`...)
		default:
			buf = append(buf, char)
		}
	}
	buf = append(buf, quoteSingle)
	return string(buf)
}

// Backslash starts an escape sequence inside MySQL string literals.
func (MySQL) BackslashEscapes() bool { return true }

func (MySQL) Limit(sql string, offset, length int64) string {
	return limitComma(sql, offset, length)
}

// SQLite. Accepts MySQL-style backtick identifiers and `LIMIT o, n`.
type SQLite struct{}

func (SQLite) Name() string { return `sqlite3` }

func (SQLite) QuoteIdent(val string) string { return quoteWith(val, quoteGrave) }

func (SQLite) QuoteString(val string) string { return quoteStandard(val) }

func (SQLite) Limit(sql string, offset, length int64) string {
	return limitComma(sql, offset, length)
}

// Postgres. Double-quoted identifiers and literals quoted by "lib/pq".
type Postgres struct{}

func (Postgres) Name() string { return `postgres` }

func (Postgres) QuoteIdent(val string) string { return pq.QuoteIdentifier(val) }

/*
Delegates to `pq.QuoteLiteral`. Strings containing a backslash become escape
strings such as E'a\\b', which read the same regardless of the server's
"standard_conforming_strings" setting.
*/
func (Postgres) QuoteString(val string) string {
	return strings.TrimPrefix(pq.QuoteLiteral(val), ` `)
}

func (Postgres) Limit(sql string, offset, length int64) string {
	return sql + ` LIMIT ` + strconv.FormatInt(length, 10) + ` OFFSET ` + strconv.FormatInt(offset, 10)
}

const (
	quoteSingle = '\''
	quoteGrave  = '`'
)

func quoteWith(val string, quote byte) string {
	buf := make([]byte, 0, len(val)+2)
	buf = append(buf, quote)
	for ind := 0; ind < len(val); ind++ {
		if val[ind] == quote {
			buf = append(buf, quote)
		}
		buf = append(buf, val[ind])
	}
	buf = append(buf, quote)
	return string(buf)
}

// Standard SQL: the only escape is a doubled single quote.
func quoteStandard(val string) string { return quoteWith(val, quoteSingle) }

func limitComma(sql string, offset, length int64) string {
	return sql + ` LIMIT ` + strconv.FormatInt(offset, 10) + `, ` + strconv.FormatInt(length, 10)
}
