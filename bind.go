package dbrepo

import (
	"strings"

	"github.com/mitranim/sqlp"
)

/*
Substitutes "?" placeholders in the template with quoted values, in order:

	Bind(MySQL{}, `INSERT INTO t (a,b) VALUES (?,?)`, []any{1, `x`})
	// INSERT INTO t (a,b) VALUES (1,'x')

Values are quoted via `Quote`. Extra values are ignored. When there are fewer
values than placeholders, the remaining placeholders stay as-is. Text around
the placeholders is kept exactly as written.

The template is tokenized, so a "?" inside a quoted literal or a comment is not
a placeholder. The tokenizer follows standard SQL quoting. When it can't
reproduce the template exactly, for example because of an unterminated quote,
or when the dialect uses backslash escapes and the template contains a
backslash, every "?" is treated as a placeholder instead.
*/
func Bind(dia Dialect, src string, vals []any) string {
	if len(vals) == 0 {
		return src
	}
	if hasBackslashEscapes(dia) && strings.IndexByte(src, '\\') >= 0 {
		return bindPlain(dia, src, vals)
	}

	out, ok := bindTokens(dia, src, vals)
	if !ok {
		return bindPlain(dia, src, vals)
	}
	return out
}

/*
Substitutes placeholders found in plain text nodes. Returns false when the
nodes, appended back together, don't reproduce the source, which means some
quote or comment was left unterminated.
*/
func bindTokens(dia Dialect, src string, vals []any) (out string, ok bool) {
	defer func() {
		if recover() != nil {
			out, ok = ``, false
		}
	}()

	tokenizer := sqlp.Tokenizer{Source: src}
	buf := make([]byte, 0, len(src)+len(vals)*8)
	echo := make([]byte, 0, len(src))
	next := 0

	for {
		node := tokenizer.Next()
		if node == nil {
			break
		}

		text, isText := node.(sqlp.NodeText)
		if isText {
			echo = append(echo, text...)
			buf, next = appendBound(buf, dia, string(text), vals, next)
			continue
		}

		start := len(buf)
		node.Append(&buf)
		echo = append(echo, buf[start:]...)
	}

	if string(echo) != src {
		return ``, false
	}
	return bytesToMutableString(buf), true
}

// Implemented by dialects whose string literals treat "\" as an escape.
type backslashEscaper interface{ BackslashEscapes() bool }

func hasBackslashEscapes(dia Dialect) bool {
	val, ok := dia.(backslashEscaper)
	return ok && val.BackslashEscapes()
}

func appendBound(buf []byte, dia Dialect, text string, vals []any, next int) ([]byte, int) {
	for {
		ind := strings.IndexByte(text, '?')
		if ind < 0 || next >= len(vals) {
			return append(buf, text...), next
		}
		buf = append(buf, text[:ind]...)
		buf = append(buf, Quote(dia, vals[next])...)
		text = text[ind+1:]
		next++
	}
}

func bindPlain(dia Dialect, src string, vals []any) string {
	parts := strings.Split(src, `?`)
	var buf strings.Builder
	buf.WriteString(parts[0])
	parts = parts[1:]

	for _, val := range vals {
		if len(parts) == 0 {
			break
		}
		buf.WriteString(Quote(dia, val))
		buf.WriteString(parts[0])
		parts = parts[1:]
	}

	for _, part := range parts {
		buf.WriteByte('?')
		buf.WriteString(part)
	}
	return buf.String()
}
