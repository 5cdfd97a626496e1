package dbrepo

import (
	"strings"
)

// Quotes a table name with the dialect's identifier quotes.
func QuoteTable(dia Dialect, name string) string { return dia.QuoteIdent(name) }

/*
Quotes a field name, optionally qualified by a table:

	QuoteField(MySQL{}, `name`, ``)       // `name`
	QuoteField(MySQL{}, `name`, `users`)  // `users`.`name`
	QuoteField(MySQL{}, `*`, `users`)     // `users`.*

The wildcard "*" is never quoted.
*/
func QuoteField(dia Dialect, name, table string) string {
	if name != `*` {
		name = dia.QuoteIdent(name)
	}
	if table != `` {
		return QuoteTable(dia, table) + `.` + name
	}
	return name
}

/*
List of field names, used for select lists and insert columns. An empty list
stands for "*". Usually obtained from `ParseFields`, which accepts the
comma-separated form `"id, name"`.
*/
type Fields []string

// Splits a comma-separated field list, trimming whitespace around each name.
// Empty input yields nil, which means "*".
func ParseFields(src string) Fields {
	if strings.TrimSpace(src) == `` {
		return nil
	}
	out := strings.Split(src, `,`)
	for ind := range out {
		out[ind] = strings.TrimSpace(out[ind])
	}
	return out
}

// True if the list selects everything: empty, or the single wildcard.
func (self Fields) IsStar() bool {
	return len(self) == 0 || (len(self) == 1 && strings.TrimSpace(self[0]) == `*`)
}

// Quotes every field via `QuoteField`. An empty list quotes as a single "*".
func (self Fields) Quoted(dia Dialect, table string) []string {
	if len(self) == 0 {
		return []string{QuoteField(dia, `*`, table)}
	}
	out := make([]string, len(self))
	for ind, val := range self {
		out[ind] = QuoteField(dia, val, table)
	}
	return out
}

// Quoted fields joined with ", ".
func (self Fields) Sql(dia Dialect, table string) string {
	return strings.Join(self.Quoted(dia, table), `, `)
}
