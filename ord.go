package dbrepo

import (
	"regexp"
	"strings"
)

var ordReg = regexp.MustCompile(
	`^\s*((?:\w+\.)*\w+)(?i)(?:\s+(asc|desc))?(?:\s+nulls\s+(first|last))?\s*$`,
)

/*
Short for "orderings". Structured representation of the body of an SQL
"ORDER BY" clause such as:

	`name` ASC, `users`.`created` DESC

`Find.Sort` is trusted SQL text. `Ords` is the safe way of producing it from
external input such as a URL query or a CLI flag:

	ords, err := ParseOrds(`created desc, users.name`)
	find.Sort = ords.Sql(MySQL{})

An empty sequence represents no ordering and renders as "".
*/
type Ords []Ord

/*
Parses a comma-separated list of orderings. Each element has the form
"<ident>[.<ident>...] [asc|desc] [nulls first|last]", case-insensitive for
the keywords. Empty elements are skipped. Anything else is rejected with
`ErrInvalidInput`, which makes this suitable for untrusted input.
*/
func ParseOrds(src string) (out Ords, err error) {
	defer rec(&err)
	for _, val := range strings.Split(src, `,`) {
		if isBlank(val) {
			continue
		}
		out = append(out, parseOrd(val))
	}
	return
}

// Same as `ParseOrds` but for pre-split input.
func ParseOrdsSlice(src []string) (out Ords, err error) {
	defer rec(&err)
	for _, val := range src {
		if isBlank(val) {
			continue
		}
		out = append(out, parseOrd(val))
	}
	return
}

func parseOrd(src string) Ord {
	match := ordReg.FindStringSubmatch(src)
	if match == nil {
		panic(ErrInvalidInput.while(`parsing ordering`).because(errf(
			`%q is not a valid ordering string; expected format: "<ident> asc|desc [nulls first|last]"`, src,
		)))
	}
	return Ord{
		Path:  strings.Split(match[1], `.`),
		Dir:   strDir(match[2]),
		Nulls: strNulls(match[3]),
	}
}

// Renders the comma-joined orderings, without the "ORDER BY" keyword.
func (self Ords) Sql(dia Dialect) string {
	var buf []byte
	for _, val := range self {
		if val.IsEmpty() {
			continue
		}
		if len(buf) > 0 {
			buf = append(buf, `, `...)
		}
		buf = val.Append(buf, dia)
	}
	return string(buf)
}

// Returns true if there are no non-empty items.
func (self Ords) IsEmpty() bool {
	for _, val := range self {
		if !val.IsEmpty() {
			return false
		}
	}
	return true
}

/*
Short for "ordering". Describes one element of an SQL ordering:

	`some_col` ASC
	`some_table`.`other_col` DESC NULLS LAST

Identifiers are quoted by the dialect and their case is preserved. MySQL has
no "NULLS FIRST|LAST" syntax, so `Nulls` is ignored there.
*/
type Ord struct {
	Path  []string
	Dir   Dir
	Nulls Nulls
}

// True if the path is empty.
func (self Ord) IsEmpty() bool { return len(self.Path) == 0 }

// Appends the SQL text to the buffer.
func (self Ord) Append(buf []byte, dia Dialect) []byte {
	for ind, val := range self.Path {
		if ind > 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, dia.QuoteIdent(val)...)
	}
	if self.Dir != DirNone {
		buf = append(buf, ' ')
		buf = append(buf, self.Dir...)
	}
	if self.Nulls != NullsNone && dia.Name() != (MySQL{}).Name() {
		buf = append(buf, ` NULLS `...)
		buf = append(buf, self.Nulls...)
	}
	return buf
}

// Sort direction. The zero value renders nothing, which means ascending.
type Dir string

const (
	DirNone Dir = ``
	DirAsc  Dir = `ASC`
	DirDesc Dir = `DESC`
)

func strDir(src string) Dir {
	switch strings.ToLower(src) {
	case `asc`:
		return DirAsc
	case `desc`:
		return DirDesc
	default:
		return DirNone
	}
}

// Placement of nulls. The zero value renders nothing.
type Nulls string

const (
	NullsNone  Nulls = ``
	NullsFirst Nulls = `FIRST`
	NullsLast  Nulls = `LAST`
)

func strNulls(src string) Nulls {
	switch strings.ToLower(src) {
	case `first`:
		return NullsFirst
	case `last`:
		return NullsLast
	default:
		return NullsNone
	}
}
