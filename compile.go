package dbrepo

import (
	"database/sql/driver"
	"fmt"
	r "reflect"
	"strings"
)

/*
Compiles a condition into the text of a WHERE clause, without the "WHERE"
keyword. Rules:

	nil, empty Where    ->  ""
	Raw                 ->  verbatim, never parenthesized
	Where               ->  clauses joined by their conjunctions

Each clause renders as "<field> <op> <value>", followed by the clause's
conjunction. The last conjunction is trimmed. List values are dispatched on
the operator:

	=, IN          field IN (v1,v2,...)
	NOT IN         field NOT IN (v1,v2,...)
	BETWEEN_AND    field BETWEEN lo AND hi
	NOT_BETWEEN_AND  NOT field BETWEEN lo AND hi
	FIELD_GROUP    (field op1 v1 CONJ field op2 v2 ...)
	other          field op v1,v2,... with elements emitted verbatim

Note that a list with the plain "=" operator always means membership and
becomes IN. A nested `Where` value compiles into a parenthesized group, and a
`Raw` value is emitted verbatim. In both cases the clause's field and operator
are ignored.

When `parens` is true and the result is non-empty, it's wrapped in exactly one
pair of parens.

Malformed input never causes a panic. Clauses that compile to nothing, such as
empty groups, are skipped.
*/
func CompileCond(dia Dialect, cond Cond, parens bool) string {
	switch cond := cond.(type) {
	case Raw:
		return string(cond)
	case Where:
		return compileWhere(dia, cond, parens)
	default:
		return ``
	}
}

func compileWhere(dia Dialect, where Where, parens bool) string {
	var buf []byte
	var conj Conj

	for _, clause := range where {
		buf, conj = appendClause(buf, dia, clause, conj)
	}

	if len(buf) == 0 {
		return ``
	}

	// Every clause ends with " <conj> "; the last one has nothing to join.
	buf = buf[:len(buf)-(len(conj)+2)]

	if parens {
		return `(` + string(buf) + `)`
	}
	return string(buf)
}

/*
Appends "<tokens> <conj> " for one clause. When the clause compiles to nothing,
the buffer is returned unchanged along with the previous conjunction, which
keeps the final trim aligned with the last emitted clause.
*/
func appendClause(buf []byte, dia Dialect, clause Clause, prev Conj) ([]byte, Conj) {
	term := clause.Term
	field := clause.Field
	op := term.Op.Norm()
	conj := term.Conj.Norm()
	var prefix, value string

	switch val := term.Val.(type) {
	case Where:
		value = compileWhere(dia, val, true)
		field, op = ``, ``
	case Raw:
		value = string(val)
		field, op = ``, ``
	default:
		list, isList := listOf(val)
		if isList {
			prefix, field, op, value = compileList(dia, field, op, list)
		} else if term.Raw {
			value = rawText(val)
		} else {
			value = Quote(dia, val)
		}
	}

	if value == `` && field == `` && op == `` {
		return buf, prev
	}

	buf = appendTokens(buf, prefix, field, string(op), value)
	buf = append(buf, ' ')
	buf = append(buf, conj...)
	buf = append(buf, ' ')
	return buf, conj
}

// Returns prefix, field, operator and value for a list operand.
func compileList(dia Dialect, field string, op Op, list List) (string, string, Op, string) {
	switch op {
	case OpEq, OpIn:
		return ``, field, OpIn, quoteList(dia, list)

	case OpNotIn:
		return ``, field, OpNotIn, quoteList(dia, list)

	case OpBetween, OpNotBetween:
		value := `BETWEEN ` + Quote(dia, listAt(list, 0)) + ` AND ` + Quote(dia, listAt(list, 1))
		if op == OpNotBetween {
			return `NOT`, field, ``, value
		}
		return ``, field, ``, value

	case OpFieldGroup:
		group := make(Where, 0, len(list))
		for _, val := range list {
			group = append(group, Clause{field, termOf(val)})
		}
		return ``, ``, ``, compileWhere(dia, group, true)

	default:
		texts := make([]string, len(list))
		for ind, val := range list {
			texts[ind] = rawText(val)
		}
		return ``, field, op, strings.Join(texts, `,`)
	}
}

func quoteList(dia Dialect, list List) string {
	texts := make([]string, len(list))
	for ind, val := range list {
		texts[ind] = Quote(dia, val)
	}
	return `(` + strings.Join(texts, `,`) + `)`
}

func listAt(list List, ind int) any {
	if ind < len(list) {
		return list[ind]
	}
	return nil
}

/*
Recognizes list operands. `List` and `[]any` are used directly. Other slices
are converted element-wise, except `[]byte` and values implementing
`driver.Valuer`, which are scalars.
*/
func listOf(val any) (List, bool) {
	switch val := val.(type) {
	case List:
		return val, true
	case []any:
		return List(val), true
	case []byte, driver.Valuer, nil:
		return nil, false
	}

	rval := r.ValueOf(val)
	switch rval.Kind() {
	case r.Slice:
		out := make(List, rval.Len())
		for ind := range out {
			out[ind] = rval.Index(ind).Interface()
		}
		return out, true
	default:
		return nil, false
	}
}

// Text of a value that is already valid SQL.
func rawText(val any) string {
	switch val := norm(val).(type) {
	case nil:
		return `NULL`
	case string:
		return val
	case Raw:
		return string(val)
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

func appendTokens(buf []byte, tokens ...string) []byte {
	first := true
	for _, val := range tokens {
		if val == `` {
			continue
		}
		if !first {
			buf = append(buf, ' ')
		}
		buf = append(buf, val...)
		first = false
	}
	return buf
}
