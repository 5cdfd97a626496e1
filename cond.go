package dbrepo

import (
	"strings"
)

/*
Description of a WHERE clause. Sealed sum type with two variants:

	Raw    trusted SQL text, emitted verbatim
	Where  ordered sequence of field/term clauses

A nil `Cond` means "no condition". Use `CompileCond` to render it, or
`ParseCond`/`ParseCondYAML` to obtain one from dynamic input.
*/
type Cond interface{ isCond() }

/*
Trusted SQL condition text, emitted without any validation or quoting. Never
build this from user input.
*/
type Raw string

func (Raw) isCond() {}

/*
Ordered sequence of clauses. Order matters: it determines the order of the
generated SQL and which conjunction gets trimmed at the end.

	dbrepo.Where{
		{`status`, dbrepo.Lit(1)},
		{`id`, dbrepo.T(dbrepo.List{1, 2, 3}, dbrepo.OpIn, ``)},
		{`age`, dbrepo.T(dbrepo.List{18, 65}, dbrepo.OpBetween, dbrepo.ConjOr)},
	}
*/
type Where []Clause

func (Where) isCond() {}

// Appends a clause, returning the updated sequence.
func (self Where) And(field string, term Term) Where {
	return append(self, Clause{field, term})
}

/*
One element of `Where`. `Field` is usually a column name or an arbitrary SQL
expression such as "t.col" or "LOWER(name)". It's not quoted. When the term's
value is a nested `Where`, the field is a synthetic group key and is ignored.
*/
type Clause struct {
	Field string
	Term  Term
}

/*
The (value, operator, conjunction, raw) tuple describing one comparison. The
zero `Op` means "=", the zero `Conj` means "AND". The conjunction joins this
clause to the NEXT one; the last clause's conjunction is dropped.

`Val` is one of:

	scalar   quoted via `Quote` unless `Raw` is set
	List     operand of IN, BETWEEN_AND, FIELD_GROUP
	Where    nested group, compiled in parens
	Raw      trusted condition text, emitted as-is

When `Raw` is true, a scalar value is emitted verbatim.
*/
type Term struct {
	Val  any
	Op   Op
	Conj Conj
	Raw  bool
}

// Shortcut for `Term{Val: val}`, which compiles as `field = val`.
func Lit(val any) Term { return Term{Val: val} }

// Shortcut for `Term{val, op, conj, false}`.
func T(val any, op Op, conj Conj) Term { return Term{Val: val, Op: op, Conj: conj} }

// Shortcut for a raw term: the value is valid SQL and is emitted verbatim.
func RawT(val string, op Op, conj Conj) Term {
	return Term{Val: val, Op: op, Conj: conj, Raw: true}
}

// Ordered list operand. See `Term`.
type List []any

/*
Comparison operator. The known vocabulary is enumerated below. Any other text
is a dialect-specific operator such as "REGEXP" or "IS", passed through as-is
for scalar values and treated as raw for list values. `ParseOp` normalizes
case and surrounding whitespace.
*/
type Op string

const (
	OpEq         Op = `=`
	OpNe         Op = `!=`
	OpLtGt       Op = `<>`
	OpLt         Op = `<`
	OpGt         Op = `>`
	OpLte        Op = `<=`
	OpGte        Op = `>=`
	OpLike       Op = `LIKE`
	OpNotLike    Op = `NOT LIKE`
	OpIn         Op = `IN`
	OpNotIn      Op = `NOT IN`
	OpBetween    Op = `BETWEEN_AND`
	OpNotBetween Op = `NOT_BETWEEN_AND`
	OpFieldGroup Op = `FIELD_GROUP`
)

// Trims and upper-cases. Empty input yields `OpEq`.
func ParseOp(src string) Op {
	src = strings.ToUpper(strings.TrimSpace(src))
	if src == `` {
		return OpEq
	}
	return Op(src)
}

// Returns the normalized form. See `ParseOp`.
func (self Op) Norm() Op { return ParseOp(string(self)) }

// True for the enumerated vocabulary. False means raw passthrough.
func (self Op) IsKnown() bool {
	switch self.Norm() {
	case OpEq, OpNe, OpLtGt, OpLt, OpGt, OpLte, OpGte,
		OpLike, OpNotLike, OpIn, OpNotIn,
		OpBetween, OpNotBetween, OpFieldGroup:
		return true
	default:
		return false
	}
}

// Boolean join between consecutive clauses.
type Conj string

const (
	ConjAnd Conj = `AND`
	ConjOr  Conj = `OR`
)

// Trims and upper-cases. Empty input yields `ConjAnd`.
func ParseConj(src string) Conj {
	src = strings.ToUpper(strings.TrimSpace(src))
	if src == `` {
		return ConjAnd
	}
	return Conj(src)
}

// Returns the normalized form. See `ParseConj`.
func (self Conj) Norm() Conj { return ParseConj(string(self)) }

/*
Converts an arbitrary element of a FIELD_GROUP list into a term. A `Term` is
used as-is, anything else becomes `Lit(val)`.
*/
func termOf(val any) Term {
	switch val := val.(type) {
	case Term:
		return val
	case *Term:
		if val != nil {
			return *val
		}
		return Lit(nil)
	default:
		return Lit(val)
	}
}
