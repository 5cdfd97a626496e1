package dbrepo

import (
	"reflect"
	"sort"
	"strings"

	"github.com/mitranim/refut"
)

/*
Scans a struct, converting fields tagged with `db` into a sequence of
`NamedArgs`, in field order. The input must be a struct or a struct pointer. A
nil pointer is fine and produces a nil result. Panics on other inputs. Treats
embedded structs as part of enclosing structs.
*/
func StructNamedArgs(input any) NamedArgs {
	var args NamedArgs
	traverseStructDbFields(input, func(name string, value any) {
		args = append(args, Named(name, value))
	})
	return args
}

/*
Converts a map into `NamedArgs`. Go maps are unordered, so the keys are sorted
to keep the generated SQL deterministic. Use `NamedArgs` directly when the
column order matters.
*/
func MapNamedArgs(input map[string]any) NamedArgs {
	if len(input) == 0 {
		return nil
	}

	keys := make([]string, 0, len(input))
	for key := range input {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	args := make(NamedArgs, 0, len(keys))
	for _, key := range keys {
		args = append(args, Named(key, input[key]))
	}
	return args
}

/*
Ordered column → value payload of INSERT and UPDATE statements. Produces the
"?" templates, the "`col`=?" pairs, and the ordered values for `Bind`.
*/
type NamedArgs []NamedArg

/*
Restricts the args to the given column names, compared case-insensitively.
Order of the args is preserved. With no names, returns self as-is.
*/
func (self NamedArgs) Only(names ...string) NamedArgs {
	if len(names) == 0 {
		return self
	}

	allowed := make(map[string]struct{}, len(names))
	for _, name := range names {
		allowed[strings.ToLower(name)] = struct{}{}
	}

	var out NamedArgs
	for _, arg := range self {
		if _, ok := allowed[strings.ToLower(arg.Name)]; ok {
			out = append(out, arg)
		}
	}
	return out
}

// Column names in order.
func (self NamedArgs) Names() Fields {
	out := make(Fields, len(self))
	for ind, arg := range self {
		out[ind] = arg.Name
	}
	return out
}

// Values in order, suitable for `Bind`.
func (self NamedArgs) Values() []any {
	out := make([]any, len(self))
	for ind, arg := range self {
		out[ind] = arg.Value
	}
	return out
}

// One "?" per arg.
func (self NamedArgs) Holders() []string {
	out := make([]string, len(self))
	for ind := range self {
		out[ind] = `?`
	}
	return out
}

// One "`col`=?" per arg, with the column quoted by the dialect.
func (self NamedArgs) Pairs(dia Dialect) []string {
	out := make([]string, len(self))
	for ind, arg := range self {
		out[ind] = QuoteField(dia, arg.Name, ``) + `=?`
	}
	return out
}

/*
Returns true if at least one argument satisfies the predicate function. Example:

	ok := args.Some(NamedArg.IsNil)
*/
func (self NamedArgs) Some(fun func(NamedArg) bool) bool {
	for _, arg := range self {
		if fun != nil && fun(arg) {
			return true
		}
	}
	return false
}

// Convenience function for creating a named arg without struct field labels.
func Named(name string, value any) NamedArg {
	return NamedArg{Name: name, Value: value}
}

// Same as `sql.NamedArg`, with additional methods. See `NamedArgs`.
type NamedArg struct {
	Name  string
	Value any
}

/*
Returns true if the value would be equivalent to `null` in SQL. Caution: this is
NOT the same as comparing the value to `nil`:

	NamedArg{}.Value == nil                      // true
	NamedArg{}.IsNil()                           // true

	NamedArg{Value: (*string)(nil)}.Value == nil // false
	NamedArg{Value: (*string)(nil)}.IsNil()      // true
*/
func (self NamedArg) IsNil() bool { return norm(self.Value) == nil }

func traverseStructDbFields(input any, fun func(string, any)) {
	rval := reflect.ValueOf(input)
	if !rval.IsValid() {
		return
	}
	rtype := refut.RtypeDeref(rval.Type())

	if rtype.Kind() != reflect.Struct {
		panic(ErrInvalidInput.while(`traversing struct for DB fields`).
			because(errf(`expected struct, got %q`, rtype)))
	}

	if refut.IsRvalNil(rval) {
		return
	}

	err := refut.TraverseStructRval(rval, func(rval reflect.Value, sfield reflect.StructField, _ []int) error {
		colName := sfieldColumnName(sfield)
		if colName == `` {
			return nil
		}
		fun(colName, rval.Interface())
		return nil
	})
	if err != nil {
		panic(err)
	}
}

func sfieldColumnName(sfield reflect.StructField) string {
	return refut.TagIdent(sfield.Tag.Get(`db`))
}
