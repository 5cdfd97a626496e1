package dbrepo

import (
	"reflect"

	"github.com/mitranim/refut"
)

/*
Takes a struct and returns the names of its "db"-tagged fields, suitable for
`Find.Fields`. Also accepts the following inputs and automatically dereferences
them into a struct type:

	* Struct pointer.
	* Struct slice.
	* Struct slice pointer.

Nil slices and pointers are fine, as long as they carry a struct type. Embedded
structs are treated as part of the enclosing struct. Any other input causes a
panic.

	type User struct {
		Id   int64  `db:"id"`
		Name string `db:"name"`
	}

	find.Fields = StructFields([]User(nil)) // Fields{"id", "name"}
*/
func StructFields(dest any) Fields {
	rtype := reflect.TypeOf(dest)
	if rtype != nil {
		rtype = refut.RtypeDeref(rtype)
		if rtype.Kind() == reflect.Slice {
			rtype = refut.RtypeDeref(rtype.Elem())
		}
	}

	if rtype == nil || rtype.Kind() != reflect.Struct {
		panic(ErrInvalidInput.while(`generating struct fields for select list`).
			because(errf(`expected struct, got %v`, rtype)))
	}

	var out Fields
	err := refut.TraverseStructRtype(rtype, func(sfield reflect.StructField, _ []int) error {
		name := sfieldColumnName(sfield)
		if name != `` {
			out = append(out, name)
		}
		return nil
	})
	must(err)
	return out
}
