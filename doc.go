/*
Dynamic SQL condition compiler and statement assembler, with a thin execution
layer over "database/sql". Oriented towards building WHERE clauses from
structured, possibly user-shaped descriptions, and turning them into complete
SELECT, COUNT, INSERT, UPDATE and DELETE statements with values inlined as
properly quoted literals.

Key Features

• Conditions are ordered sequences of field/term clauses with per-clause
operators and conjunctions, including IN lists, BETWEEN ranges, nested groups,
and alternate comparisons of one field (FIELD_GROUP). See `Where`.

• Conditions can be decoded from YAML or JSON text with their order preserved.
See `ParseCondYAML`.

• Literal quoting is delegated to a `Dialect`. MySQL, SQLite and Postgres are
supported.

• Statements are plain text. There's no query planner and no ORM.

• Query nodes are looked up by database domain and opened lazily. See `Node`.

Trust Boundary

`Raw` conditions, raw terms, field names and `Find.Sort` are emitted verbatim.
They must come from trusted code. Values are always quoted by the dialect,
unless the term is explicitly raw.

Example

	node, err := dbrepo.Node(``)
	if err != nil {
		return err
	}

	page, err := node.Select(ctx, dbrepo.Find{
		Table:  `users`,
		Fields: dbrepo.ParseFields(`id, name`),
		Cond: dbrepo.Where{}.
			And(`status`, dbrepo.Lit(1)).
			And(`age`, dbrepo.T(dbrepo.List{18, 65}, dbrepo.OpBetween, ``)),
		Sort:  `id DESC`,
		Limit: dbrepo.LimitFrom(20, 10),
		Total: true,
	})
*/
package dbrepo
