package dbrepo

import (
	"strings"
	"testing"
)

func TestCompileCond(t *testing.T) {
	dia := MySQL{}

	test := func(exp string, cond Cond) {
		t.Helper()
		eq(t, exp, CompileCond(dia, cond, false))
	}

	t.Run(`empty`, func(t *testing.T) {
		test(``, nil)
		test(``, Where(nil))
		test(``, Where{})
	})

	t.Run(`raw`, func(t *testing.T) {
		test(`a=1`, Raw(`a=1`))
		eq(t, `a=1`, CompileCond(dia, Raw(`a=1`), true))
	})

	t.Run(`scalar`, func(t *testing.T) {
		test(`status = 1`, Where{{`status`, Lit(1)}})
		test(`name = 'bob'`, Where{{`name`, Lit(`bob`)}})
		test(`deleted = NULL`, Where{{`deleted`, Lit(nil)}})
		test(`active = 1`, Where{{`active`, Lit(true)}})
		test(`price = 1.5`, Where{{`price`, Lit(1.5)}})
	})

	t.Run(`operators`, func(t *testing.T) {
		test(`age > 18`, Where{{`age`, T(18, OpGt, ``)}})
		test(`age <= 18`, Where{{`age`, T(18, `<=`, ``)}})
		test(`name LIKE '%bo%'`, Where{{`name`, T(`%bo%`, `like`, ``)}})
		test(`name NOT LIKE 'x'`, Where{{`name`, T(`x`, ` not like `, ``)}})
		test(`name REGEXP '^a'`, Where{{`name`, T(`^a`, `regexp`, ``)}})
	})

	t.Run(`conjunctions`, func(t *testing.T) {
		test(`a = 5 AND b > 10`, Where{
			{`a`, T(5, `=`, `AND`)},
			{`b`, T(10, `>`, `OR`)},
		})

		test(`a = 5 OR b > 10 AND c = 1`, Where{
			{`a`, T(5, ``, `or`)},
			{`b`, T(10, `>`, ``)},
			{`c`, Lit(1)},
		})
	})

	t.Run(`in`, func(t *testing.T) {
		test(`id IN (1,2,3)`, Where{{`id`, T(List{1, 2, 3}, OpIn, ``)}})
		test(`id NOT IN (1,2,3)`, Where{{`id`, T(List{1, 2, 3}, OpNotIn, ``)}})
		test(`name IN ('a','b')`, Where{{`name`, T([]string{`a`, `b`}, `in`, ``)}})
	})

	/**
	A list operand with the plain "=" operator is rewritten into membership. This
	is deliberate, and surprising enough to be pinned down by its own test.
	*/
	t.Run(`list_with_eq_becomes_in`, func(t *testing.T) {
		test(`id IN (1,2)`, Where{{`id`, Lit(List{1, 2})}})
		test(`id IN (1,2)`, Where{{`id`, Lit([]int{1, 2})}})
	})

	t.Run(`between`, func(t *testing.T) {
		test(`age BETWEEN 18 AND 65`, Where{{`age`, T(List{18, 65}, OpBetween, ``)}})
		test(`NOT age BETWEEN 18 AND 65`, Where{{`age`, T(List{18, 65}, OpNotBetween, ``)}})
		test(`age BETWEEN 18 AND NULL`, Where{{`age`, T(List{18}, `between_and`, ``)}})
		test(`created BETWEEN '2020-01-01' AND '2021-01-01'`, Where{
			{`created`, T(List{`2020-01-01`, `2021-01-01`}, OpBetween, ``)},
		})
	})

	t.Run(`field_group`, func(t *testing.T) {
		test(`(a > 15 OR a < 5 AND a != 32)`, Where{{`a`, T(List{
			T(15, `>`, `OR`),
			T(5, `<`, `AND`),
			T(32, `!=`, ``),
		}, OpFieldGroup, ``)}})

		test(`(a = 1 OR a = 2) AND b = 3`, Where{
			{`a`, T(List{T(1, ``, `OR`), 2}, OpFieldGroup, ``)},
			{`b`, Lit(3)},
		})

		test(`b = 3`, Where{
			{`a`, T(List{}, OpFieldGroup, ``)},
			{`b`, Lit(3)},
		})
	})

	t.Run(`unknown_operator_with_list_is_raw`, func(t *testing.T) {
		test(`pt @> 1,2`, Where{{`pt`, T(List{1, 2}, `@>`, ``)}})
	})

	t.Run(`raw_term`, func(t *testing.T) {
		test(`created < NOW()`, Where{{`created`, RawT(`NOW()`, `<`, ``)}})
		test(`x = y + 1 AND a = 1`, Where{
			{`x`, Term{Val: `y + 1`, Raw: true}},
			{`a`, Lit(1)},
		})
		test(`x = NULL`, Where{{`x`, Term{Raw: true}}})
	})

	t.Run(`raw_value`, func(t *testing.T) {
		test(`a = 1 OR b = 2`, Where{
			{`group`, T(Raw(`a = 1`), ``, `OR`)},
			{`b`, Lit(2)},
		})
	})

	t.Run(`nested_group`, func(t *testing.T) {
		test(`status = 1 AND (a = 1 OR b = 2)`, Where{
			{`status`, Lit(1)},
			{`_group`, Term{Val: Where{
				{`a`, T(1, ``, `OR`)},
				{`b`, Lit(2)},
			}}},
		})

		test(`(a = 1 OR (b = 2 AND c = 3)) OR d = 4`, Where{
			{`g0`, T(Where{
				{`a`, T(1, ``, `OR`)},
				{`g1`, Lit(Where{{`b`, Lit(2)}, {`c`, Lit(3)}})},
			}, ``, `OR`)},
			{`d`, Lit(4)},
		})
	})

	t.Run(`empty_group_is_skipped`, func(t *testing.T) {
		test(`a = 1`, Where{
			{`a`, T(1, ``, `OR`)},
			{`g`, Lit(Where{})},
		})
		test(``, Where{{`g`, Lit(Where{})}})
	})

	t.Run(`escaping`, func(t *testing.T) {
		test(`name = 'O\'Hara'`, Where{{`name`, Lit(`O'Hara`)}})
		eq(t, `name = 'O''Hara'`, CompileCond(Postgres{}, Where{{`name`, Lit(`O'Hara`)}}, false))
	})
}

func TestCompileCond_parens(t *testing.T) {
	dia := MySQL{}

	eq(t, ``, CompileCond(dia, nil, true))
	eq(t, ``, CompileCond(dia, Where{}, true))
	eq(t, `(a = 1)`, CompileCond(dia, Where{{`a`, Lit(1)}}, true))

	nested := Where{
		{`g0`, Lit(Where{
			{`g1`, Lit(Where{{`a`, T(1, ``, `OR`)}, {`b`, Lit(2)}})},
			{`c`, Lit(3)},
		})},
	}
	out := CompileCond(dia, nested, true)
	eq(t, `(((a = 1 OR b = 2) AND c = 3))`, out)
	eq(t, true, balancedParens(out))
}

func TestCompileCond_no_trailing_conj(t *testing.T) {
	conds := []Where{
		{{`a`, T(1, ``, `OR`)}},
		{{`a`, T(1, ``, `AND`)}, {`b`, T(2, ``, `OR`)}},
		{{`a`, T(List{1}, OpIn, `OR`)}},
		{{`a`, T(List{1, 2}, OpBetween, `OR`)}},
		{{`a`, T(List{T(1, ``, `OR`)}, OpFieldGroup, `OR`)}},
		{{`a`, T(1, ``, `OR`)}, {`g`, Lit(Where{})}},
		{{`a`, T(1, ``, `XOR`)}},
	}

	for _, cond := range conds {
		for _, dia := range dialects {
			out := CompileCond(dia, cond, false)
			notEq(t, true, hasTrailingConj(out))
		}
	}
}

func TestCompileCond_never_double_space(t *testing.T) {
	cond := Where{
		{`a`, T(List{1, 2}, OpNotBetween, `OR`)},
		{`g`, T(List{T(1, ``, `OR`), 2}, OpFieldGroup, ``)},
		{`h`, Lit(Where{{`x`, Lit(1)}})},
	}
	out := CompileCond(MySQL{}, cond, true)
	eq(t, `(NOT a BETWEEN 1 AND 2 OR (g = 1 OR g = 2) AND (x = 1))`, out)
	eq(t, false, strings.Contains(out, `  `))
}

func TestCompileCond_dialects(t *testing.T) {
	cond := Where{{`name`, Lit(`x`)}, {`n`, T(List{1, `y`}, OpIn, ``)}}
	eq(t, `name = 'x' AND n IN (1,'y')`, CompileCond(MySQL{}, cond, false))
	eq(t, `name = 'x' AND n IN (1,'y')`, CompileCond(SQLite{}, cond, false))
	eq(t, `name = 'x' AND n IN (1,'y')`, CompileCond(Postgres{}, cond, false))
}

func TestWhere_And(t *testing.T) {
	where := Where{}.And(`a`, Lit(1)).And(`b`, T(2, OpGt, ConjOr))
	eq(t, Where{{`a`, Lit(1)}, {`b`, T(2, OpGt, ConjOr)}}, where)
	eq(t, `a = 1 AND b > 2`, CompileCond(MySQL{}, where, false))
}

func hasTrailingConj(val string) bool {
	val = strings.TrimRight(val, ` )`)
	return strings.HasSuffix(val, ` AND`) || strings.HasSuffix(val, ` OR`) || strings.HasSuffix(val, ` XOR`)
}

func balancedParens(val string) bool {
	depth := 0
	for _, char := range val {
		switch char {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func BenchmarkCompileCond(b *testing.B) {
	cond := Where{
		{`status`, Lit(1)},
		{`id`, T(List{1, 2, 3, 4, 5}, OpIn, ``)},
		{`age`, T(List{18, 65}, OpBetween, `OR`)},
		{`a`, T(List{T(15, `>`, `OR`), T(5, `<`, ``)}, OpFieldGroup, ``)},
		{`name`, T(`%bob%`, OpLike, ``)},
	}
	b.ResetTimer()

	for ind := 0; ind < b.N; ind++ {
		_ = CompileCond(MySQL{}, cond, true)
	}
}
