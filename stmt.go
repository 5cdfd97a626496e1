package dbrepo

import (
	"strings"
)

/*
Description of a SELECT over one table.

	Table   table name, quoted on output
	Cond    WHERE condition, see `Cond`
	Fields  select list, qualified with the table; empty means "*"
	Sort    ORDER BY body; trusted SQL text, see `Ords` for safe input
	Limit   paging; the zero value means none
	Total   also compute the total number of matching rows, ignoring paging
*/
type Find struct {
	Table  string
	Cond   Cond
	Fields Fields
	Sort   string
	Limit  Limit
	Total  bool
}

/*
Paging window. `Length` of 0 means "no limit", in which case `Offset` is
ignored too, like in the classic "LIMIT skip, len" helpers.
*/
type Limit struct {
	Offset int64
	Length int64
}

// First `length` rows.
func LimitOf(length int64) Limit { return Limit{Length: length} }

// `length` rows starting at `offset`.
func LimitFrom(offset, length int64) Limit { return Limit{offset, length} }

// True if the limit restricts nothing.
func (self Limit) IsEmpty() bool { return self.Length <= 0 }

/*
Builds the unpaged SELECT:

	SELECT `t`.`a`, `t`.`b` FROM `t` WHERE <cond> ORDER BY <sort>
*/
func SelectSql(dia Dialect, find Find) string {
	var buf strings.Builder
	buf.WriteString(`SELECT `)
	buf.WriteString(find.Fields.Sql(dia, find.Table))
	buf.WriteString(` FROM `)
	buf.WriteString(QuoteTable(dia, find.Table))
	appendWhere(&buf, dia, find.Cond)
	if !isBlank(find.Sort) {
		buf.WriteString(` ORDER BY `)
		buf.WriteString(find.Sort)
	}
	return buf.String()
}

// Appends the dialect's paging suffix. An empty limit returns the input as-is.
func LimitSql(dia Dialect, sql string, limit Limit) string {
	if limit.IsEmpty() {
		return sql
	}
	offset := limit.Offset
	if offset < 0 {
		offset = 0
	}
	return dia.Limit(sql, offset, limit.Length)
}

// Wraps a SELECT so that it counts its rows.
func CountWrapSql(sql string) string {
	return `SELECT COUNT(*) FROM (` + sql + `) AS t`
}

/*
Builds a count query:

	SELECT COUNT(*) FROM `t` WHERE <cond>
	SELECT COUNT(DISTINCT `t`.`a`) FROM `t`
*/
func CountSql(dia Dialect, table string, cond Cond, fields Fields, distinct bool) string {
	var buf strings.Builder
	buf.WriteString(`SELECT COUNT(`)
	if distinct {
		buf.WriteString(`DISTINCT `)
	}
	if fields.IsStar() {
		buf.WriteString(`*`)
	} else {
		buf.WriteString(fields.Sql(dia, table))
	}
	buf.WriteString(`) FROM `)
	buf.WriteString(QuoteTable(dia, table))
	appendWhere(&buf, dia, cond)
	return buf.String()
}

/*
Builds an INSERT with inlined values:

	INSERT INTO `t` (`a`, `b`) VALUES (1,'two')

The row must be non-empty, otherwise `ErrInvalidInput` is returned.
*/
func InsertSql(dia Dialect, table string, row NamedArgs) (string, error) {
	if len(row) == 0 {
		return ``, ErrInvalidInput.while(`building insert`).because(errf(`no columns for table %q`, table))
	}

	text := `INSERT INTO ` + QuoteTable(dia, table) +
		` (` + row.Names().Sql(dia, ``) + `)` +
		` VALUES (` + joinComma(row.Holders()) + `)`

	return Bind(dia, text, row.Values()), nil
}

/*
Builds an UPDATE with inlined values:

	UPDATE `t` SET `a`=1,`b`='two' WHERE <cond>

An empty row returns `ErrNothingToUpdate`. Without a condition, every row is
updated.
*/
func UpdateSql(dia Dialect, table string, row NamedArgs, cond Cond) (string, error) {
	if len(row) == 0 {
		return ``, ErrNothingToUpdate.while(`building update for table ` + table)
	}

	text := `UPDATE ` + QuoteTable(dia, table) + ` SET ` + joinComma(row.Pairs(dia))

	var buf strings.Builder
	buf.WriteString(Bind(dia, text, row.Values()))
	appendWhere(&buf, dia, cond)
	return buf.String(), nil
}

// Builds "DELETE FROM `t` WHERE <cond>". Without a condition, deletes everything.
func DeleteSql(dia Dialect, table string, cond Cond) string {
	var buf strings.Builder
	buf.WriteString(`DELETE FROM `)
	buf.WriteString(QuoteTable(dia, table))
	appendWhere(&buf, dia, cond)
	return buf.String()
}

/*
Builds an in-place increment:

	UPDATE `t` SET `f`=`f`+1 WHERE <cond>

A negative delta renders as "+-1", which every supported engine accepts. An
empty field returns `ErrEmptyField`.
*/
func IncrSql(dia Dialect, table, field string, delta int64, cond Cond) (string, error) {
	if isBlank(field) {
		return ``, ErrEmptyField.while(`building increment for table ` + table)
	}

	qfield := QuoteField(dia, field, ``)

	var buf strings.Builder
	buf.WriteString(`UPDATE `)
	buf.WriteString(QuoteTable(dia, table))
	buf.WriteString(` SET `)
	buf.WriteString(qfield)
	buf.WriteString(`=`)
	buf.WriteString(qfield)
	buf.WriteString(formatDelta(delta))
	appendWhere(&buf, dia, cond)
	return buf.String(), nil
}

func appendWhere(buf *strings.Builder, dia Dialect, cond Cond) {
	where := CompileCond(dia, cond, false)
	if where == `` {
		return
	}
	buf.WriteString(` WHERE `)
	buf.WriteString(where)
}
