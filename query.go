package dbrepo

import (
	"context"
	"database/sql"
	"math"

	"github.com/rs/zerolog"
)

/*
Query node: statement builders bound to one data source. Every method compiles
its condition with the data source's dialect, inlines values, and runs the
resulting SQL.

Usually obtained from `Node` or `Registry.Node`. Safe for concurrent use, as
long as the underlying executor is.
*/
type Query struct{ Ds *DataSource }

// Creates a query node over the given data source.
func NewQuery(ds *DataSource) *Query { return &Query{Ds: ds} }

// Dialect of the underlying data source.
func (self *Query) Dialect() Dialect { return self.Ds.Dialect }

// Compiles a condition with this node's dialect. See `CompileCond`.
func (self *Query) Cond(cond Cond, parens bool) string {
	return CompileCond(self.Dialect(), cond, parens)
}

/*
Result of `Query.Select`. `Total` is populated only when `Find.Total` is set,
and then counts every matching row regardless of paging.
*/
type Page struct {
	Total int64    `json:"total"`
	Rows  []Record `json:"rows"`
}

// Result of `Query.SelectCol`. See `Page`.
type ColPage struct {
	Total int64 `json:"total"`
	Rows  []any `json:"rows"`
}

/*
First matching row, or nil when nothing matches. Ignores `Find.Limit` and
`Find.Total`.
*/
func (self *Query) SelectRow(ctx context.Context, find Find) (Record, error) {
	return self.Ds.Row(ctx, SelectSql(self.Dialect(), find))
}

/*
Matching rows, paged by `Find.Limit`. When `Find.Total` is set, the total is
counted first over the unpaged query, and a zero total skips the row query.
*/
func (self *Query) Select(ctx context.Context, find Find) (out Page, err error) {
	text := SelectSql(self.Dialect(), find)

	if find.Total {
		out.Total, err = self.Ds.Count(ctx, text)
		if err != nil || out.Total == 0 {
			out.Rows = []Record{}
			return
		}
	}

	out.Rows, err = self.Ds.All(ctx, LimitSql(self.Dialect(), text, find.Limit))
	if out.Rows == nil {
		out.Rows = []Record{}
	}
	return
}

/*
Like `Select`, but returns the values of one column, by zero-based index into
the select list.
*/
func (self *Query) SelectCol(ctx context.Context, find Find, col int) (out ColPage, err error) {
	text := SelectSql(self.Dialect(), find)

	if find.Total {
		out.Total, err = self.Ds.Count(ctx, text)
		if err != nil || out.Total == 0 {
			out.Rows = []any{}
			return
		}
	}

	out.Rows, err = self.Ds.Col(ctx, LimitSql(self.Dialect(), text, find.Limit), col)
	if out.Rows == nil {
		out.Rows = []any{}
	}
	return
}

/*
Counts matching rows. Empty fields count "*". With `distinct`, counts distinct
values of the fields.
*/
func (self *Query) Count(ctx context.Context, table string, cond Cond, fields Fields, distinct bool) (int64, error) {
	val, err := self.Ds.One(ctx, CountSql(self.Dialect(), table, cond, fields, distinct))
	if err != nil {
		return 0, err
	}
	return toInt64(val), nil
}

/*
Inserts one row. When `pkval` is true, returns the generated key, otherwise
the number of affected rows. Drivers without `LastInsertId` support, such as
"lib/pq", return an error for `pkval`.
*/
func (self *Query) Insert(ctx context.Context, table string, row NamedArgs, pkval bool) (int64, error) {
	text, err := InsertSql(self.Dialect(), table, row)
	if err != nil {
		return 0, err
	}

	res, err := self.Ds.Exec(ctx, text)
	if err != nil {
		return 0, err
	}
	if pkval {
		id, err := res.LastInsertId()
		return resultOf(text, id, err)
	}
	count, err := res.RowsAffected()
	return resultOf(text, count, err)
}

/*
Updates matching rows, returning the number of affected rows. An empty row
returns `ErrNothingToUpdate` without touching the database.
*/
func (self *Query) Update(ctx context.Context, table string, row NamedArgs, cond Cond) (int64, error) {
	text, err := UpdateSql(self.Dialect(), table, row, cond)
	if err != nil {
		return 0, err
	}
	return self.exec(ctx, text)
}

// Deletes matching rows, returning the number of affected rows.
func (self *Query) Del(ctx context.Context, table string, cond Cond) (int64, error) {
	return self.exec(ctx, DeleteSql(self.Dialect(), table, cond))
}

/*
Adds `delta` to the field of matching rows, returning the number of affected
rows. An empty field returns `ErrEmptyField`.
*/
func (self *Query) IncrField(ctx context.Context, table, field string, delta int64, cond Cond) (int64, error) {
	text, err := IncrSql(self.Dialect(), table, field, delta, cond)
	if err != nil {
		return 0, err
	}
	return self.exec(ctx, text)
}

/*
Same as `IncrField` with a negated delta. `math.MinInt64` has no negation and
returns `ErrInvalidInput`.
*/
func (self *Query) DecrField(ctx context.Context, table, field string, delta int64, cond Cond) (int64, error) {
	if delta == math.MinInt64 {
		return 0, ErrInvalidInput.while(`decrementing field ` + field).
			because(errf(`delta %d can't be negated`, delta))
	}
	return self.IncrField(ctx, table, field, -delta, cond)
}

/*
Runs the function in a transaction. The function receives a node bound to the
transaction. A returned error or a panic rolls back, otherwise the transaction
is committed. When this node is already bound to a transaction, the function
joins it.
*/
func (self *Query) Tx(ctx context.Context, fun func(*Query) error) (err error) {
	if _, ok := self.Ds.Db.(*sql.Tx); ok {
		return fun(self)
	}

	beginner, ok := self.Ds.Db.(TxBeginner)
	if !ok {
		return ErrInvalidInput.while(`beginning transaction`).
			because(errf(`executor %T doesn't support transactions`, self.Ds.Db))
	}

	tx, err := beginner.BeginTx(ctx, nil)
	if err != nil {
		return queryErrOf(`BEGIN`, err)
	}

	defer func() {
		val := recover()
		if val != nil {
			_ = tx.Rollback()
			panic(val)
		}
	}()

	err = fun(&Query{Ds: self.Ds.with(tx)})
	if err != nil {
		rollErr := tx.Rollback()
		if rollErr != nil {
			zerolog.Ctx(ctx).Warn().Err(rollErr).Msg(`rollback failed`)
		}
		return err
	}

	err = tx.Commit()
	if err != nil {
		return queryErrOf(`COMMIT`, err)
	}
	return nil
}

func (self *Query) exec(ctx context.Context, text string) (int64, error) {
	res, err := self.Ds.Exec(ctx, text)
	if err != nil {
		return 0, err
	}
	count, err := res.RowsAffected()
	return resultOf(text, count, err)
}

func resultOf(text string, val int64, err error) (int64, error) {
	if err != nil {
		return 0, queryErrOf(text, err)
	}
	return val, nil
}
