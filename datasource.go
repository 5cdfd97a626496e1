package dbrepo

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

/*
Subset of `*sql.DB`, `*sql.Conn` and `*sql.Tx` used for running statements.
*/
type Executor interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}

// Implemented by `*sql.DB`. Used by `Query.Tx`.
type TxBeginner interface {
	BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error)
}

var (
	_ = Executor((*sql.DB)(nil))
	_ = Executor((*sql.Tx)(nil))
	_ = TxBeginner((*sql.DB)(nil))
)

/*
One result row, keyed by column name. Text columns that the driver returns as
`[]byte` are converted to `string`.
*/
type Record = map[string]any

/*
Runs fully-formed SQL text. Every statement is logged at debug level through
the logger attached to the context (see `zerolog.Ctx`), counted, and timed.
Failures are returned as `QueryErr`, carrying the driver's code and message
together with the SQL text.

Statements reach the driver without arguments. Values must already be inlined,
which is what every builder in this package does.
*/
type DataSource struct {
	Db      Executor
	Dialect Dialect
	count   *atomic.Int64
}

// Wraps a connection. A nil dialect falls back to `MySQL`.
func NewDataSource(db Executor, dia Dialect) *DataSource {
	if dia == nil {
		dia = MySQL{}
	}
	return &DataSource{Db: db, Dialect: dia, count: new(atomic.Int64)}
}

// Same data source over another executor, typically a transaction. Shares the
// statement counter.
func (self *DataSource) with(db Executor) *DataSource {
	out := *self
	out.Db = db
	return &out
}

// Number of statements run through this data source and its transactions.
func (self *DataSource) QueryCount() int64 {
	if self.count == nil {
		return 0
	}
	return self.count.Load()
}

// Runs a statement that returns no rows.
func (self *DataSource) Exec(ctx context.Context, text string) (sql.Result, error) {
	start := self.begin()
	res, err := self.Db.ExecContext(ctx, text)
	err = self.end(ctx, kindExec, text, start, err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// All rows of the result.
func (self *DataSource) All(ctx context.Context, text string) (out []Record, err error) {
	err = self.query(ctx, text, func(rows *sql.Rows) error {
		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		for rows.Next() {
			vals, err := scanRow(rows, len(cols))
			if err != nil {
				return err
			}
			out = append(out, recordOf(cols, vals))
		}
		return nil
	})
	return
}

// First row of the result, or nil when there are no rows.
func (self *DataSource) Row(ctx context.Context, text string) (out Record, err error) {
	err = self.query(ctx, text, func(rows *sql.Rows) error {
		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		if !rows.Next() {
			return nil
		}
		vals, err := scanRow(rows, len(cols))
		if err != nil {
			return err
		}
		out = recordOf(cols, vals)
		return nil
	})
	return
}

// First column of the first row, or nil when there are no rows.
func (self *DataSource) One(ctx context.Context, text string) (out any, err error) {
	err = self.query(ctx, text, func(rows *sql.Rows) error {
		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		if len(cols) == 0 || !rows.Next() {
			return nil
		}
		vals, err := scanRow(rows, len(cols))
		if err != nil {
			return err
		}
		out = vals[0]
		return nil
	})
	return
}

/*
Values of one column across all rows. `col` is a zero-based column index. An
index past the last column yields nils, one per row.
*/
func (self *DataSource) Col(ctx context.Context, text string, col int) (out []any, err error) {
	err = self.query(ctx, text, func(rows *sql.Rows) error {
		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		for rows.Next() {
			vals, err := scanRow(rows, len(cols))
			if err != nil {
				return err
			}
			if col >= 0 && col < len(vals) {
				out = append(out, vals[col])
			} else {
				out = append(out, nil)
			}
		}
		return nil
	})
	return
}

// Number of rows the given SELECT would return. See `CountWrapSql`.
func (self *DataSource) Count(ctx context.Context, text string) (int64, error) {
	val, err := self.One(ctx, CountWrapSql(text))
	if err != nil {
		return 0, err
	}
	return toInt64(val), nil
}

func (self *DataSource) query(ctx context.Context, text string, fun func(*sql.Rows) error) error {
	start := self.begin()
	rows, err := self.Db.QueryContext(ctx, text)
	if err == nil {
		err = fun(rows)
		if err == nil {
			err = rows.Err()
		}
		closeErr := rows.Close()
		if err == nil {
			err = closeErr
		}
	}
	return self.end(ctx, kindQuery, text, start, err)
}

func (self *DataSource) begin() time.Time {
	if self.count != nil {
		self.count.Add(1)
	}
	return time.Now()
}

func (self *DataSource) end(ctx context.Context, kind, text string, start time.Time, err error) error {
	name := self.Dialect.Name()
	recordQuery(name, kind, start, err)

	logger := zerolog.Ctx(ctx)
	if err != nil {
		err = queryErrOf(text, err)
		logger.Error().Err(err).Str(`dialect`, name).Str(`sql`, text).Msg(`query failed`)
		return err
	}

	logger.Debug().
		Str(`dialect`, name).
		Str(`kind`, kind).
		Str(`sql`, text).
		Dur(`elapsed`, time.Since(start)).
		Msg(`query`)
	return nil
}

func queryErrOf(text string, err error) QueryErr {
	code, msg := driverError(err)
	return QueryErr{DriverCode: code, DriverMsg: msg, Sql: text, Cause: err}
}

// Extracts the engine-specific code and message of a driver error.
func driverError(err error) (string, string) {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return strconv.FormatUint(uint64(myErr.Number), 10), myErr.Message
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Message
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return strconv.Itoa(int(liteErr.ExtendedCode)), liteErr.Error()
	}

	return ``, err.Error()
}

func scanRow(rows *sql.Rows, count int) ([]any, error) {
	vals := make([]any, count)
	ptrs := make([]any, count)
	for ind := range vals {
		ptrs[ind] = &vals[ind]
	}
	err := rows.Scan(ptrs...)
	if err != nil {
		return nil, err
	}
	for ind, val := range vals {
		if bytes, ok := val.([]byte); ok {
			vals[ind] = string(bytes)
		}
	}
	return vals, nil
}

func recordOf(cols []string, vals []any) Record {
	out := make(Record, len(cols))
	for ind, col := range cols {
		out[col] = vals[ind]
	}
	return out
}

func toInt64(val any) int64 {
	switch val := val.(type) {
	case int64:
		return val
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case uint64:
		return int64(val)
	case float64:
		return int64(val)
	case string:
		out, _ := strconv.ParseInt(val, 10, 64)
		return out
	default:
		return 0
	}
}
