package commands

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/aertgo/dbrepo"
)

// NewSelectCommand creates the select command.
func NewSelectCommand(flags *globalFlags) *cobra.Command {
	var (
		where   string
		fields  string
		sort    string
		limit   int64
		offset  int64
		total   bool
		sqlOnly bool
	)

	cmd := &cobra.Command{
		Use:   "select <table>",
		Short: "Select rows from a table",
		Long: `Select rows matching a condition and print them as JSON.

The --sort flag accepts "<column> [asc|desc] [nulls first|last]" items
separated by commas; identifiers are quoted for the domain's dialect.

Example:
  dbrepo select users --where '{"status": 1}' --fields id,name --sort "id desc" --limit 10 --total`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := dbrepo.Node(flags.domain)
			if err != nil {
				return err
			}

			cond, err := parseWhere(where)
			if err != nil {
				return err
			}

			ords, err := dbrepo.ParseOrds(sort)
			if err != nil {
				return err
			}

			find := dbrepo.Find{
				Table:  args[0],
				Cond:   cond,
				Fields: dbrepo.ParseFields(fields),
				Sort:   ords.Sql(node.Dialect()),
				Limit:  dbrepo.LimitFrom(offset, limit),
				Total:  total,
			}

			if sqlOnly {
				text := dbrepo.LimitSql(node.Dialect(), dbrepo.SelectSql(node.Dialect(), find), find.Limit)
				_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
				return err
			}

			page, err := node.Select(cmd.Context(), find)
			if err != nil {
				return err
			}
			return writeJSON(cmd, page)
		},
	}

	cmd.Flags().StringVar(&where, "where", "", "Condition as YAML or JSON")
	cmd.Flags().StringVar(&fields, "fields", "", "Comma-separated columns (default: all)")
	cmd.Flags().StringVar(&sort, "sort", "", "Ordering, e.g. \"id desc, name\"")
	cmd.Flags().Int64Var(&limit, "limit", 0, "Maximum number of rows (0: no limit)")
	cmd.Flags().Int64Var(&offset, "offset", 0, "Number of rows to skip")
	cmd.Flags().BoolVar(&total, "total", false, "Also count all matching rows")
	cmd.Flags().BoolVar(&sqlOnly, "sql", false, "Print the SQL instead of running it")

	return cmd
}

// writeJSON prints the value as indented JSON.
func writeJSON(cmd *cobra.Command, val any) error {
	out, err := json.MarshalIndent(val, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
