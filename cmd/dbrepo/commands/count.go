package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aertgo/dbrepo"
)

// NewCountCommand creates the count command.
func NewCountCommand(flags *globalFlags) *cobra.Command {
	var (
		where    string
		fields   string
		distinct bool
	)

	cmd := &cobra.Command{
		Use:   "count <table>",
		Short: "Count rows in a table",
		Long: `Count rows matching a condition.

Example:
  dbrepo count users --where '{"age": [[18, 65], "BETWEEN_AND"]}'
  dbrepo count users --fields city --distinct`,
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

			count, err := node.Count(cmd.Context(), args[0], cond, dbrepo.ParseFields(fields), distinct)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), count)
			return err
		},
	}

	cmd.Flags().StringVar(&where, "where", "", "Condition as YAML or JSON")
	cmd.Flags().StringVar(&fields, "fields", "", "Comma-separated columns (default: all)")
	cmd.Flags().BoolVar(&distinct, "distinct", false, "Count distinct values of the fields")

	return cmd
}
