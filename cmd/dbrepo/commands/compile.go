package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aertgo/dbrepo"
)

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	var dialect string
	var parens bool

	cmd := &cobra.Command{
		Use:   "compile [condition]",
		Short: "Compile a condition into a WHERE clause",
		Long: `Compile a YAML or JSON condition into the text of a WHERE clause,
without connecting to a database. Reads the condition from stdin when the
argument is absent or "-".

Example:
  dbrepo compile '{"status": 1, "id": [[1, 2, 3], "IN"]}'
  status = 1 AND id IN (1,2,3)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			cond, err := dbrepo.ParseCondYAML(src)
			if err != nil {
				return err
			}
			dia := dbrepo.DialectFor(dbrepo.DriverName(dialect))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), dbrepo.CompileCond(dia, cond, parens))
			return err
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", "mysql", "SQL dialect: mysql, sqlite or postgres")
	cmd.Flags().BoolVar(&parens, "parens", false, "Wrap the result in parentheses")

	return cmd
}
