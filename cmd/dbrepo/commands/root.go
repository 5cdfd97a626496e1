// Package commands implements the dbrepo CLI commands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aertgo/dbrepo"
	"github.com/aertgo/dbrepo/internal/config"
	"github.com/aertgo/dbrepo/internal/logging"
)

// Version information (set at build time).
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	domain     string
	logLevel   string
	envFile    string
}

// NewRootCommand creates the root command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "dbrepo",
		Short: "Compile and run dynamic SQL conditions",
		Long: `dbrepo compiles structured WHERE conditions, written as YAML or JSON,
into SQL for MySQL, SQLite or Postgres, and runs simple SELECT and COUNT
statements against configured database domains.`,
		Version:       fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, &flags)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return dbrepo.Shutdown()
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to the config file")
	cmd.PersistentFlags().StringVar(&flags.domain, "domain", dbrepo.DefaultDomain, "Database domain")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override the configured log level")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "Dotenv file loaded before the configuration")

	cmd.AddCommand(NewCompileCommand())
	cmd.AddCommand(NewSelectCommand(&flags))
	cmd.AddCommand(NewCountCommand(&flags))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// setup loads the dotenv file, the configuration, and initializes logging and
// the process-wide registry.
func setup(cmd *cobra.Command, flags *globalFlags) error {
	if flags.envFile != "" {
		if err := godotenv.Load(flags.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", flags.envFile, err)
		}
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	logging.Init(logging.Config{
		Level:     level,
		Format:    cfg.Log.Format,
		Caller:    cfg.Log.Caller,
		Timestamp: true,
		Output:    cmd.ErrOrStderr(),
	})
	cmd.SetContext(logging.Logger().WithContext(cmd.Context()))

	domains := make([]string, 0, len(cfg.Domains))
	for name := range cfg.Domains {
		domains = append(domains, name)
	}
	sort.Strings(domains)
	logging.Debug().Strs("domains", domains).Msg("configuration loaded")

	return dbrepo.Init(cfg.Domains)
}

// readInput returns the first argument, or stdin when it's absent or "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) > 0 && args[0] != "-" {
		return []byte(args[0]), nil
	}
	in := cmd.InOrStdin()
	if in == nil {
		in = os.Stdin
	}
	return io.ReadAll(in)
}

// parseWhere decodes a condition flag. Empty input means no condition.
func parseWhere(src string) (dbrepo.Cond, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	return dbrepo.ParseCondYAML([]byte(src))
}
