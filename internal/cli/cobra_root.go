package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"task-app/internal/config"
	"task-app/internal/logging"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd       *cobra.Command
	app       *App
	config    *config.Config
	out       io.Writer
	logOut    io.Writer
	errors    *ErrorHandler
	overrides config.ConfigOverrides
}

// NewRootCommand creates the root cobra command with global flags. Command
// output goes to out; logs go to logOut.
func NewRootCommand(out, logOut io.Writer) *RootCommand {
	root := &RootCommand{
		out:    out,
		logOut: logOut,
		errors: NewErrorHandler(),
	}

	root.cmd = &cobra.Command{
		Use:   "taskapp",
		Short: "Task management API with AI-assisted planning",
		Long: `taskapp serves a REST API for managing tasks, with assistant endpoints
that summarise pending work, suggest priorities and draft descriptions.

EXAMPLES:
  taskapp serve                            # Start the API on :3001
  taskapp serve --db-driver postgres       # Use PostgreSQL (DATABASE_URL or TASKAPP_DB_*)
  taskapp migrate                          # Apply pending schema migrations
  taskapp migrate down                     # Revert the latest migration
  taskapp token alice                      # Mint a bearer token for "alice"

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > config file > defaults

  Config file:
    --config, TASKAPP_CONFIG               YAML file with server/database/ai/auth/validation/logging sections

  Server:
    PORT, TASKAPP_SERVER_PORT              Listen port (default: 3001)
    TASKAPP_SERVER_CORS_ORIGINS            Comma-separated allowed origins (default: *)

  Database:
    TASKAPP_DB_DRIVER                      sqlite or postgres (default: sqlite)
    TASKAPP_DB_PATH                        SQLite file (default: data/tasks.db)
    DATABASE_URL, TASKAPP_DB_DSN           PostgreSQL connection string

  AI:
    TASKAPP_AI_PROVIDER                    auto, openai, anthropic or offline (default: auto)
    OPENAI_API_KEY, ANTHROPIC_API_KEY      Provider credentials
    TASKAPP_AI_MODEL                       Model override

  Auth:
    TASKAPP_AUTH_JWT_SECRET                Enables bearer-token auth when set

  Logging:
    TASKAPP_LOG_LEVEL, TASKAPP_LOG_FORMAT  Level and json|console output
    TASKAPP_DEBUG                          Print debug traces`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Apply configuration overrides from flags before any command runs
			return root.setup(cmd)
		},
	}

	// Add global flags for configuration overrides
	root.addGlobalFlags()

	// Add all subcommands
	root.addSubcommands()

	return root
}

// Execute runs the root command with args
func (r *RootCommand) Execute(ctx context.Context, args []string) error {
	r.cmd.SetArgs(args)
	r.cmd.SetOut(r.out)
	if err := r.cmd.ExecuteContext(ctx); err != nil {
		return r.errors.HandleSimple(err)
	}
	return nil
}

// Config returns the configuration resolved for the last run
func (r *RootCommand) Config() *config.Config {
	return r.config
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "YAML config file (overrides TASKAPP_CONFIG)")

	// Server configuration
	flags.String("host", "", "Listen host (overrides TASKAPP_SERVER_HOST)")
	flags.Int("port", 0, "Listen port (overrides PORT and TASKAPP_SERVER_PORT)")

	// Database configuration
	flags.String("db-driver", "", "Database driver: sqlite or postgres (overrides TASKAPP_DB_DRIVER)")
	flags.String("db-path", "", "SQLite database file (overrides TASKAPP_DB_PATH)")
	flags.String("db-dsn", "", "PostgreSQL DSN (overrides DATABASE_URL and TASKAPP_DB_DSN)")

	// AI configuration
	flags.String("ai-provider", "", "AI provider: auto, openai, anthropic or offline (overrides TASKAPP_AI_PROVIDER)")
	flags.String("ai-model", "", "AI model name (overrides TASKAPP_AI_MODEL)")

	// Logging configuration
	flags.String("log-level", "", "Log level (overrides TASKAPP_LOG_LEVEL)")
	flags.String("log-format", "", "Log format: json or console (overrides TASKAPP_LOG_FORMAT)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Open the database, apply migrations and serve the API until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return r.app.Execute(ctx, "serve", args)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate [up|down|version]",
		Short: "Manage the database schema",
		Long: `Apply, revert or inspect schema migrations.

Examples:
  taskapp migrate            # Apply all pending migrations
  taskapp migrate down       # Revert the most recent migration
  taskapp migrate version    # Print the current schema version`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.Execute(cmd.Context(), "migrate", args)
		},
	}

	tokenCmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Print a bearer token",
		Long:  "Sign a bearer token for subject using TASKAPP_AUTH_JWT_SECRET.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.Execute(cmd.Context(), "token", args)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.Execute(cmd.Context(), "version", args)
		},
	}

	// Add all subcommands to root
	r.cmd.AddCommand(
		serveCmd,
		migrateCmd,
		tokenCmd,
		versionCmd,
	)
}

// setup resolves configuration, builds the logger and the App
func (r *RootCommand) setup(cmd *cobra.Command) error {
	path, _ := r.cmd.PersistentFlags().GetString("config")
	r.overrides = r.getOverridesFromFlags()

	cfg, err := config.NewLoader().LoadWithOverrides(path, &r.overrides)
	if err != nil {
		return err
	}
	r.config = cfg

	logger, err := logging.New(r.logOut, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)
	logging.Debugln("running command:", cmd.CommandPath())
	logging.Debugf("database driver %s, ai provider %s", cfg.Database.Driver, cfg.AI.Provider)

	r.app = NewApp(cfg, logger, r.out)
	return nil
}

// getOverridesFromFlags collects the flags the user actually set
func (r *RootCommand) getOverridesFromFlags() config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	var o config.ConfigOverrides

	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}

	o.Host = stringFlag("host")
	if flags.Changed("port") {
		port, _ := flags.GetInt("port")
		o.Port = &port
	}
	o.DBDriver = stringFlag("db-driver")
	o.DBPath = stringFlag("db-path")
	o.DBDSN = stringFlag("db-dsn")
	o.AIProvider = stringFlag("ai-provider")
	o.AIModel = stringFlag("ai-model")
	o.LogLevel = stringFlag("log-level")
	o.LogFormat = stringFlag("log-format")

	return o
}
