package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/sccctl/config"
	"github.com/s0up4200/sccctl/scc"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	sccClient scc.API

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	filterExpr   string
	preset       string
	outputFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sccctl",
	Short: "Query products, repositories and subscriptions from SUSE Customer Center",
	Long: `sccctl is a CLI for the SUSE Customer Center (SCC) organization API.
It lists the products, repositories and subscriptions visible to your
organization credentials and can narrow them down with filter expressions.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// SetVersion records build information for the version command and User-Agent
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table or json)")
}

// skipsConfig reports whether cmd runs without credentials: version, help and
// the shell completion commands.
func skipsConfig(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case versionCmd.Name(), "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return cmd.HasParent() && cmd.Parent().Name() == "completion"
}

// initializeApp initializes the configuration and the SCC client
func initializeApp(cmd *cobra.Command, args []string) error {
	if skipsConfig(cmd) {
		return nil
	}

	if outputFormat != "table" && outputFormat != "json" {
		return fmt.Errorf("invalid output format: %s (must be 'table' or 'json')", outputFormat)
	}

	// A .env file is optional
	_ = godotenv.Load()

	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	userAgent := cfg.SCC.UserAgent
	if userAgent == "" {
		userAgent = "sccctl/" + version
	}

	sccClient = scc.NewClientWithURL(cfg.SCC.URL, cfg.SCC.Username, cfg.SCC.Password,
		scc.WithLogger(logger),
		scc.WithTimeout(cfg.SCC.Timeout),
		scc.WithProxy(cfg.SCC.Proxy),
		scc.WithUserAgent(userAgent),
	)

	logger.Debug().Str("url", cfg.SCC.URL).Str("username", cfg.SCC.Username).Msg("SCC client configured")
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, colored only on a terminal
	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !tty,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sccctl %s (built %s)\n", version, buildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
