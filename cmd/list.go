package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/s0up4200/sccctl/filter"
	"github.com/s0up4200/sccctl/scc"
)

// productsCmd represents the products command
var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List all products known to SCC",
	Long: `List every product in the SCC catalog, including extensions.

Example:
  sccctl products -f 'Arch == "x86_64" and not Free'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, "products", sccClient.ListProducts, formatProducts)
	},
}

// repositoriesCmd represents the repositories command
var repositoriesCmd = &cobra.Command{
	Use:     "repositories",
	Aliases: []string{"repos"},
	Short:   "List the repositories available to the organization",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, "repositories", sccClient.ListRepositories, formatRepositories)
	},
}

// subscriptionsCmd represents the subscriptions command
var subscriptionsCmd = &cobra.Command{
	Use:     "subscriptions",
	Aliases: []string{"subs"},
	Short:   "List the subscriptions of the organization",
	Long: `List the subscriptions of the organization.

Example:
  sccctl subscriptions -f 'Status == "ACTIVE" and daysUntil(ExpiresAt) < 30'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, "subscriptions", sccClient.ListSubscriptions, formatSubscriptions)
	},
}

func init() {
	for _, c := range []*cobra.Command{productsCmd, repositoriesCmd, subscriptionsCmd} {
		c.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
		c.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
		rootCmd.AddCommand(c)
	}
}

// runList fetches one collection, applies the filter and renders the result
func runList[T any](cmd *cobra.Command, kind string, fetch func(context.Context) ([]T, error), table func(io.Writer, []T) error) error {
	expr, err := getFilterExpression()
	if err != nil {
		return err
	}

	// Compile before fetching so a typo does not cost a round trip
	var f *filter.Filter[T]
	if expr != "" {
		f, err = filter.Compile[T](expr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	logger.Info().Str("collection", kind).Str("filter", expr).Msg("Fetching from SCC")

	records, err := fetch(cmd.Context())
	if err != nil {
		logSCCError(err)
		return fmt.Errorf("failed to list %s: %w", kind, err)
	}

	total := len(records)
	if f != nil {
		records, err = f.Apply(records)
		if err != nil {
			return err
		}
	}

	logger.Debug().Str("collection", kind).Int("total", total).Int("matched", len(records)).Msg("Listed records")

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return writeJSON(out, records)
	}
	if len(records) == 0 {
		_, err := fmt.Fprintf(out, "No %s found\n", kind)
		return err
	}
	return table(out, records)
}

// getFilterExpression determines the filter expression to use
func getFilterExpression() (string, error) {
	// Priority: command line filter > preset
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if expr, ok := cfg.Filter.Presets[preset]; ok {
			return expr, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	return "", nil
}

// logSCCError adds structured detail for SCC failures
func logSCCError(err error) {
	sccErr, ok := scc.AsError(err)
	if !ok {
		return
	}

	event := logger.Error().Str("kind", sccErr.Kind.String()).Str("url", sccErr.URL)
	if sccErr.StatusCode != 0 {
		event = event.Int("status", sccErr.StatusCode)
	}
	switch {
	case sccErr.IsUnauthorized():
		event.Msg("SCC rejected the credentials")
	case sccErr.Temporary():
		event.Msg("SCC is unreachable or unavailable, try again later")
	default:
		event.Msg("SCC request failed")
	}
}
