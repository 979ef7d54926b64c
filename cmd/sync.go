package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/sccctl/scc"
)

var expiringDays int

// syncCmd fetches every collection at once
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch products, repositories and subscriptions and print a summary",
	Long: `Fetch all three SCC collections concurrently and print a summary of the
organization: collection sizes, active subscriptions and subscriptions about to
expire. With --output json the complete collections are printed instead.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().IntVar(&expiringDays, "expiring-days", 30, "report subscriptions expiring within this many days")
	rootCmd.AddCommand(syncCmd)
}

// syncResult holds the three collections of one sync
type syncResult struct {
	Products      []scc.Product      `json:"products"`
	Repositories  []scc.Repository   `json:"repositories"`
	Subscriptions []scc.Subscription `json:"subscriptions"`
}

func runSync(cmd *cobra.Command, args []string) error {
	var result syncResult

	start := time.Now()
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		result.Products, err = sccClient.ListProducts(ctx)
		return wrapList("products", err)
	})
	g.Go(func() error {
		var err error
		result.Repositories, err = sccClient.ListRepositories(ctx)
		return wrapList("repositories", err)
	})
	g.Go(func() error {
		var err error
		result.Subscriptions, err = sccClient.ListSubscriptions(ctx)
		return wrapList("subscriptions", err)
	})
	if err := g.Wait(); err != nil {
		logSCCError(err)
		return err
	}

	logger.Info().
		Int("products", len(result.Products)).
		Int("repositories", len(result.Repositories)).
		Int("subscriptions", len(result.Subscriptions)).
		Dur("elapsed", time.Since(start)).
		Msg("Sync complete")

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return writeJSON(out, result)
	}

	var active int
	var expiring []scc.Subscription
	now := time.Now()
	for _, s := range result.Subscriptions {
		if !s.IsActive() {
			continue
		}
		active++
		if !s.ExpiresAt.IsZero() && s.DaysUntilExpiry(now) <= expiringDays {
			expiring = append(expiring, s)
		}
	}

	fmt.Fprintf(out, "Products:      %d\n", len(result.Products))
	fmt.Fprintf(out, "Repositories:  %d\n", len(result.Repositories))
	fmt.Fprintf(out, "Subscriptions: %d (%d active)\n", len(result.Subscriptions), active)

	if len(expiring) > 0 {
		fmt.Fprintf(out, "\nExpiring within %d days:\n", expiringDays)
		return formatSubscriptions(out, expiring)
	}
	return nil
}

func wrapList(kind string, err error) error {
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", kind, err)
	}
	return nil
}
