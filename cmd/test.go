package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/sccctl/scc"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the SCC credentials",
	Long:  `Test the connection to SCC with the configured organization credentials.`,
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Testing connection to SCC at %s...\n", cfg.SCC.URL)

	subs, err := sccClient.ListSubscriptions(cmd.Context())
	if err != nil {
		if sccErr, ok := scc.AsError(err); ok && sccErr.IsUnauthorized() {
			return fmt.Errorf("credentials for %s were rejected (status %d)", cfg.SCC.Username, sccErr.StatusCode)
		}
		return fmt.Errorf("connection failed: %w", err)
	}

	fmt.Fprintln(out, "✓ Connection successful!")
	fmt.Fprintf(out, "- Organization user: %s\n", cfg.SCC.Username)
	fmt.Fprintf(out, "- Subscriptions: %d\n", len(subs))
	return nil
}
