package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/s0up4200/sccctl/scc"
)

// writeJSON renders records as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

// formatProducts prints one row per product and indented rows for its extensions
func formatProducts(w io.Writer, products []scc.Product) error {
	tw := newTable(w, "ID", "NAME", "VERSION", "ARCH", "CLASS", "FREE")
	for _, p := range products {
		writeProduct(tw, p, "")
	}
	return tw.Flush()
}

func writeProduct(tw io.Writer, p scc.Product, indent string) {
	fmt.Fprintf(tw, "%d\t%s%s\t%s\t%s\t%s\t%s\n",
		p.ID, indent, p.Label(), dash(p.Version), dash(p.Arch), dash(p.ProductClass), yesNo(p.Free))
	for _, ext := range p.Extensions {
		writeProduct(tw, ext, indent+"  ")
	}
}

// formatRepositories prints one row per repository. URLs are left to JSON output
// since SCC embeds access tokens in them.
func formatRepositories(w io.Writer, repos []scc.Repository) error {
	tw := newTable(w, "ID", "NAME", "DISTRO TARGET", "AUTOREFRESH")
	for _, r := range repos {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.ID, r.Name, dash(r.DistroTarget), yesNo(r.Autorefresh))
	}
	return tw.Flush()
}

// formatSubscriptions prints one row per subscription with its usage and expiry
func formatSubscriptions(w io.Writer, subs []scc.Subscription) error {
	now := time.Now()
	tw := newTable(w, "ID", "NAME", "STATUS", "SYSTEMS", "EXPIRES", "DAYS LEFT")
	for _, s := range subs {
		expires, daysLeft := "-", "-"
		if !s.ExpiresAt.IsZero() {
			expires = s.ExpiresAt.Format("2006-01-02")
			daysLeft = fmt.Sprintf("%d", s.DaysUntilExpiry(now))
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.Name, dash(s.Status), usage(s), expires, daysLeft)
	}
	return tw.Flush()
}

func usage(s scc.Subscription) string {
	if s.SystemLimit <= 0 {
		return fmt.Sprintf("%d", s.SystemsCount)
	}
	return fmt.Sprintf("%d/%d", s.SystemsCount, s.SystemLimit)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
