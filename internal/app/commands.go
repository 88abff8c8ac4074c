package app

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"spamcheck/internal/checker"
	"spamcheck/internal/phone"
	"spamcheck/internal/tui"
)

var (
	spamColor  = color.New(color.FgRed, color.Bold)
	legitColor = color.New(color.FgGreen, color.Bold)
	faintColor = color.New(color.Faint)
)

func newCheckCmd(c *cli) *cobra.Command {
	var explain, dryRun bool
	cmd := &cobra.Command{
		Use:   "check <number>",
		Short: "Check a phone number and add it to the recent checks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.Join(args, " ")
			var d checker.Details
			if dryRun {
				details, err := c.rt.svc.Details(raw)
				if err != nil {
					return err
				}
				d = details
			} else {
				out, err := c.rt.svc.Check(raw)
				if err != nil {
					return err
				}
				d = out.Details
			}
			w := cmd.OutOrStdout()
			printDetails(w, d)
			if explain {
				rules := c.rt.svc.Explain(raw)
				if len(rules) == 0 {
					fmt.Fprintln(w, "  Matching rules: none")
				} else {
					fmt.Fprintf(w, "  Matching rules: %s\n", strings.Join(rules, ", "))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "list every rule that matches, in evaluation order")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "classify without adding to the recent checks")
	return cmd
}

func newReportCmd(c *cli) *cobra.Command {
	var spam, legit bool
	cmd := &cobra.Command{
		Use:   "report <number> --spam|--legit",
		Short: "Report a number as spam or as legitimate",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if spam == legit {
				return errors.New("exactly one of --spam or --legit is required")
			}
			out, err := c.rt.svc.Report(strings.Join(args, " "), spam)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if spam {
				fmt.Fprintln(w, "Thank you for reporting this number as spam!")
			} else {
				fmt.Fprintln(w, "Thank you for reporting this number as legitimate!")
			}
			printDetails(w, out.Details)
			return nil
		},
	}
	cmd.Flags().BoolVar(&spam, "spam", false, "report as spam")
	cmd.Flags().BoolVar(&legit, "legit", false, "report as legitimate")
	cmd.MarkFlagsMutuallyExclusive("spam", "legit")
	return cmd
}

func newRecentCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List the most recent checks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			entries := c.rt.svc.Recent()
			if len(entries) == 0 {
				fmt.Fprintln(w, "No recent checks")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(w, "%-18s %-22s %s  %s\n", e.DisplayNumber, e.Location, verdictTag(e.IsSpam), faintColor.Sprint(e.Timestamp))
			}
			return nil
		},
	}
}

func newTUICmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive checker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(c.rt.svc, cmd.OutOrStdout())
		},
	}
}

func printDetails(w io.Writer, d checker.Details) {
	if d.IsSpam {
		spamColor.Fprintf(w, "%s is likely a SPAM call!\n", d.Display)
	} else {
		legitColor.Fprintf(w, "%s appears legitimate.\n", d.Display)
	}
	fmt.Fprintf(w, "  Location:  %s\n", d.Location)
	fmt.Fprintf(w, "  Area code: %s\n", d.AreaCode)
	if d.Known != nil {
		fmt.Fprintf(w, "  Known as:  %s\n", d.Known.Category)
		fmt.Fprintf(w, "  Reports in database: %d\n", d.Known.KnownReports)
	}
	if d.Community != nil {
		fmt.Fprintf(w, "  Community reports: %d spam, %d legitimate\n", d.Community.SpamReports, d.Community.LegitReports)
	}
	if d.Rule != "" {
		fmt.Fprintf(w, "  Rule:      %s\n", d.Rule)
	}
}

func verdictTag(isSpam bool) string {
	if isSpam {
		return spamColor.Sprint("SPAM")
	}
	return legitColor.Sprint("Not Spam")
}

func formatRow(rank int, number string, spam, legit int) string {
	return fmt.Sprintf("%2d. %-18s %d spam / %d legit", rank, phone.FormatDisplay(number), spam, legit)
}
