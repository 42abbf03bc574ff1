package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/onboardkit/pkg/i18n"
	"github.com/dmitrymomot/onboardkit/pkg/tier"
)

func newTiersCmd(a *app) *cobra.Command {
	var (
		asJSON  bool
		lang    string
		compare string
	)
	cmd := &cobra.Command{
		Use:   "tiers [key]",
		Short: "List the support tiers or describe one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if compare != "" {
				from, to, ok := strings.Cut(compare, ",")
				if !ok {
					return fmt.Errorf("--compare wants from,to")
				}
				ft, err := a.catalog.Get(strings.TrimSpace(from))
				if err != nil {
					return err
				}
				tt, err := a.catalog.Get(strings.TrimSpace(to))
				if err != nil {
					return err
				}
				return printJSON(out, tier.Compare(ft, tt))
			}

			if len(args) == 1 {
				t, err := a.catalog.Get(args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(out, t)
				}
				fmt.Fprintf(out, "%s (%s)\n%s\n\n", t.Name, t.Key, t.Description)
				for _, line := range tier.Narrative(t.Key, lang) {
					fmt.Fprintln(out, "  -", line)
				}
				return nil
			}

			if asJSON {
				return printJSON(out, a.catalog.All())
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tNAME\tTENANTS\tCONTACTS\tREQUESTS\tSEVERITY\tCRITICAL")
			for _, t := range a.catalog.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
					t.Key, t.Name, t.TenantsLimit, t.AuthorizedContactsLimit,
					t.SupportRequestsIncluded, strings.Join(t.SeverityLevels, ","), t.CriticalSituation)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().StringVar(&lang, "lang", i18n.DefaultLanguage, "narrative language")
	cmd.Flags().StringVar(&compare, "compare", "", "compare two tiers: from,to")
	return cmd
}
