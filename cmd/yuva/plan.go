package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jozzer182/Yuva/cleanup"
)

func newPlanCmd(root *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the ordered cleanup plan",
		Long: `Print the collections a deletion run cleans, in execution order,
followed by the identity removal that always runs last.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			targets := cfg.Targets()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(targets)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tSTEP\tOWNER FIELD\tPROGRESS")
			for i, t := range targets {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, t.Collection.Name, t.Collection.OwnerField, t.Progress)
			}
			fmt.Fprintf(tw, "%d\t%s\t-\t%s\n", len(targets)+1, cleanup.RemovalStepName, cleanup.RemovalProgress)
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")
	return cmd
}
