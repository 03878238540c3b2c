package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "Show probed backend availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initAnalyzer(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tNAME\tTIER\tAVAILABLE\tPROBE ERROR")
		for _, d := range env.Registry.Descriptors() {
			probeErr := d.ProbeErr
			if probeErr == "" {
				probeErr = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", d.Kind, d.Name, d.Tier, d.Available, probeErr)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}
