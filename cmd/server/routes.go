package main

import (
	"fmt"

	"github.com/pricofy/translation-dispatcher/internal/router"
	"github.com/spf13/cobra"
)

var Routes = &cobra.Command{
	Use:   "routes",
	Short: "list the supported language pairs and their models",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, r := range router.SupportedRoutes() {
			kind := "pipeline"
			if r.Dedicated {
				kind = "seq2seq"
			}
			fmt.Fprintf(out, "%s\t%s\t%s\n", r.Pair, kind, r.Model)
		}
	},
}
