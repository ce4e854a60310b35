package main

import (
	"github.com/spf13/cobra"
)

var Root = &cobra.Command{
	Use:          "translation-dispatcher",
	Short:        "route translation requests to the matching model",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	Root.AddCommand(Serve)
	Root.AddCommand(Routes)
}
