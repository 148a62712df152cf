package main

import (
	"github.com/spf13/cobra"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Print the active keyword taxonomy as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"policy":   engine.Policy().Name,
			"taxonomy": engine.Taxonomy(),
		})
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
}
