package cmd

import (
	"github.com/spf13/cobra"
)

var regionsMalay bool

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List the pricing regions and their states",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeRegions(cmd.OutOrStdout(), regionsMalay)
	},
}

func init() {
	regionsCmd.Flags().BoolVar(&regionsMalay, "malay", false, "show region names in Malay")
}
