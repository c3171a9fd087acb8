package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/searchretriever/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of searchretriever",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "searchretriever", version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
