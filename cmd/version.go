package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crednx/statement-engine/internal/api"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the statement-engine version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("statement-engine " + api.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
