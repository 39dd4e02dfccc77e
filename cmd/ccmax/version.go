package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mm-zacharydavison/claude-code-maximizer/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of ccmax",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.GetCurrentVersion(viper.GetString("mode")))
	},
}
