package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mucm/pkg/mucm"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("mucm v" + mucm.Version)
	},
}
