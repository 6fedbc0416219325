package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/radionets-project/radiotools/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "radiotools %s\n", version.Version)
		},
	}
}
