package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/radionets-project/radiotools/internal/layout"
)

func newArraysCmd() *cobra.Command {
	var remote bool

	c := &cobra.Command{
		Use:   "arrays",
		Short: "List the known array layout names",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := layout.KnownArrays
			if remote {
				fetched, err := layout.NewFetcher().ArrayNames(cmd.Context())
				if err != nil {
					return fmt.Errorf("fetch array index: %w", err)
				}
				names = fetched
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	c.Flags().BoolVar(&remote, "remote", false, "scrape the live layout index instead of the built-in list")

	return c
}
