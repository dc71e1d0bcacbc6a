package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"poet/internal/driver"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local render cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := driver.OpenDiskCache("poet")
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Dir())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached render",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := driver.OpenDiskCache("poet")
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			if err := c.DropAll(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", c.Dir())
			return nil
		},
	})
	return cmd
}
