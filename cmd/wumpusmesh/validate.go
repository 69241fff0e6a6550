package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/wumpusmesh/config"
	"github.com/hupe1980/wumpusmesh/world"
)

func newValidateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a simulation config and print its world",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cfg.Validate(); err != nil {
				return err
			}
			w, err := world.New(c.cfg.World)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%dx%d world, %d agent(s), %s transport\n%s\n",
				w.Width(), w.Height(), c.cfg.Agents, c.cfg.Transport.Kind, w)
			return nil
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <path>",
		Short: "Write the standard world config to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.StandardWorld().Save(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
}
