package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/wumpusmesh"
	"github.com/hupe1980/wumpusmesh/logging"
)

func newRunCmd(c *cli) *cobra.Command {
	var showBeliefs bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation until the agents are quiescent",
		Long: `Creates the world, spawns the agents and ticks them until none of them has
anything left to do, the configured timeout expires or the process is
interrupted. The ground truth is printed before and after the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, c.cfg.GetTimeout())
			defer cancel()

			logger := logging.NewZapAdapter(c.logger)
			defer logging.StartTimer(logger, "simulation")()

			m, err := wumpusmesh.NewFromConfig(c.cfg, func(o *wumpusmesh.Options) {
				o.Logger = logger
			})
			if err != nil {
				return err
			}
			defer m.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "world:\n%s\n\n", m.World())

			res, err := m.Run(ctx)
			if err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}

			fmt.Fprintf(out, "after %d ticks in %s (quiescent: %t):\n%s\n\n", res.Ticks, res.Elapsed, res.Quiescent, m.World())
			printReport(out, m.Report(), showBeliefs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showBeliefs, "beliefs", false, "print every agent's final belief map")
	return cmd
}

func printReport(out io.Writer, r wumpusmesh.Report, beliefs bool) {
	fmt.Fprintf(out, "gold delivered: %d, gold left: %d\n", r.Delivered, r.GoldLeft)
	for _, a := range r.Agents {
		state := "alive"
		if a.Dead {
			state = "dead"
		}
		fmt.Fprintf(out, "agent %d: %s, %d ticks, holds gold: %t, explored: %t\n",
			a.ID, state, a.Ticks, a.HoldsGold, a.Beliefs.Explored)
		if beliefs {
			fmt.Fprintf(out, "%s\n", a.Beliefs)
		}
	}
}
