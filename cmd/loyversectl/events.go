package main

import (
	"context"

	loyverserouter "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/router"
	"github.com/spf13/cobra"
)

func eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect and replay received webhook events",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <event-id>",
		Short: "Show a stored event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *loyverserouter.Services) error {
				ev, err := s.Webhooks.GetEvent(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), ev)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "replay <event-id>",
		Short: "Process a stored event payload again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *loyverserouter.Services) error {
				res, err := s.Webhooks.Replay(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	})
	return cmd
}
