package main

import (
	"context"
	"fmt"

	loyverserouter "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/router"
	"github.com/oacc1974/Golmarcadmion/internal/global"
	"github.com/oacc1974/Golmarcadmion/internal/loyverse"
	"github.com/spf13/cobra"
)

func webhooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhooks",
		Short: "Manage the webhooks registered on Loyverse",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered webhooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *loyverserouter.Services) error {
				hooks, err := s.Admin.List(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), hooks)
			})
		},
	})
	cmd.AddCommand(createWebhookCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *loyverserouter.Services) error {
				if err := s.Admin.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted webhook %s\n", args[0])
				return nil
			})
		},
	})
	return cmd
}

func createWebhookCmd() *cobra.Command {
	var in loyverse.CreateWebhookInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register one webhook per event type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *loyverserouter.Services) error {
				if err := global.Validate.Struct(in); err != nil {
					return err
				}
				created, err := s.Admin.Create(ctx, in)
				if len(created) > 0 {
					if perr := printJSON(cmd.OutOrStdout(), created); perr != nil {
						return perr
					}
				}
				return err
			})
		},
	}
	cmd.Flags().StringVar(&in.URL, "url", "", "public URL of POST /api/v1/integrations/loyverse/webhook-events")
	cmd.Flags().StringVar(&in.Name, "name", "", "webhook name")
	cmd.Flags().StringSliceVar(&in.EventTypes, "types", global.LoyverseEventTypes, "event types to subscribe")
	cmd.Flags().StringVar(&in.Status, "status", "ENABLED", "ENABLED or DISABLED")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}
