package main

import (
	"context"

	loyversedto "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/dto"
	loyverserouter "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/router"
	loyversesvc "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/service"
	"github.com/spf13/cobra"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull entities from Loyverse into the database",
	}
	cmd.AddCommand(fullSyncCmd("stores", (*loyversesvc.SyncService).SyncStores))
	cmd.AddCommand(fullSyncCmd("employees", (*loyversesvc.SyncService).SyncEmployees))
	cmd.AddCommand(fullSyncCmd("items", (*loyversesvc.SyncService).SyncItems))
	cmd.AddCommand(rangedSyncCmd("receipts", (*loyversesvc.SyncService).SyncReceipts))
	cmd.AddCommand(rangedSyncCmd("shifts", (*loyversesvc.SyncService).SyncShifts))
	return cmd
}

func fullSyncCmd(kind string, run func(*loyversesvc.SyncService, context.Context) (*loyversesvc.SyncResult, error)) *cobra.Command {
	return &cobra.Command{
		Use:   kind,
		Short: "Sync all " + kind,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *loyverserouter.Services) error {
				res, err := run(s.Sync, ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}

func rangedSyncCmd(kind string, run func(*loyversesvc.SyncService, context.Context, loyversesvc.SyncRange) (*loyversesvc.SyncResult, error)) *cobra.Command {
	var input loyversedto.SyncRangeInput
	cmd := &cobra.Command{
		Use:   kind,
		Short: "Sync " + kind + " in a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := input.Range()
			if err != nil {
				return err
			}
			r := loyversesvc.SyncRange{StoreID: input.StoreID, From: from, To: to}
			return withServices(cmd, func(ctx context.Context, s *loyverserouter.Services) error {
				res, err := run(s.Sync, ctx, r)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&input.StartDate, "start", "", "start date, YYYY-MM-DD or RFC3339")
	cmd.Flags().StringVar(&input.EndDate, "end", "", "end date, YYYY-MM-DD or RFC3339 (a date covers the whole day)")
	cmd.Flags().StringVar(&input.StoreID, "store", "", "Loyverse store id, all stores when empty")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
