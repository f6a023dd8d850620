package main

import (
	"encoding/json"

	"NexusFlow/internal/service"

	"github.com/spf13/cobra"
)

func newReconcileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute denormalized counters once and print what was repaired",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, closeDB, err := a.openDB(false)
			if err != nil {
				return err
			}
			defer closeDB()

			report, err := service.NewCounterReconciler(db, nil, a.log).RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
}
