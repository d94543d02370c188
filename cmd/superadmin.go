package cmd

import (
	"fmt"

	"github.com/bellapacxx/squares-backend/config"
	"github.com/bellapacxx/squares-backend/services"
	"github.com/spf13/cobra"
)

func newSuperAdminCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "superadmin",
		Short: "Manage users allowed to publish shared scores",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <uid>",
		Short: "Grant super admin to uid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			svc := services.NewGameService(st, nil, cfg.PublicURL)
			if err := svc.AddSuperAdmin(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is now a super admin\n", args[0])
			return err
		},
	})
	return cmd
}
