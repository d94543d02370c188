package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bellapacxx/squares-backend/auth"
	"github.com/bellapacxx/squares-backend/config"
	"github.com/spf13/cobra"
)

func newTokenCmd(cfg *config.Config) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "token <uid> <display name...>",
		Short: "Mint a bearer token for local testing",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is required")
			}
			iss := auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
			token, err := iss.Issue(args[0], strings.Join(args[1:], " "), email)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	return cmd
}
