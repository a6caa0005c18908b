package main

import (
	"errors"
	"fmt"
	"time"

	"customerSegmentation/pkg/config"
	"customerSegmentation/pkg/utils"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		userID string
		role   string
		secret string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a JWT for the admin endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" || ttl == 0 {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if secret == "" {
					secret = cfg.JWT.SecretKey
				}
				if ttl == 0 {
					ttl = cfg.JWT.TTL
				}
			}
			if secret == "" {
				return errors.New("missing jwt secret: set JWT_SECRET or pass --secret")
			}

			token, err := utils.GenerateJWT(userID, role, secret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "ops", "Subject user id")
	cmd.Flags().StringVar(&role, "role", "ADMIN", "Role claim")
	cmd.Flags().StringVar(&secret, "secret", "", "HMAC secret (defaults to JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to JWT_TTL)")
	return cmd
}
