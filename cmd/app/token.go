package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fedeciancaglini/trip-ai/internal/config"
	"github.com/fedeciancaglini/trip-ai/pkg/utils"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is not set")
		}

		userFlag, _ := cmd.Flags().GetString("user")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		userID := uuid.New()
		if userFlag != "" {
			if userID, err = uuid.Parse(userFlag); err != nil {
				return fmt.Errorf("--user must be a UUID: %w", err)
			}
		}

		token, err := utils.CreateToken([]byte(cfg.JWTSecret), userID, "user", ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("user", "", "User id to embed (random when empty)")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
}
